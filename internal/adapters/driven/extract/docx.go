package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DOCX extracts paragraph text from Word documents.
type DOCX struct{}

// Name implements Format.
func (DOCX) Name() string { return "docx" }

// MIMETypes implements Format.
func (DOCX) MIMETypes() []string {
	return []string{"application/vnd.openxmlformats-officedocument.wordprocessingml.document"}
}

// Extensions implements Format.
func (DOCX) Extensions() []string { return []string{".docx"} }

// documentXML is the subset of word/document.xml that holds text.
type documentXML struct {
	Body struct {
		Paragraphs []struct {
			Runs []struct {
				Text []string `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"body"`
}

// coreXML is the subset of docProps/core.xml that holds the title.
type coreXML struct {
	Title string `xml:"title"`
}

// Text implements Format. The document title, when set, is the first line.
func (DOCX) Text(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", invalid("docx", err)
	}

	body, err := readZipFile(zr, "word/document.xml")
	if err != nil {
		return "", invalid("docx", err)
	}
	var doc documentXML
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", invalid("docx", err)
	}

	var b strings.Builder
	if core, err := readZipFile(zr, "docProps/core.xml"); err == nil {
		var props coreXML
		if xml.Unmarshal(core, &props) == nil && strings.TrimSpace(props.Title) != "" {
			b.WriteString(strings.TrimSpace(props.Title))
			b.WriteString("\n\n")
		}
	}
	for i, p := range doc.Body.Paragraphs {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, r := range p.Runs {
			for _, t := range r.Text {
				b.WriteString(t)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("missing %s", name)
}
