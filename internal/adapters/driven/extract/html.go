package extract

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTML extracts visible text from HTML documents.
type HTML struct{}

// Name implements Format.
func (HTML) Name() string { return "html" }

// MIMETypes implements Format.
func (HTML) MIMETypes() []string { return []string{"text/html", "application/xhtml+xml"} }

// Extensions implements Format.
func (HTML) Extensions() []string { return []string{".html", ".htm", ".xhtml"} }

// skippedElements have no readable content.
var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "head": true, "svg": true, "template": true,
}

// blockElements start a new line.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "hr": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "table": true, "section": true, "article": true,
}

// Text implements Format.
func (HTML) Text(data []byte) (string, error) {
	return htmlText(bytes.NewReader(data))
}

func htmlText(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	var b strings.Builder
	skipDepth := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return tidyLines(b.String()), nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skippedElements[tag] && tt == html.StartTagToken {
				skipDepth++
			}
			if blockElements[tag] {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skippedElements[tag] && skipDepth > 0 {
				skipDepth--
			}
			if blockElements[tag] {
				b.WriteByte('\n')
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// tidyLines collapses runs of spaces and drops blank lines.
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
