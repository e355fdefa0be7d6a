package extract

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
)

// EML extracts headers and body text from RFC 822 email messages.
type EML struct{}

// Name implements Format.
func (EML) Name() string { return "eml" }

// MIMETypes implements Format.
func (EML) MIMETypes() []string { return []string{"message/rfc822"} }

// Extensions implements Format.
func (EML) Extensions() []string { return []string{".eml"} }

// Text implements Format. From, To, Date and Subject precede the body.
// Plain text parts are preferred over HTML parts.
func (EML) Text(data []byte) (string, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		return "", invalid("eml", err)
	}

	var b strings.Builder
	for _, h := range []string{"From", "To", "Date", "Subject"} {
		if v := decodeHeader(msg.Header.Get(h)); v != "" {
			b.WriteString(h)
			b.WriteString(": ")
			b.WriteString(v)
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')
	b.WriteString(messageBody(msg.Header.Get("Content-Type"), msg.Body))

	return strings.TrimSpace(b.String()), nil
}

func decodeHeader(v string) string {
	if v == "" {
		return ""
	}
	decoded, err := new(mime.WordDecoder).DecodeHeader(v)
	if err != nil {
		return v
	}
	return decoded
}

func messageBody(contentType string, body io.Reader) string {
	if contentType == "" {
		contentType = "text/plain"
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		data, _ := io.ReadAll(body)
		return decodeUTF8(data)
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return multipartBody(body, params["boundary"])
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return ""
	}
	if mediaType == "text/html" {
		text, err := htmlText(bytes.NewReader(data))
		if err == nil {
			return text
		}
	}
	return decodeUTF8(data)
}

func multipartBody(r io.Reader, boundary string) string {
	if boundary == "" {
		return ""
	}

	var plain, rich []string
	mr := multipart.NewReader(r, boundary)
	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}
		mediaType, params, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if err != nil {
			mediaType = "text/plain"
		}
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			continue
		}

		switch {
		case mediaType == "text/plain":
			plain = append(plain, decodeUTF8(data))
		case mediaType == "text/html":
			if text, err := htmlText(bytes.NewReader(data)); err == nil {
				rich = append(rich, text)
			}
		case strings.HasPrefix(mediaType, "multipart/"):
			if nested := multipartBody(bytes.NewReader(data), params["boundary"]); nested != "" {
				plain = append(plain, nested)
			}
		}
	}

	if len(plain) > 0 {
		return strings.Join(plain, "\n")
	}
	return strings.Join(rich, "\n")
}
