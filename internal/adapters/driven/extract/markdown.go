package extract

import (
	"regexp"
	"strings"
)

// Markdown strips Markdown syntax, keeping prose and code.
type Markdown struct{}

// Name implements Format.
func (Markdown) Name() string { return "markdown" }

// MIMETypes implements Format.
func (Markdown) MIMETypes() []string { return []string{"text/markdown", "text/x-markdown"} }

// Extensions implements Format.
func (Markdown) Extensions() []string { return []string{".md", ".markdown"} }

var (
	mdFence        = regexp.MustCompile("(?m)^\\s*```.*$")
	mdInlineCode   = regexp.MustCompile("`([^`]+)`")
	mdImage        = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	mdLink         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	mdHeading      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdEmphasis     = regexp.MustCompile(`\*\*([^*\n]+)\*\*|\b__([^_\n]+)__\b|\*([^*\n]+)\*|\b_([^_\n]+)_\b`)
	mdBlockquote   = regexp.MustCompile(`(?m)^>\s?`)
	mdRule         = regexp.MustCompile(`(?m)^\s*([-*_]\s*){3,}$`)
	mdBullet       = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	mdNumbered     = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	mdMultiNewline = regexp.MustCompile(`\n{3,}`)
)

// Text implements Format. Code blocks keep their content; image alt text is kept.
func (Markdown) Text(data []byte) (string, error) {
	content := decodeUTF8(data)

	content = mdFence.ReplaceAllString(content, "")
	content = mdInlineCode.ReplaceAllString(content, "$1")
	content = mdImage.ReplaceAllString(content, "$1")
	content = mdLink.ReplaceAllString(content, "$1")
	content = mdHeading.ReplaceAllString(content, "")
	content = mdRule.ReplaceAllString(content, "")
	content = mdBlockquote.ReplaceAllString(content, "")
	content = mdBullet.ReplaceAllString(content, "")
	content = mdNumbered.ReplaceAllString(content, "")
	content = mdEmphasis.ReplaceAllString(content, "${1}${2}${3}${4}")
	content = mdMultiNewline.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content), nil
}
