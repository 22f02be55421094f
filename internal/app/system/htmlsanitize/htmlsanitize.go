// Package htmlsanitize cleans the rich text stored in blog text sections and
// the homepage about body so it can be rendered unescaped on the public site.
//
// Content is sanitized twice: once when it is written, so the database never
// holds markup the site would refuse, and again when it is rendered, so
// documents written before a policy change are still safe.
package htmlsanitize

import (
	"html/template"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()

		policy.AllowElements("table", "thead", "tbody", "tr", "th", "td")
		policy.AllowElements("u", "s", "sub", "sup", "mark")

		// Mixed Arabic/English paragraphs need explicit direction.
		policy.AllowAttrs("dir").Matching(regexp.MustCompile(`^(rtl|ltr|auto)$`)).Globally()
		policy.AllowAttrs("lang").Matching(regexp.MustCompile(`^(en|ar)(-[a-zA-Z]{2,4})?$`)).Globally()
		policy.AllowElements("bdi", "bdo")

		// Editor images come from the media store or a plain https host.
		policy.AllowImages()
		policy.AllowURLSchemes("https", "http", "mailto")
	})
	return policy
}

// Sanitize strips scripts, event handlers and anything else outside the
// rich-text policy. Surrounding whitespace is trimmed.
func Sanitize(html string) string {
	html = strings.TrimSpace(html)
	if html == "" {
		return ""
	}
	return strings.TrimSpace(getPolicy().Sanitize(html))
}

// Render returns content ready to place in a template. Plain text (such as a
// message typed without the editor) becomes paragraphs; markup is sanitized.
func Render(content string) template.HTML {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	if isPlainText(content) {
		return template.HTML(paragraphs(content))
	}
	return template.HTML(Sanitize(content))
}

// isPlainText reports whether content has no tag-like sequence.
func isPlainText(content string) bool {
	lt := strings.Index(content, "<")
	return lt < 0 || !strings.Contains(content[lt:], ">")
}

// paragraphs escapes text and splits it into <p> blocks on blank lines.
// Single newlines inside a block become <br>. dir="auto" lets each paragraph
// follow its own script.
func paragraphs(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var b strings.Builder
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		b.WriteString(`<p dir="auto">`)
		b.WriteString(strings.ReplaceAll(template.HTMLEscapeString(block), "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}
