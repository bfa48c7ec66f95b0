package models

import (
	"html/template"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Security and sanitization methods

// NormalizeFormText converts submitted form text to valid UTF-8 and strips
// carriage returns. Browsers normally post UTF-8 but pasted legacy content
// still shows up as Latin-1 now and then.
func NormalizeFormText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)

	if utf8.ValidString(text) {
		return text
	}

	// Try Latin-1 (ISO-8859-1) to UTF-8 conversion
	charsetDecoder := charmap.ISO8859_1.NewDecoder()
	result, _, err := transform.String(charsetDecoder, text)
	if err != nil {
		// Fallback: replace invalid UTF-8 sequences with replacement character
		return strings.ToValidUTF8(text, "�")
	}
	return result
}

var (
	contentPolicy     *bluemonday.Policy
	contentPolicyOnce sync.Once
)

// articleContentPolicy returns the allow-list policy applied to stored
// article content before rendering. Basic formatting tags pass, everything
// else (script, iframe, style, on* attributes) is removed.
func articleContentPolicy() *bluemonday.Policy {
	contentPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements(
			"p", "br", "ul", "ol", "li",
			"blockquote", "pre", "code",
			"strong", "em", "b", "i",
		)
		p.AllowAttrs("href").OnElements("a")
		p.AllowStandardURLs()
		p.RequireNoFollowOnLinks(true)
		contentPolicy = p
	})
	return contentPolicy
}

// RenderContent sanitizes the stored article content and converts bare
// newlines to <br> so textarea input keeps its line structure.
func (a *Article) RenderContent() template.HTML {
	safe := articleContentPolicy().Sanitize(a.Content)
	safe = strings.ReplaceAll(safe, "\n", "<br>\n")
	return template.HTML(safe)
}
