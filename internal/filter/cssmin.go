package filter

import (
	"regexp"
	"strings"
)

var (
	cssComment     = regexp.MustCompile(`/\*[^*]*\*+([^/][^*]*\*+)*/`)
	cssSpaces      = regexp.MustCompile(`\s{2,}`)
	cssColon       = regexp.MustCompile(`\s*:\s*`)
	cssPunctuation = regexp.MustCompile(`\s*([{},;>])\s*`)
	cssParens      = regexp.MustCompile(`(\()\s*|\s*(\))`)
)

// pseudoSelectors keep the whitespace around their colon
var pseudoSelectors = []string{"checked", "disabled", "hover", "active", "focus", "before", "after"}

// SimpleCssMin is a small regex based CSS minifier
type SimpleCssMin struct {
	Base
}

// NewSimpleCssMin creates a SimpleCssMin filter
func NewSimpleCssMin() *SimpleCssMin {
	return &SimpleCssMin{Base: NewBase("SimpleCssMin", nil)}
}

// Clone returns a copy with its own settings
func (f *SimpleCssMin) Clone() Filter {
	return &SimpleCssMin{Base: f.Base.clone()}
}

// Output minifies the concatenated stylesheet
func (f *SimpleCssMin) Output(_, content string) (string, error) {
	return MinifyCSS(content), nil
}

// MinifyCSS strips comments and redundant whitespace and shortens
// #aabbcc colors to #abc
func MinifyCSS(content string) string {
	content = cssComment.ReplaceAllString(content, "")

	// newlines become spaces so multi-line media queries stay valid
	content = strings.ReplaceAll(content, "\n", " ")
	content = cssSpaces.ReplaceAllString(content, " ")
	content = collapseColons(content)
	content = cssPunctuation.ReplaceAllString(content, "$1")
	content = cssParens.ReplaceAllString(content, "$1$2")
	content = strings.ReplaceAll(content, ";}", "}")
	content = shortenHex(content)

	return strings.TrimSpace(content)
}

// collapseColons removes whitespace around colons, except before pseudo selectors
func collapseColons(content string) string {
	var sb strings.Builder
	last := 0

	for _, m := range cssColon.FindAllStringIndex(content, -1) {
		colon := m[0] + strings.IndexByte(content[m[0]:m[1]], ':')
		if isPseudo(content[colon+1:]) {
			continue
		}

		sb.WriteString(content[last:m[0]])
		sb.WriteString(":")
		last = m[1]
	}

	sb.WriteString(content[last:])

	return sb.String()
}

func isPseudo(rest string) bool {
	for _, p := range pseudoSelectors {
		if strings.HasPrefix(rest, p) {
			return true
		}
	}

	return false
}

// shortenHex rewrites #xxyyzz as #xyz
func shortenHex(content string) string {
	var sb strings.Builder
	sb.Grow(len(content))

	for i := 0; i < len(content); i++ {
		c := content[i]
		if c == '#' && i+6 < len(content) &&
			content[i+1] == content[i+2] &&
			content[i+3] == content[i+4] &&
			content[i+5] == content[i+6] {
			sb.WriteByte('#')
			sb.WriteByte(content[i+1])
			sb.WriteByte(content[i+3])
			sb.WriteByte(content[i+5])
			i += 6

			continue
		}

		sb.WriteByte(c)
	}

	return sb.String()
}
