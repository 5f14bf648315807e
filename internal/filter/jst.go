package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	apperrors "github.com/Norgate-AV/apc/internal/errors"
)

// JstTemplate turns html templates into JavaScript strings registered on
// window.JST, keyed by file id and by path relative to the search paths
type JstTemplate struct {
	Base
}

// NewJstTemplate creates a JstTemplate filter
func NewJstTemplate() *JstTemplate {
	return &JstTemplate{Base: NewBase("JstTemplate", map[string]any{
		"ext":    ".html",
		"global": "window.JST",
	})}
}

// Clone returns a copy with its own settings
func (f *JstTemplate) Clone() Filter {
	return &JstTemplate{Base: f.Base.clone()}
}

// Input compiles a template file into a JST assignment
func (f *JstTemplate) Input(filename, content string) (string, error) {
	ext := f.String("ext")
	if !strings.HasSuffix(filename, ext) {
		return content, nil
	}

	compact, err := collapseWhitespace(content)
	if err != nil {
		return "", apperrors.Filter(f.Name(), filename, err)
	}

	literal, err := json.Marshal(compact)
	if err != nil {
		return "", apperrors.Filter(f.Name(), filename, err)
	}

	global := f.String("global")
	id := strings.TrimSuffix(filepath.Base(filename), ext)
	key := f.templateKey(strings.TrimSuffix(filename, ext))

	return fmt.Sprintf("%s = %s || {};\n%s[%q] = %s[%q] = %s;",
		global, global, global, id, global, key, literal), nil
}

// templateKey strips the first matching search path from path
func (f *JstTemplate) templateKey(path string) string {
	path = filepath.ToSlash(path)

	for _, dir := range f.Strings("paths") {
		dir = strings.TrimSuffix(filepath.ToSlash(dir), "*")
		dir = strings.TrimRight(dir, "/") + "/"

		if strings.HasPrefix(path, dir) {
			return strings.TrimPrefix(path, dir)
		}
	}

	return path
}

// collapseWhitespace drops whitespace-only text between tags
func collapseWhitespace(content string) (string, error) {
	var sb strings.Builder

	z := html.NewTokenizer(strings.NewReader(content))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}

			break
		}

		raw := z.Raw()
		if tt == html.TextToken && strings.TrimSpace(string(raw)) == "" {
			continue
		}

		sb.Write(raw)
	}

	return strings.TrimSpace(sb.String()), nil
}
