package filter

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	backgroundPattern      = regexp.MustCompile(`(?m)^(?P<prop>.*background\s*:\s*(?:#[a-f0-9A-F]{3,6})?\s*url\(['"]?)(?P<path>[^'")]+?(?:png|gif|jpg))(?P<trail>['"]?\))`)
	backgroundImagePattern = regexp.MustCompile(`(?m)^(?P<prop>.*background-image\s*:\s*url\(['"]?)(?P<path>[^'")]+?(?:png|gif|jpg))(?P<trail>['"]?\))`)
)

// TimestampImage appends ?t=<mtime> to background image urls so browsers
// refetch changed images
type TimestampImage struct {
	Base
}

// NewTimestampImage creates a TimestampImage filter
func NewTimestampImage() *TimestampImage {
	return &TimestampImage{Base: NewBase("TimestampImage", map[string]any{"webroot": ""})}
}

// Clone returns a copy with its own settings
func (f *TimestampImage) Clone() Filter {
	return &TimestampImage{Base: f.Base.clone()}
}

// Input rewrites background urls of images that exist on disk
func (f *TimestampImage) Input(filename, content string) (string, error) {
	content = f.replace(backgroundPattern, filename, content)
	content = f.replace(backgroundImagePattern, filename, content)

	return content, nil
}

func (f *TimestampImage) replace(re *regexp.Regexp, filename, content string) string {
	prop := re.SubexpIndex("prop")
	path := re.SubexpIndex("path")
	trail := re.SubexpIndex("trail")

	return re.ReplaceAllStringFunc(content, func(match string) string {
		m := re.FindStringSubmatch(match)
		return m[prop] + f.timestamp(filename, m[path]) + m[trail]
	})
}

func (f *TimestampImage) timestamp(filename, url string) string {
	if strings.Contains(url, "?") {
		return url
	}

	var image string
	if strings.HasPrefix(url, "/") {
		image = f.String("webroot") + strings.TrimRight(url, "/")
	} else {
		image = filepath.Join(filepath.Dir(filename), filepath.FromSlash(url))
	}

	info, err := os.Stat(image)
	if err != nil {
		return url
	}

	return url + "?t=" + strconv.FormatInt(info.ModTime().Unix(), 10)
}
