package asset

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// Kind tags the closed set of source variants
type Kind int

const (
	KindLocal Kind = iota
	KindRemote
	KindTarget
)

// String returns the string representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindRemote:
		return "remote"
	case KindTarget:
		return "target"
	default:
		return "unknown"
	}
}

// Source is one content-contributing input of a target.
// Only this package implements it: Local, Remote and Nested.
type Source interface {
	Kind() Kind
	Name() string
	Path() string
	Contents() (string, error)
	ModifiedTime() (time.Time, error)

	isSource()
}

// Generator compiles a target into its output text
type Generator interface {
	Generate(t *Target) (string, error)
}

// ErrUnreachable is returned when a remote source cannot be fetched
var ErrUnreachable = errors.New("remote source unreachable")

var urlPattern = regexp.MustCompile(`^https?://`)

// IsURL reports whether a declared file entry refers to a remote resource
func IsURL(name string) bool {
	return urlPattern.MatchString(name)
}

// Local is a source backed by a file on disk
type Local struct {
	path string
}

// NewLocal creates a local source. The file must exist.
func NewLocal(path string) (*Local, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%s does not exist: %w", path, err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return &Local{path: path}, nil
}

func (l *Local) isSource() {}

// Kind returns KindLocal
func (l *Local) Kind() Kind { return KindLocal }

// Name returns the base name of the file
func (l *Local) Name() string { return filepath.Base(l.path) }

// Path returns the physical path
func (l *Local) Path() string { return l.path }

// Contents reads the file
func (l *Local) Contents() (string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", l.path, err)
	}

	return string(data), nil
}

// ModifiedTime returns the file's modification time
func (l *Local) ModifiedTime() (time.Time, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		return time.Time{}, err
	}

	return info.ModTime(), nil
}

// Remote is a source fetched over HTTP(S)
type Remote struct {
	url    string
	client *http.Client
}

// NewRemote creates a remote source. A nil client uses http.DefaultClient.
func NewRemote(url string, client *http.Client) *Remote {
	if client == nil {
		client = http.DefaultClient
	}

	return &Remote{url: url, client: client}
}

func (r *Remote) isSource() {}

// Kind returns KindRemote
func (r *Remote) Kind() Kind { return KindRemote }

// Name returns the URL
func (r *Remote) Name() string { return r.url }

// Path returns the URL
func (r *Remote) Path() string { return r.url }

// Contents fetches the resource body
func (r *Remote) Contents() (string, error) {
	resp, err := r.client.Get(r.url)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnreachable, r.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%w: %s: status %d", ErrUnreachable, r.url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", r.url, err)
	}

	return string(data), nil
}

// ModifiedTime returns the Last-Modified header of the final response after
// redirects. A response without the header is treated as modified now.
func (r *Remote) ModifiedTime() (time.Time, error) {
	resp, err := r.client.Get(r.url)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrUnreachable, r.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return time.Time{}, fmt.Errorf("%w: %s: status %d", ErrUnreachable, r.url, resp.StatusCode)
	}

	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			return t, nil
		}
	}

	return time.Now(), nil
}

// Nested exposes another target's compiled output as a source
type Nested struct {
	target    *Target
	generator Generator
}

// NewNested wraps target; its contents come from generator
func NewNested(target *Target, generator Generator) *Nested {
	return &Nested{target: target, generator: generator}
}

func (n *Nested) isSource() {}

// Kind returns KindTarget
func (n *Nested) Kind() Kind { return KindTarget }

// Name returns the nested target's output name
func (n *Nested) Name() string { return n.target.Name() }

// Path returns the nested target's output path
func (n *Nested) Path() string { return n.target.Path() }

// Target returns the wrapped target
func (n *Nested) Target() *Target { return n.target }

// Contents compiles the nested target
func (n *Nested) Contents() (string, error) {
	return n.generator.Generate(n.target)
}

// ModifiedTime is the newest modification time of the nested target's sources
func (n *Nested) ModifiedTime() (time.Time, error) {
	return n.target.SourcesModifiedTime()
}
