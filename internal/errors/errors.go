// Package errors defines the error taxonomy of the asset pipeline.
//
// Every failure surfaced by the core carries a Kind so callers can decide
// how to react: configuration errors abort the requested operation,
// resolution and filter errors are fatal for one target only, and cache
// errors report the offending path.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorises an AssetError.
type Kind string

const (
	KindConfig     Kind = "config"
	KindResolution Kind = "resolution"
	KindFilter     Kind = "filter"
	KindCache      Kind = "cache"
)

var (
	// ErrMissingTarget is returned when a target name is not declared
	ErrMissingTarget = errors.New("missing target")

	// ErrMissingFilter is returned when a filter name is not registered
	ErrMissingFilter = errors.New("missing filter")

	// ErrCircular is returned for extend or require cycles
	ErrCircular = errors.New("circular reference")

	// ErrNotFound is returned when a declared file cannot be located
	ErrNotFound = errors.New("file not found")
)

// AssetError is a structured error carrying the target and path involved.
type AssetError struct {
	Kind    Kind
	Target  string
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AssetError) Error() string {
	parts := []string{fmt.Sprintf("[%s]", e.Kind)}

	if e.Target != "" {
		parts = append(parts, "target:"+e.Target)
	}

	if e.Path != "" {
		parts = append(parts, e.Path)
	}

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	result := strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *AssetError) Unwrap() error {
	return e.Cause
}

// Is matches another AssetError of the same kind.
func (e *AssetError) Is(target error) bool {
	var t *AssetError
	if errors.As(target, &t) {
		return e.Kind == t.Kind && (t.Target == "" || e.Target == t.Target)
	}

	return false
}

// Config creates a configuration error
func Config(target, message string, cause error) *AssetError {
	return &AssetError{Kind: KindConfig, Target: target, Message: message, Cause: cause}
}

// Resolution creates a resolution error for a target
func Resolution(target, path, message string, cause error) *AssetError {
	return &AssetError{Kind: KindResolution, Target: target, Path: path, Message: message, Cause: cause}
}

// Filter creates a filter execution error
func Filter(filter, path string, cause error) *AssetError {
	return &AssetError{Kind: KindFilter, Path: path, Message: "filter " + filter + " failed", Cause: cause}
}

// Cache creates a cache I/O error for the given path
func Cache(path, message string, cause error) *AssetError {
	return &AssetError{Kind: KindCache, Path: path, Message: message, Cause: cause}
}

// IsKind reports whether err is an AssetError of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *AssetError
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}

	return false
}
