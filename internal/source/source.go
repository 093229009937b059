// Package source fetches model bytes for an identifier.
package source

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrFetch matches every FetchError with errors.Is.
var ErrFetch = errors.New("source: fetch failed")

// FetchError reports a failed retrieval. Status is the HTTP status code,
// or zero when the request never completed.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// Source resolves an identifier to raw mesh bytes.
type Source interface {
	Fetch(ctx context.Context, identifier string) ([]byte, error)
}

// Func adapts a function to Source.
type Func func(ctx context.Context, identifier string) ([]byte, error)

func (f Func) Fetch(ctx context.Context, identifier string) ([]byte, error) {
	return f(ctx, identifier)
}

var (
	stepSuffix = regexp.MustCompile(`(?i)\.(step|stp)$`)
	stlSuffix  = regexp.MustCompile(`(?i)\.stl$`)
)

// ViewPath maps an identifier to the file that is actually displayed.
// STEP files are converted upstream and served next to the original as STL.
func ViewPath(identifier string) string {
	return stepSuffix.ReplaceAllString(identifier, ".stl")
}

// ExportPath maps an identifier to the download for format. Only the
// extension is substituted: "step" swaps a trailing .stl for .step and
// "stl" swaps .step or .stp for .stl.
func ExportPath(identifier, format string) string {
	if strings.EqualFold(format, "step") {
		return stlSuffix.ReplaceAllString(identifier, ".step")
	}
	return ViewPath(identifier)
}

// ExportFilename is the suggested name for an exported model.
func ExportFilename(format string) string {
	return "model." + strings.ToLower(format)
}
