package source

import (
	"context"
	"os"
	"path/filepath"

	"github.com/aegiscad/viewer/pkg/openscad"
)

// File reads models from the local filesystem. Relative identifiers are
// resolved against Root. OpenSCAD sources are rendered on the fly.
type File struct {
	Root string
	SCAD *openscad.Renderer
}

// NewFile creates a file source rooted at root.
func NewFile(root string) *File {
	return &File{Root: root, SCAD: openscad.NewRenderer(root)}
}

// Resolve returns the path identifier names.
func (f *File) Resolve(identifier string) string {
	if filepath.IsAbs(identifier) {
		return identifier
	}
	return filepath.Join(f.Root, identifier)
}

// Path returns the file displayed for identifier.
func (f *File) Path(identifier string) string {
	return f.Resolve(ViewPath(identifier))
}

func (f *File) Fetch(ctx context.Context, identifier string) ([]byte, error) {
	path := f.Path(identifier)
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{URL: path, Err: err}
	}

	if openscad.IsSource(path) && f.SCAD != nil {
		data, err := f.SCAD.Render(ctx, path)
		if err != nil {
			return nil, &FetchError{URL: path, Err: err}
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FetchError{URL: path, Err: err}
	}
	return data, nil
}

// Download copies the file at path.
func (f *File) Download(ctx context.Context, path string) ([]byte, error) {
	path = f.Resolve(path)
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{URL: path, Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FetchError{URL: path, Err: err}
	}
	return data, nil
}
