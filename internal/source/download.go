package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aegiscad/viewer/internal/logx"
)

// Resolver maps identifiers to fetchable locations.
type Resolver interface {
	Resolve(identifier string) string
}

// Downloader retrieves a resolved location verbatim.
type Downloader interface {
	Download(ctx context.Context, location string) ([]byte, error)
}

// Saver stores downloads in a directory.
type Saver struct {
	From Downloader
	Dir  string
}

// Save downloads location into Dir/filename and returns the written path.
func (s *Saver) Save(ctx context.Context, location, filename string) (string, error) {
	data, err := s.From.Download(ctx, location)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.Dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("source: save %s: %w", path, err)
	}
	logx.Logger().Info("source: saved", "from", location, "to", path, "bytes", len(data))
	return path, nil
}

// Backend is a source that can also resolve and download export locations.
type Backend interface {
	Source
	Resolver
	Downloader
}

var (
	_ Backend = (*HTTP)(nil)
	_ Backend = (*File)(nil)
)
