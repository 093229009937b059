package source

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegiscad/viewer/internal/config"
)

func TestViewPath(t *testing.T) {
	assert.Equal(t, "/models/part.stl", ViewPath("/models/part.step"))
	assert.Equal(t, "part.stl", ViewPath("part.STP"))
	assert.Equal(t, "part.stl", ViewPath("part.stl"))
	assert.Equal(t, "step.obj", ViewPath("step.obj"))
}

func TestExportPath(t *testing.T) {
	assert.Equal(t, "/m/part.step", ExportPath("/m/part.stl", "step"))
	assert.Equal(t, "/m/part.stl", ExportPath("/m/part.stl", "stl"))
	assert.Equal(t, "/m/part.obj", ExportPath("/m/part.obj", "step"))
	assert.Equal(t, "/m/part.step", ExportPath("/m/part.step", "step"))
	assert.Equal(t, "/m/part.stl", ExportPath("/m/part.step", "stl"))
	assert.Equal(t, "/m/part.stl", ExportPath("/m/part.STP", "stl"))
	assert.Equal(t, "model.step", ExportFilename("STEP"))
}

func TestHTTPResolve(t *testing.T) {
	h := NewHTTP(config.SourceConfig{BaseURL: "http://localhost:8000/", TimeoutMS: 1000})
	assert.Equal(t, "http://localhost:8000/models/a.stl", h.Resolve("/models/a.stl"))
	assert.Equal(t, "http://localhost:8000/models/a.stl", h.Resolve("models/a.stl"))
	assert.Equal(t, "https://cdn.example.com/a.stl", h.Resolve("https://cdn.example.com/a.stl"))
}

func TestHTTPFetch(t *testing.T) {
	var requested string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		if r.URL.Path == "/missing.stl" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("mesh"))
	}))
	t.Cleanup(srv.Close)

	h := NewHTTP(config.SourceConfig{BaseURL: srv.URL, TimeoutMS: 5000})

	data, err := h.Fetch(context.Background(), "/models/part.step")
	require.NoError(t, err)
	assert.Equal(t, []byte("mesh"), data)
	assert.Equal(t, "/models/part.stl", requested)

	_, err = h.Fetch(context.Background(), "missing.stl")
	require.ErrorIs(t, err, ErrFetch)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.Status)
}

func TestHTTPFetchSizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("x"), 64))
	}))
	t.Cleanup(srv.Close)

	h := NewHTTP(config.SourceConfig{BaseURL: srv.URL, TimeoutMS: 5000, MaxBytes: 32})
	_, err := h.Fetch(context.Background(), "big.stl")
	require.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, ErrTooLarge)

	h.MaxBytes = 64
	data, err := h.Fetch(context.Background(), "big.stl")
	require.NoError(t, err)
	assert.Len(t, data, 64)
}

func TestHTTPFetchCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := NewHTTP(config.SourceConfig{BaseURL: srv.URL, TimeoutMS: 5000})
	_, err := h.Fetch(ctx, "a.stl")
	require.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileFetch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "part.stl"), []byte("mesh"), 0o644))

	f := NewFile(dir)
	data, err := f.Fetch(context.Background(), "part.step")
	require.NoError(t, err)
	assert.Equal(t, []byte("mesh"), data)

	data, err = f.Fetch(context.Background(), filepath.Join(dir, "part.stl"))
	require.NoError(t, err)
	assert.Equal(t, []byte("mesh"), data)

	_, err = f.Fetch(context.Background(), "absent.stl")
	assert.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaver(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "part.step"), []byte("step"), 0o644))

	out := t.TempDir()
	s := &Saver{From: NewFile(src), Dir: out}
	path, err := s.Save(context.Background(), "part.step", "model.step")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "model.step"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("step"), data)
}

func TestFunc(t *testing.T) {
	var s Source = Func(func(_ context.Context, id string) ([]byte, error) {
		return []byte(id), nil
	})
	data, err := s.Fetch(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}
