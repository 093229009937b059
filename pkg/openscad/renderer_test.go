package openscad

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDependencies(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "main.scad"), "use <lib/bolt.scad>\ninclude <./common.scad>\n// use <ignored.scad>\ncube(1);\n")
	write(t, filepath.Join(dir, "lib", "bolt.scad"), "include <../common.scad>\n")
	write(t, filepath.Join(dir, "common.scad"), "use <main.scad>\n")

	r := NewRenderer(dir)
	deps, err := r.Dependencies("main.scad")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "main.scad"),
		filepath.Join(dir, "lib", "bolt.scad"),
		filepath.Join(dir, "common.scad"),
	}, deps)
}

func TestDependenciesMissingFile(t *testing.T) {
	r := NewRenderer(t.TempDir())
	_, err := r.Dependencies("absent.scad")
	assert.Error(t, err)
}

func TestIsSource(t *testing.T) {
	assert.True(t, IsSource("part.scad"))
	assert.True(t, IsSource("PART.SCAD"))
	assert.False(t, IsSource("part.stl"))
}

func TestRenderWithoutBinary(t *testing.T) {
	r := NewRenderer(t.TempDir())
	r.binary = "aegis-openscad-does-not-exist"
	_, err := r.Render(context.Background(), "part.scad")
	assert.ErrorIs(t, err, ErrNotInstalled)
}
