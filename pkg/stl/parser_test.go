package stl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aegiscad/viewer/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciiTetra = `solid tetra
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 0 1 0
      vertex 1 0 0
    endloop
  endfacet
  facet normal 0 -1 0
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 0 1
    endloop
  endfacet
endsolid tetra
`

func encode(t *testing.T, m *Model) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, m))
	return buf.Bytes()
}

func TestParseBinaryBox(t *testing.T) {
	data := encode(t, NewBox("cube", geometry.NewVector3(2, 4, 6), geometry.NewVector3(1, 1, 1)))
	assert.Len(t, data, 84+12*50)

	model, err := ParseBytes(data)
	require.NoError(t, err)

	assert.Equal(t, "cube", model.Name)
	assert.Equal(t, 12, model.TriangleCount())

	bbox := model.BoundingBox()
	assert.InDelta(t, 0, bbox.Min.X, 1e-6)
	assert.InDelta(t, -1, bbox.Min.Y, 1e-6)
	assert.InDelta(t, 4, bbox.Max.Z, 1e-6)
	assert.InDelta(t, 48, model.Volume(), 1e-4)
	assert.InDelta(t, 2*(8+12+24), model.SurfaceArea(), 1e-4)
}

func TestParseASCII(t *testing.T) {
	model, err := ParseBytes([]byte(asciiTetra))
	require.NoError(t, err)

	assert.Equal(t, "tetra", model.Name)
	require.Equal(t, 2, model.TriangleCount())
	assert.Equal(t, geometry.NewVector3(0, 0, -1), model.Triangles[0].Normal)
	assert.Equal(t, geometry.NewVector3(0, 0, 1), model.Triangles[1].V3)
}

func TestParseBinaryWithSolidHeader(t *testing.T) {
	data := encode(t, NewBox("solid exported-by-cad", geometry.NewVector3(1, 1, 1), geometry.Vector3{}))

	model, err := ParseBytes(data)
	require.NoError(t, err)
	assert.Equal(t, 12, model.TriangleCount())
}

func TestParsePaddedBinaryWithSolidHeader(t *testing.T) {
	data := encode(t, NewBox("solid padded", geometry.NewVector3(1, 1, 1), geometry.Vector3{}))
	data = append(data, make([]byte, 16)...)

	model, err := ParseBytes(data)
	require.NoError(t, err)
	assert.Equal(t, 12, model.TriangleCount())
	assert.Equal(t, "solid padded", model.Name)
}

func TestParseErrors(t *testing.T) {
	box := encode(t, NewBox("", geometry.NewVector3(1, 1, 1), geometry.Vector3{}))

	empty := make([]byte, 84)
	garbageFloat := []byte("solid x\nfacet normal 0 0 1\nouter loop\nvertex a b c\n")
	twoVertices := []byte("solid x\nfacet normal 0 0 1\nvertex 0 0 0\nvertex 1 0 0\nendfacet\nendsolid\n")

	huge := make([]byte, 84)
	binary.LittleEndian.PutUint32(huge[80:], 1000)

	tests := []struct {
		name string
		data []byte
	}{
		{"nil buffer", nil},
		{"short buffer", []byte("not an stl")},
		{"zero triangles", empty},
		{"truncated", box[:len(box)-10]},
		{"declared count exceeds data", huge},
		{"bad ascii float", garbageFloat},
		{"facet with two vertices", twoVertices},
		{"ascii without facets", []byte("solid empty\nendsolid empty\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes(tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse), "expected ErrParse, got %v", err)

			var perr *ParseError
			assert.True(t, errors.As(err, &perr))
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.stl")
	require.NoError(t, os.WriteFile(path, []byte(asciiTetra), 0o644))

	model, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 2, model.TriangleCount())

	_, err = Parse(filepath.Join(t.TempDir(), "missing.stl"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrParse))
}

func TestModelTranslate(t *testing.T) {
	model := NewBox("", geometry.NewVector3(2, 2, 2), geometry.NewVector3(5, 5, 5))
	model.Translate(geometry.NewVector3(-5, -5, -5))

	center := model.BoundingBox().Center()
	assert.True(t, center.ApproxEqual(geometry.Vector3{}, 1e-12), "center %v", center)
}
