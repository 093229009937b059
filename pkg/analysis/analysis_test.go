package analysis

import (
	"testing"

	"github.com/aegiscad/viewer/pkg/geometry"
	"github.com/aegiscad/viewer/pkg/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelInfoCube(t *testing.T) {
	bbox := geometry.NewBoundingBoxFromSize(geometry.NewVector3(2, 2, 2), geometry.Vector3{})
	info := NewModelInfo(bbox, geometry.NewVector3(10, 0, 0), "")

	assert.Equal(t, Dimensions{Width: "2.00", Height: "2.00", Depth: "2.00"}, info.Dimensions)
	assert.Equal(t, "8.00", info.Volume)
	assert.Equal(t, "mm", info.Unit)
	assert.Equal(t, geometry.Vector3{}, info.Center)
	assert.Equal(t, geometry.NewVector3(10, 0, 0), info.SourceCenter)
}

func TestNewModelInfoRounding(t *testing.T) {
	bbox := geometry.NewBoundingBoxFromSize(geometry.NewVector3(1.234, 10, 0.5), geometry.NewVector3(1, 2, 3))
	info := NewModelInfo(bbox, geometry.Vector3{}, "in")

	assert.Equal(t, "1.23", info.Dimensions.Width)
	assert.Equal(t, "10.00", info.Dimensions.Height)
	assert.Equal(t, "0.50", info.Dimensions.Depth)
	assert.Equal(t, "6.17", info.Volume)
	assert.Equal(t, "in", info.Unit)
	assert.True(t, info.Center.ApproxEqual(geometry.NewVector3(1, 2, 3), 1e-12))
}

func TestFallbackInfo(t *testing.T) {
	info := FallbackInfo("mm")
	assert.Equal(t, "8.00", info.Volume)
	assert.Equal(t, "2.00", info.Dimensions.Depth)
	assert.Equal(t, geometry.NewVector3(2, 2, 2), info.Size)
	assert.Equal(t, "2.00 × 2.00 × 2.00 mm, volume 8.00 mm³", info.String())
}

func TestUniqueEdgesBox(t *testing.T) {
	box := stl.NewBox("", geometry.NewVector3(1, 1, 1), geometry.Vector3{})

	// 12 cube edges plus one diagonal per face.
	edges := UniqueEdges(box.Triangles)
	assert.Len(t, edges, 18)
}

func TestAnalyzeModel(t *testing.T) {
	box := stl.NewBox("", geometry.NewVector3(2, 2, 2), geometry.Vector3{})
	stats := AnalyzeModel(box)

	require.Equal(t, 12, stats.TriangleCount)
	assert.Equal(t, 18, stats.EdgeCount)
	assert.InDelta(t, 24, stats.SurfaceArea, 1e-9)
	assert.InDelta(t, 8, stats.Volume, 1e-9)
	assert.InDelta(t, 2, stats.MinEdgeLength, 1e-9)
	assert.InDelta(t, 2*1.4142135623730951, stats.MaxEdgeLength, 1e-9)

	longest := stats.LongestEdges(100)
	assert.Len(t, longest, 18)
	assert.InDelta(t, stats.MaxEdgeLength, longest[0].Length, 1e-12)
}

func TestAnalyzeEmptyModel(t *testing.T) {
	stats := AnalyzeModel(stl.NewModel("empty"))
	assert.Zero(t, stats.EdgeCount)
	assert.Zero(t, stats.MinEdgeLength)
}
