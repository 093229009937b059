package analysis

import (
	"math"
	"sort"

	"github.com/aegiscad/viewer/pkg/geometry"
	"github.com/aegiscad/viewer/pkg/stl"
)

// MeshStats contains measurements of the mesh itself rather than its box.
type MeshStats struct {
	BoundingBox   geometry.BoundingBox
	TriangleCount int
	EdgeCount     int
	SurfaceArea   float64
	Volume        float64
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	Edges         []Edge
}

// AnalyzeModel collects mesh statistics for an STL model
func AnalyzeModel(model *stl.Model) *MeshStats {
	stats := &MeshStats{
		BoundingBox:   model.BoundingBox(),
		TriangleCount: model.TriangleCount(),
		SurfaceArea:   model.SurfaceArea(),
		Volume:        model.Volume(),
		Edges:         UniqueEdges(model.Triangles),
	}
	stats.EdgeCount = len(stats.Edges)
	if stats.EdgeCount == 0 {
		return stats
	}

	stats.MinEdgeLength = math.MaxFloat64
	total := 0.0
	for _, e := range stats.Edges {
		total += e.Length
		stats.MinEdgeLength = math.Min(stats.MinEdgeLength, e.Length)
		stats.MaxEdgeLength = math.Max(stats.MaxEdgeLength, e.Length)
	}
	stats.AvgEdgeLength = total / float64(stats.EdgeCount)

	return stats
}

// LongestEdges returns the n longest edges, longest first.
func (s *MeshStats) LongestEdges(n int) []Edge {
	edges := make([]Edge, len(s.Edges))
	copy(edges, s.Edges)

	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Length > edges[j].Length
	})

	if n > len(edges) {
		n = len(edges)
	}
	return edges[:n]
}
