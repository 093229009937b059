package analysis

import (
	"math"

	"github.com/aegiscad/viewer/pkg/geometry"
)

// Edge is a segment shared by one or more triangles.
type Edge struct {
	Start  geometry.Vector3
	End    geometry.Vector3
	Length float64
}

type vertexKey [3]int64

type edgeKey struct {
	a, b vertexKey
}

// edgeQuantum is the grid used to merge nearly coincident vertices.
const edgeQuantum = 1e-6

func keyOf(v geometry.Vector3) vertexKey {
	return vertexKey{
		int64(math.Round(v.X / edgeQuantum)),
		int64(math.Round(v.Y / edgeQuantum)),
		int64(math.Round(v.Z / edgeQuantum)),
	}
}

func less(a, b vertexKey) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// UniqueEdges returns every triangle edge once, regardless of direction,
// in first-seen order.
func UniqueEdges(triangles []geometry.Triangle) []Edge {
	seen := make(map[edgeKey]struct{}, len(triangles)*3/2)
	edges := make([]Edge, 0, len(triangles)*3/2)

	for _, tri := range triangles {
		pairs := [3][2]geometry.Vector3{{tri.V1, tri.V2}, {tri.V2, tri.V3}, {tri.V3, tri.V1}}
		for _, p := range pairs {
			ka, kb := keyOf(p[0]), keyOf(p[1])
			if ka == kb {
				continue
			}
			if less(kb, ka) {
				ka, kb = kb, ka
			}
			k := edgeKey{ka, kb}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			edges = append(edges, Edge{Start: p[0], End: p[1], Length: p[0].Distance(p[1])})
		}
	}
	return edges
}
