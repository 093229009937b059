package stl

import "github.com/aegiscad/viewer/pkg/geometry"

// NewBox builds a closed, outward-wound box of the given extents centered on center.
func NewBox(name string, size, center geometry.Vector3) *Model {
	h := size.Mul(0.5)
	corner := func(sx, sy, sz float64) geometry.Vector3 {
		return center.Add(geometry.NewVector3(sx*h.X, sy*h.Y, sz*h.Z))
	}

	// Each face lists its corners counter-clockwise seen from outside.
	faces := []struct {
		normal geometry.Vector3
		quad   [4]geometry.Vector3
	}{
		{geometry.NewVector3(1, 0, 0), [4]geometry.Vector3{corner(1, -1, -1), corner(1, 1, -1), corner(1, 1, 1), corner(1, -1, 1)}},
		{geometry.NewVector3(-1, 0, 0), [4]geometry.Vector3{corner(-1, -1, -1), corner(-1, -1, 1), corner(-1, 1, 1), corner(-1, 1, -1)}},
		{geometry.NewVector3(0, 1, 0), [4]geometry.Vector3{corner(-1, 1, -1), corner(-1, 1, 1), corner(1, 1, 1), corner(1, 1, -1)}},
		{geometry.NewVector3(0, -1, 0), [4]geometry.Vector3{corner(-1, -1, -1), corner(1, -1, -1), corner(1, -1, 1), corner(-1, -1, 1)}},
		{geometry.NewVector3(0, 0, 1), [4]geometry.Vector3{corner(-1, -1, 1), corner(1, -1, 1), corner(1, 1, 1), corner(-1, 1, 1)}},
		{geometry.NewVector3(0, 0, -1), [4]geometry.Vector3{corner(-1, -1, -1), corner(-1, 1, -1), corner(1, 1, -1), corner(1, -1, -1)}},
	}

	model := NewModel(name)
	for _, f := range faces {
		model.AddTriangle(geometry.NewTriangle(f.normal, f.quad[0], f.quad[1], f.quad[2]))
		model.AddTriangle(geometry.NewTriangle(f.normal, f.quad[0], f.quad[2], f.quad[3]))
	}
	return model
}
