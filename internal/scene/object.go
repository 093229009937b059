// Package scene is the retained scene graph drawn by the renderer.
package scene

import (
	"image/color"
	"math"
	"slices"

	"github.com/aegiscad/viewer/pkg/geometry"
)

// Kind tells the renderer how to draw an object.
type Kind int

const (
	KindGroup Kind = iota
	KindMesh
	KindLines
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindLines:
		return "lines"
	default:
		return "group"
	}
}

// Segment is one line of a line-set. Color is used when the material has
// VertexColors set.
type Segment struct {
	Start, End geometry.Vector3
	Color      color.RGBA
}

// Geometry holds the vertex data of an object in its local space.
type Geometry struct {
	Triangles []geometry.Triangle
	Segments  []Segment

	bounds   geometry.BoundingBox
	disposed bool
}

// NewMeshGeometry wraps triangles and computes their bounds once.
func NewMeshGeometry(triangles []geometry.Triangle) *Geometry {
	g := &Geometry{Triangles: triangles, bounds: geometry.NewBoundingBox()}
	for _, t := range triangles {
		g.bounds.Extend(t.V1)
		g.bounds.Extend(t.V2)
		g.bounds.Extend(t.V3)
	}
	return g
}

// NewLineGeometry wraps segments and computes their bounds once.
func NewLineGeometry(segments []Segment) *Geometry {
	g := &Geometry{Segments: segments, bounds: geometry.NewBoundingBox()}
	for _, s := range segments {
		g.bounds.Extend(s.Start)
		g.bounds.Extend(s.End)
	}
	return g
}

// Bounds returns the local-space bounding box.
func (g *Geometry) Bounds() geometry.BoundingBox { return g.bounds }

// Empty reports whether there is nothing to draw.
func (g *Geometry) Empty() bool {
	return g == nil || (len(g.Triangles) == 0 && len(g.Segments) == 0)
}

// Dispose releases the vertex data. Further use draws nothing.
func (g *Geometry) Dispose() {
	g.Triangles = nil
	g.Segments = nil
	g.disposed = true
}

func (g *Geometry) Disposed() bool { return g.disposed }

// Material describes surface appearance.
type Material struct {
	Color        color.RGBA
	Opacity      float64
	Transparent  bool
	Wireframe    bool
	Lit          bool
	VertexColors bool

	disposed bool
}

// Dispose marks the material released.
func (m *Material) Dispose() { m.disposed = true }

func (m *Material) Disposed() bool { return m.disposed }

// Object is a node in the scene graph.
type Object struct {
	Name     string
	Kind     Kind
	Visible  bool
	Position geometry.Vector3
	Geometry *Geometry
	Material *Material

	children []*Object
	parent   *Object
}

// NewMesh creates a visible triangle object.
func NewMesh(name string, geo *Geometry, mat *Material) *Object {
	return &Object{Name: name, Kind: KindMesh, Visible: true, Geometry: geo, Material: mat}
}

// NewLines creates a visible line-set object.
func NewLines(name string, geo *Geometry, mat *Material) *Object {
	return &Object{Name: name, Kind: KindLines, Visible: true, Geometry: geo, Material: mat}
}

// NewGroup creates an empty container node.
func NewGroup(name string) *Object {
	return &Object{Name: name, Kind: KindGroup, Visible: true}
}

// Add attaches child, detaching it from any previous parent.
func (o *Object) Add(child *Object) {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = o
	o.children = append(o.children, child)
}

// Remove detaches child and reports whether it was attached here.
func (o *Object) Remove(child *Object) bool {
	i := slices.Index(o.children, child)
	if i < 0 {
		return false
	}
	o.children = slices.Delete(o.children, i, i+1)
	child.parent = nil
	return true
}

// Children returns the direct children.
func (o *Object) Children() []*Object { return o.children }

// Parent returns the containing object, nil at the top level.
func (o *Object) Parent() *Object { return o.parent }

// WorldPosition accumulates positions up the parent chain.
func (o *Object) WorldPosition() geometry.Vector3 {
	p := o.Position
	for parent := o.parent; parent != nil; parent = parent.parent {
		p = p.Add(parent.Position)
	}
	return p
}

// Traverse visits o and all descendants depth first.
func (o *Object) Traverse(fn func(*Object)) {
	fn(o)
	for _, c := range o.children {
		c.Traverse(fn)
	}
}

// WorldBounds returns the world-space box of o and its descendants.
func (o *Object) WorldBounds() geometry.BoundingBox {
	box := geometry.NewBoundingBox()
	o.Traverse(func(n *Object) {
		if n.Geometry != nil {
			box.Union(n.Geometry.Bounds().Translate(n.WorldPosition()))
		}
	})
	return box
}

// Dispose releases geometry and material of o and all descendants.
func (o *Object) Dispose() {
	o.Traverse(func(n *Object) {
		if n.Geometry != nil {
			n.Geometry.Dispose()
		}
		if n.Material != nil {
			n.Material.Dispose()
		}
	})
}

// Hit is a ray intersection in world space.
type Hit struct {
	Object   *Object
	Point    geometry.Vector3
	Distance float64
}

// Raycast returns the nearest intersection of ray with the triangles of o
// and its descendants. Visibility is ignored.
func (o *Object) Raycast(ray geometry.Ray) (Hit, bool) {
	best := Hit{Distance: math.Inf(1)}
	found := false

	o.Traverse(func(n *Object) {
		if n.Kind != KindMesh || n.Geometry.Empty() {
			return
		}
		offset := n.WorldPosition()
		local := geometry.Ray{Origin: ray.Origin.Sub(offset), Direction: ray.Direction}
		if !local.IntersectBox(n.Geometry.Bounds()) {
			return
		}
		for _, tri := range n.Geometry.Triangles {
			if d, ok := local.IntersectTriangle(tri); ok && d < best.Distance {
				best = Hit{Object: n, Point: ray.At(d), Distance: d}
				found = true
			}
		}
	})
	return best, found
}
