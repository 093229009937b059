package scene

import (
	"image/color"
	"math"

	"github.com/aegiscad/viewer/pkg/geometry"
)

// Names of the helper objects owned by the scene host.
const (
	GridName = "grid"
	AxesName = "axes"
)

var (
	gridCenterColor = color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 255}
	gridColor       = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 255}

	axisX = color.RGBA{R: 255, A: 255}
	axisY = color.RGBA{G: 255, A: 255}
	axisZ = color.RGBA{B: 255, A: 255}
)

// NewGrid builds a size×size grid on the XZ plane with divisions cells per side.
func NewGrid(size float64, divisions int) *Object {
	half := size / 2
	step := size / float64(divisions)
	center := divisions / 2

	segments := make([]Segment, 0, 2*(divisions+1))
	for i := 0; i <= divisions; i++ {
		k := -half + float64(i)*step
		c := gridColor
		if i == center {
			c = gridCenterColor
		}
		segments = append(segments,
			Segment{Start: geometry.NewVector3(-half, 0, k), End: geometry.NewVector3(half, 0, k), Color: c},
			Segment{Start: geometry.NewVector3(k, 0, -half), End: geometry.NewVector3(k, 0, half), Color: c},
		)
	}

	return NewLines(GridName, NewLineGeometry(segments), &Material{Opacity: 1, VertexColors: true})
}

// NewAxes builds the three coordinate axes of the given length (x red, y green, z blue).
func NewAxes(size float64) *Object {
	origin := geometry.Vector3{}
	segments := []Segment{
		{Start: origin, End: geometry.NewVector3(size, 0, 0), Color: axisX},
		{Start: origin, End: geometry.NewVector3(0, size, 0), Color: axisY},
		{Start: origin, End: geometry.NewVector3(0, 0, size), Color: axisZ},
	}
	return NewLines(AxesName, NewLineGeometry(segments), &Material{Opacity: 1, VertexColors: true})
}

// NewMarker builds an unlit sphere centered on position.
func NewMarker(name string, position geometry.Vector3, radius float64, c color.RGBA) *Object {
	m := NewMesh(name, NewMeshGeometry(Sphere(radius, 16, 16)), &Material{Color: c, Opacity: 1})
	m.Position = position
	return m
}

// NewLine builds a single straight line between a and b.
func NewLine(name string, a, b geometry.Vector3, c color.RGBA) *Object {
	geo := NewLineGeometry([]Segment{{Start: a, End: b, Color: c}})
	return NewLines(name, geo, &Material{Color: c, Opacity: 1})
}

// Sphere tessellates a UV sphere around the origin. Triangles wind outwards.
func Sphere(radius float64, widthSegments, heightSegments int) []geometry.Triangle {
	point := func(u, v int) geometry.Vector3 {
		phi := float64(u) / float64(widthSegments) * 2 * math.Pi
		theta := float64(v) / float64(heightSegments) * math.Pi
		return geometry.NewVector3(
			-radius*math.Cos(phi)*math.Sin(theta),
			radius*math.Cos(theta),
			radius*math.Sin(phi)*math.Sin(theta),
		)
	}

	tris := make([]geometry.Triangle, 0, widthSegments*heightSegments*2)
	for v := 0; v < heightSegments; v++ {
		for u := 0; u < widthSegments; u++ {
			a := point(u+1, v)
			b := point(u, v)
			c := point(u, v+1)
			d := point(u+1, v+1)
			if v != 0 {
				tris = append(tris, outward(a, b, d))
			}
			if v != heightSegments-1 {
				tris = append(tris, outward(b, c, d))
			}
		}
	}
	return tris
}

// outward orders a triangle so its normal points away from the origin.
func outward(a, b, c geometry.Vector3) geometry.Triangle {
	t := geometry.NewTriangle(geometry.Vector3{}, a, b, c)
	n := t.CalculateNormal()
	if n.Dot(t.Center()) < 0 {
		t.V2, t.V3 = t.V3, t.V2
		n = n.Neg()
	}
	t.Normal = n
	return t
}
