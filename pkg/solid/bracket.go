// Package solid builds sample parts from signed distance fields.
package solid

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/aegiscad/viewer/pkg/geometry"
	"github.com/aegiscad/viewer/pkg/stl"
)

// DefaultCells is the marching cubes resolution along the longest axis.
const DefaultCells = 120

// Bracket describes an L-shaped mounting bracket: a base plate with two
// bolt holes and an upright flange along its back edge. Lengths are in mm.
type Bracket struct {
	Width        float64
	Depth        float64
	Height       float64
	Thickness    float64
	HoleDiameter float64
	Cells        int
}

// DefaultBracket is a 40 × 30 × 25 mm bracket with M5 clearance holes.
func DefaultBracket() Bracket {
	return Bracket{Width: 40, Depth: 30, Height: 25, Thickness: 4, HoleDiameter: 5.5, Cells: DefaultCells}
}

var errDimensions = errors.New("solid: bracket dimensions must be positive")

func (b Bracket) validate() error {
	if b.Width <= 0 || b.Depth <= 0 || b.Height <= 0 || b.Thickness <= 0 || b.HoleDiameter < 0 {
		return errDimensions
	}
	if b.Thickness >= b.Depth || b.Thickness >= b.Height {
		return fmt.Errorf("solid: thickness %.2f leaves no room for the flange", b.Thickness)
	}
	if b.HoleDiameter >= b.Width/2 || b.HoleDiameter >= b.Depth-b.Thickness {
		return fmt.Errorf("solid: hole diameter %.2f does not fit the plate", b.HoleDiameter)
	}
	return nil
}

// SDF returns the bracket as a distance field centered on its bounding box.
func (b Bracket) SDF() (sdf.SDF3, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	plate, err := sdf.Box3D(v3.Vec{X: b.Width, Y: b.Depth, Z: b.Thickness}, 0)
	if err != nil {
		return nil, err
	}
	plate = sdf.Transform3D(plate, sdf.Translate3d(v3.Vec{Z: (b.Thickness - b.Height) / 2}))

	flange, err := sdf.Box3D(v3.Vec{X: b.Width, Y: b.Thickness, Z: b.Height}, 0)
	if err != nil {
		return nil, err
	}
	flange = sdf.Transform3D(flange, sdf.Translate3d(v3.Vec{Y: (b.Depth - b.Thickness) / 2}))

	body := sdf.Union3D(plate, flange)
	if b.HoleDiameter == 0 {
		return body, nil
	}

	// Holes sit centered in the free part of the plate, a quarter width in
	// from each side.
	holeY := -b.Thickness / 2
	holeZ := (b.Thickness - b.Height) / 2
	for _, x := range []float64{-b.Width / 4, b.Width / 4} {
		hole, err := sdf.Cylinder3D(b.Thickness*2, b.HoleDiameter/2, 0)
		if err != nil {
			return nil, err
		}
		hole = sdf.Transform3D(hole, sdf.Translate3d(v3.Vec{X: x, Y: holeY, Z: holeZ}))
		body = sdf.Difference3D(body, hole)
	}
	return body, nil
}

// Model tessellates the bracket with marching cubes.
func (b Bracket) Model() (*stl.Model, error) {
	s, err := b.SDF()
	if err != nil {
		return nil, err
	}
	cells := b.Cells
	if cells <= 0 {
		cells = DefaultCells
	}

	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	model := stl.NewModel("bracket")
	for _, tri := range triangles {
		t := geometry.Triangle{V1: toVector(tri[0]), V2: toVector(tri[1]), V3: toVector(tri[2])}
		t.Normal = t.CalculateNormal()
		model.AddTriangle(t)
	}
	return model, nil
}

func toVector(v v3.Vec) geometry.Vector3 {
	return geometry.NewVector3(v.X, v.Y, v.Z)
}
