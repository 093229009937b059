// Package camera holds the perspective camera, the damped orbit control
// rig that moves it, and the director that frames models.
package camera

import (
	"math"

	"github.com/aegiscad/viewer/pkg/geometry"
)

var worldUp = geometry.NewVector3(0, 1, 0)

// Perspective is a pinhole camera with a vertical field of view in degrees.
type Perspective struct {
	Position geometry.Vector3
	FOV      float64
	Aspect   float64
	Near     float64
	Far      float64

	target geometry.Vector3
}

// NewPerspective creates a camera at (5, 5, 5) looking at the origin.
func NewPerspective(fov, aspect, near, far float64) *Perspective {
	return &Perspective{
		Position: geometry.NewVector3(5, 5, 5),
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
	}
}

// LookAt aims the camera at target.
func (c *Perspective) LookAt(target geometry.Vector3) {
	c.target = target
}

// Target returns the point the camera looks at.
func (c *Perspective) Target() geometry.Vector3 { return c.target }

// SetAspect updates the width/height ratio after a resize.
func (c *Perspective) SetAspect(aspect float64) {
	if aspect > 0 && !math.IsInf(aspect, 0) {
		c.Aspect = aspect
	}
}

// Basis returns the camera's forward, right and up unit vectors.
// Looking straight up or down, screen-up follows the Z axis.
func (c *Perspective) Basis() (forward, right, up geometry.Vector3) {
	forward = c.target.Sub(c.Position).Normalize()
	if forward == (geometry.Vector3{}) {
		forward = geometry.NewVector3(0, 0, -1)
	}

	ref := worldUp
	if forward.Cross(ref).Length() < 1e-9 {
		ref = geometry.NewVector3(0, 0, math.Copysign(1, forward.Y))
	}
	right = forward.Cross(ref).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

func (c *Perspective) tanHalfFOV() float64 {
	return math.Tan(c.FOV * math.Pi / 360)
}

// ToNDC maps a world point to normalized device coordinates. depth is the
// distance along the view axis; ok is false outside the near/far range.
func (c *Perspective) ToNDC(p geometry.Vector3) (x, y, depth float64, ok bool) {
	forward, right, up := c.Basis()
	rel := p.Sub(c.Position)
	depth = rel.Dot(forward)
	if depth < c.Near || depth > c.Far {
		return 0, 0, depth, false
	}

	scale := c.tanHalfFOV()
	x = rel.Dot(right) / (depth * scale * c.Aspect)
	y = rel.Dot(up) / (depth * scale)
	return x, y, depth, true
}

// Project maps a world point to pixel coordinates on a width×height surface.
func (c *Perspective) Project(p geometry.Vector3, width, height float64) (sx, sy, depth float64, ok bool) {
	x, y, depth, ok := c.ToNDC(p)
	sx = (x + 1) / 2 * width
	sy = (1 - y) / 2 * height
	return sx, sy, depth, ok
}

// RayFromNDC casts a ray from the camera through normalized device coordinates.
func (c *Perspective) RayFromNDC(x, y float64) geometry.Ray {
	forward, right, up := c.Basis()
	scale := c.tanHalfFOV()
	dir := forward.
		Add(right.Mul(x * scale * c.Aspect)).
		Add(up.Mul(y * scale))
	return geometry.NewRay(c.Position, dir)
}

// Unproject casts a ray through a pixel of a width×height surface.
func (c *Perspective) Unproject(sx, sy, width, height float64) geometry.Ray {
	return c.RayFromNDC(2*sx/width-1, 1-2*sy/height)
}
