package scene

import (
	"image/color"
	"slices"

	"github.com/aegiscad/viewer/pkg/geometry"
)

// AmbientLight lights every face equally.
type AmbientLight struct {
	Color     color.RGBA
	Intensity float64
}

// DirectionalLight shines from Position towards the origin.
type DirectionalLight struct {
	Color     color.RGBA
	Intensity float64
	Position  geometry.Vector3
}

// Direction is the unit vector pointing from the origin to the light.
func (l DirectionalLight) Direction() geometry.Vector3 {
	return l.Position.Normalize()
}

// Scene is the root of the graph.
type Scene struct {
	Background  color.RGBA
	Ambient     AmbientLight
	Directional DirectionalLight

	objects []*Object
}

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// New creates a scene with the default lighting rig.
func New(background color.RGBA) *Scene {
	return &Scene{
		Background:  background,
		Ambient:     AmbientLight{Color: white, Intensity: 0.5},
		Directional: DirectionalLight{Color: white, Intensity: 0.8, Position: geometry.NewVector3(5, 10, 7.5)},
	}
}

// Add appends a top-level object.
func (s *Scene) Add(o *Object) {
	if o.parent != nil {
		o.parent.Remove(o)
	}
	s.objects = append(s.objects, o)
}

// Remove detaches a top-level object and reports whether it was present.
func (s *Scene) Remove(o *Object) bool {
	i := slices.Index(s.objects, o)
	if i < 0 {
		return false
	}
	s.objects = slices.Delete(s.objects, i, i+1)
	return true
}

// Objects returns the top-level objects in draw order.
func (s *Scene) Objects() []*Object { return s.objects }

// Traverse visits every object depth first.
func (s *Scene) Traverse(fn func(*Object)) {
	for _, o := range s.objects {
		o.Traverse(fn)
	}
}

// Find returns the first object named name.
func (s *Scene) Find(name string) *Object {
	var found *Object
	s.Traverse(func(o *Object) {
		if found == nil && o.Name == name {
			found = o
		}
	})
	return found
}

// Count returns how many objects carry name.
func (s *Scene) Count(name string) int {
	n := 0
	s.Traverse(func(o *Object) {
		if o.Name == name {
			n++
		}
	})
	return n
}

// Clear removes and disposes everything.
func (s *Scene) Clear() {
	for _, o := range s.objects {
		o.Dispose()
	}
	s.objects = nil
}
