package geometry

import (
	"math"
	"testing"
)

func TestRayIntersectTriangle(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(-1, -1, 0),
		NewVector3(1, -1, 0),
		NewVector3(0, 1, 0),
	)

	tests := []struct {
		name     string
		ray      Ray
		hit      bool
		distance float64
	}{
		{"front face", NewRay(NewVector3(0, 0, 5), NewVector3(0, 0, -1)), true, 5},
		{"back face", NewRay(NewVector3(0, 0, -2), NewVector3(0, 0, 1)), true, 2},
		{"miss outside", NewRay(NewVector3(3, 3, 5), NewVector3(0, 0, -1)), false, 0},
		{"pointing away", NewRay(NewVector3(0, 0, 5), NewVector3(0, 0, 1)), false, 0},
		{"parallel", NewRay(NewVector3(0, 0, 1), NewVector3(1, 0, 0)), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, ok := tt.ray.IntersectTriangle(tri)
			if ok != tt.hit {
				t.Fatalf("expected hit=%v, got %v", tt.hit, ok)
			}
			if ok && math.Abs(dist-tt.distance) > 1e-10 {
				t.Errorf("expected distance %v, got %v", tt.distance, dist)
			}
		})
	}
}

func TestRayAt(t *testing.T) {
	r := NewRay(NewVector3(1, 0, 0), NewVector3(0, 2, 0))
	if p := r.At(3); !p.ApproxEqual(NewVector3(1, 3, 0), 1e-10) {
		t.Errorf("At failed: got %v", p)
	}
}

func TestRayIntersectBox(t *testing.T) {
	box := NewBoundingBoxFromSize(NewVector3(2, 2, 2), Vector3{})

	if !NewRay(NewVector3(0, 0, 10), NewVector3(0, 0, -1)).IntersectBox(box) {
		t.Error("ray through the box should intersect")
	}
	if NewRay(NewVector3(5, 0, 10), NewVector3(0, 0, -1)).IntersectBox(box) {
		t.Error("ray beside the box should miss")
	}
	if NewRay(NewVector3(0, 0, 10), NewVector3(0, 0, 1)).IntersectBox(box) {
		t.Error("ray pointing away should miss")
	}
	if !NewRay(Vector3{}, NewVector3(1, 0, 0)).IntersectBox(box) {
		t.Error("ray starting inside should intersect")
	}
}
