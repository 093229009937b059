package geometry

import (
	"math"
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()
	if !bbox.IsEmpty() {
		t.Fatal("new bounding box should be empty")
	}

	bbox.Extend(NewVector3(1, 2, 3))
	bbox.Extend(NewVector3(4, 5, 6))
	bbox.Extend(NewVector3(-1, 0, 2))

	if bbox.Min != NewVector3(-1, 0, 2) {
		t.Errorf("Min failed: got %v", bbox.Min)
	}
	if bbox.Max != NewVector3(4, 5, 6) {
		t.Errorf("Max failed: got %v", bbox.Max)
	}
}

func TestBoundingBoxMetrics(t *testing.T) {
	bbox := NewBoundingBoxFromSize(NewVector3(4, 2, 6), NewVector3(1, 1, 1))

	if size := bbox.Size(); !size.ApproxEqual(NewVector3(4, 2, 6), 1e-10) {
		t.Errorf("Size failed: got %v", size)
	}
	if center := bbox.Center(); !center.ApproxEqual(NewVector3(1, 1, 1), 1e-10) {
		t.Errorf("Center failed: got %v", center)
	}
	if vol := bbox.Volume(); math.Abs(vol-48) > 1e-10 {
		t.Errorf("Volume failed: expected 48, got %v", vol)
	}
	if diag := bbox.Diagonal(); math.Abs(diag-math.Sqrt(56)) > 1e-10 {
		t.Errorf("Diagonal failed: got %v", diag)
	}
}

func TestBoundingBoxEmptyMetrics(t *testing.T) {
	bbox := NewBoundingBox()
	if bbox.Size() != (Vector3{}) || bbox.Center() != (Vector3{}) {
		t.Errorf("empty box should report zero size and center")
	}
	if moved := bbox.Translate(NewVector3(1, 1, 1)); !moved.IsEmpty() {
		t.Errorf("translated empty box should stay empty")
	}
}

func TestBoundingBoxUnion(t *testing.T) {
	a := NewBoundingBoxFromSize(NewVector3(2, 2, 2), Vector3{})
	b := NewBoundingBoxFromSize(NewVector3(2, 2, 2), NewVector3(4, 0, 0))
	a.Union(b)
	a.Union(NewBoundingBox())

	if a.Min != NewVector3(-1, -1, -1) || a.Max != NewVector3(5, 1, 1) {
		t.Errorf("Union failed: got %v", a)
	}
}
