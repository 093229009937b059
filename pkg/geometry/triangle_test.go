package geometry

import (
	"math"
	"testing"
)

func rightTriangle() Triangle {
	return NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)
}

func TestTriangleArea(t *testing.T) {
	area := rightTriangle().Area()
	if math.Abs(area-6.0) > 1e-10 {
		t.Errorf("Area failed: expected 6, got %v", area)
	}
}

func TestTriangleEdgeLengths(t *testing.T) {
	lengths := rightTriangle().EdgeLengths()
	expected := [3]float64{3, 5, 4}

	for i := range lengths {
		if math.Abs(lengths[i]-expected[i]) > 1e-10 {
			t.Errorf("Edge %d length failed: expected %v, got %v", i, expected[i], lengths[i])
		}
	}
}

func TestTriangleCenter(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 3, 0),
	)

	center := tri.Center()
	if !center.ApproxEqual(NewVector3(1, 1, 0), 1e-10) {
		t.Errorf("Center failed: expected (1,1,0), got %v", center)
	}
}

func TestTriangleFaceNormal(t *testing.T) {
	tri := rightTriangle()
	tri.Normal = Vector3{}

	normal := tri.FaceNormal()
	if !normal.ApproxEqual(NewVector3(0, 0, 1), 1e-10) {
		t.Errorf("FaceNormal failed: expected +Z, got %v", normal)
	}
}

func TestTriangleTranslate(t *testing.T) {
	moved := rightTriangle().Translate(NewVector3(1, 1, 1))
	if moved.V2 != NewVector3(4, 1, 1) {
		t.Errorf("Translate failed: got %v", moved.V2)
	}
	if moved.Normal != NewVector3(0, 0, 1) {
		t.Errorf("Translate must keep the normal, got %v", moved.Normal)
	}
}
