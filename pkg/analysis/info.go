package analysis

import (
	"fmt"

	"github.com/aegiscad/viewer/pkg/geometry"
)

// DefaultUnit is the label attached to every measurement.
const DefaultUnit = "mm"

// FallbackSize is the edge length of the cube shown when a model cannot be loaded.
const FallbackSize = 2.0

// Dimensions holds bounding-box extents formatted with two decimals.
type Dimensions struct {
	Width  string `json:"width"`
	Height string `json:"height"`
	Depth  string `json:"depth"`
}

// ModelInfo is the read-only summary shown next to the viewer.
//
// Volume is the bounding-box volume, not the enclosed mesh volume.
// Center is where the model sits in the scene; loaded models are centered,
// so it is the origin for them. SourceCenter keeps the center of the data
// before centering.
type ModelInfo struct {
	Dimensions   Dimensions       `json:"dimensions"`
	Volume       string           `json:"volume"`
	Unit         string           `json:"unit"`
	Size         geometry.Vector3 `json:"-"`
	Center       geometry.Vector3 `json:"-"`
	SourceCenter geometry.Vector3 `json:"-"`
}

// NewModelInfo derives the summary from a scene-space bounding box.
func NewModelInfo(bbox geometry.BoundingBox, sourceCenter geometry.Vector3, unit string) ModelInfo {
	if unit == "" {
		unit = DefaultUnit
	}
	size := bbox.Size()
	return ModelInfo{
		Dimensions: Dimensions{
			Width:  FormatFixed(size.X),
			Height: FormatFixed(size.Y),
			Depth:  FormatFixed(size.Z),
		},
		Volume:       FormatFixed(size.X * size.Y * size.Z),
		Unit:         unit,
		Size:         size,
		Center:       bbox.Center(),
		SourceCenter: sourceCenter,
	}
}

// FallbackInfo is the fixed summary paired with the fallback cube.
func FallbackInfo(unit string) ModelInfo {
	size := geometry.NewVector3(FallbackSize, FallbackSize, FallbackSize)
	return NewModelInfo(geometry.NewBoundingBoxFromSize(size, geometry.Vector3{}), geometry.Vector3{}, unit)
}

// String renders the info the way the side panel lists it.
func (i ModelInfo) String() string {
	return fmt.Sprintf("%s × %s × %s %s, volume %s %s³",
		i.Dimensions.Width, i.Dimensions.Height, i.Dimensions.Depth, i.Unit, i.Volume, i.Unit)
}

// FormatFixed formats a value with exactly two decimals.
func FormatFixed(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
