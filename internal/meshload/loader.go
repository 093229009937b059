// Package meshload turns raw STL bytes into centered, scene-ready objects.
package meshload

import (
	"fmt"
	"image/color"

	"github.com/aegiscad/viewer/internal/config"
	"github.com/aegiscad/viewer/internal/scene"
	"github.com/aegiscad/viewer/pkg/analysis"
	"github.com/aegiscad/viewer/pkg/geometry"
	"github.com/aegiscad/viewer/pkg/stl"
)

// Scene names of the loaded model and its edge overlay.
const (
	ModelName   = "model"
	OverlayName = "wireframe-overlay"
)

// Result is a parsed mesh ready to attach.
type Result struct {
	// Mesh is named "model" and positioned so its center sits at the origin.
	Mesh *scene.Object
	// BoundingBox and Center describe the data before centering.
	BoundingBox             geometry.BoundingBox
	Center                  geometry.Vector3
	SuggestedCameraDistance float64
	Name                    string
	TriangleCount           int
}

// Size returns the bounding-box extents.
func (r *Result) Size() geometry.Vector3 {
	return r.BoundingBox.Size()
}

// Info derives the side-panel summary for the attached mesh.
func (r *Result) Info(unit string) analysis.ModelInfo {
	return analysis.NewModelInfo(r.Mesh.WorldBounds(), r.Center, unit)
}

// Loader builds meshes with a fixed visual style.
type Loader struct {
	ModelColor     color.RGBA
	OverlayColor   color.RGBA
	OverlayOpacity float64
}

// New creates a loader styled by cfg. cfg must have passed Validate.
func New(cfg config.Config) *Loader {
	return &Loader{
		ModelColor:     config.MustColor(cfg.Model.Color),
		OverlayColor:   config.MustColor(cfg.Overlay.Color),
		OverlayOpacity: cfg.Overlay.Opacity,
	}
}

// Load parses buf and returns the centered mesh with its metrics.
// Malformed data yields an error matching stl.ErrParse.
func (l *Loader) Load(buf []byte) (*Result, error) {
	model, err := stl.ParseBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to load mesh: %w", err)
	}
	return l.FromModel(model), nil
}

// FromModel wraps an already decoded model.
func (l *Loader) FromModel(model *stl.Model) *Result {
	bbox := model.BoundingBox()
	center := bbox.Center()

	mesh := scene.NewMesh(ModelName, scene.NewMeshGeometry(model.Triangles), l.modelMaterial())
	mesh.Position = center.Neg()

	return &Result{
		Mesh:                    mesh,
		BoundingBox:             bbox,
		Center:                  center,
		SuggestedCameraDistance: 2 * bbox.Size().MaxComponent(),
		Name:                    model.Name,
		TriangleCount:           model.TriangleCount(),
	}
}

func (l *Loader) modelMaterial() *scene.Material {
	return &scene.Material{Color: l.ModelColor, Opacity: 1, Lit: true}
}

// CreateWireframeOverlay derives the edge line-set of mesh, placed where
// the mesh is. It returns nil when the mesh has no geometry.
func (l *Loader) CreateWireframeOverlay(mesh *scene.Object) *scene.Object {
	if mesh == nil || mesh.Geometry.Empty() {
		return nil
	}

	edges := analysis.UniqueEdges(mesh.Geometry.Triangles)
	segments := make([]scene.Segment, len(edges))
	for i, e := range edges {
		segments[i] = scene.Segment{Start: e.Start, End: e.End}
	}

	overlay := scene.NewLines(OverlayName, scene.NewLineGeometry(segments), &scene.Material{
		Color:       l.OverlayColor,
		Opacity:     l.OverlayOpacity,
		Transparent: true,
	})
	overlay.Position = mesh.WorldPosition()
	return overlay
}

// FallbackCube is the 2×2×2 cube shown when a load fails.
func (l *Loader) FallbackCube() *Result {
	return l.FromModel(stl.NewBox("fallback", cubeSize(), geometry.Vector3{}))
}

// Placeholder is the demo cube shown for the "placeholder" identifier.
func (l *Loader) Placeholder() *Result {
	return l.FromModel(stl.NewBox("placeholder", cubeSize(), geometry.Vector3{}))
}

func cubeSize() geometry.Vector3 {
	return geometry.NewVector3(analysis.FallbackSize, analysis.FallbackSize, analysis.FallbackSize)
}
