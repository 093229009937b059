package camera

import (
	"github.com/aegiscad/viewer/pkg/geometry"
)

// DefaultDistance frames the scene when no model metrics exist.
const DefaultDistance = 5.0

// isometricScale is applied per axis for the fit and isometric placements.
const isometricScale = 0.7

// Preset names a fixed viewing direction.
type Preset string

const (
	PresetFront     Preset = "front"
	PresetBack      Preset = "back"
	PresetLeft      Preset = "left"
	PresetRight     Preset = "right"
	PresetTop       Preset = "top"
	PresetBottom    Preset = "bottom"
	PresetIsometric Preset = "isometric"
)

var presetDirections = map[Preset]geometry.Vector3{
	PresetFront:     geometry.NewVector3(0, 0, 1),
	PresetBack:      geometry.NewVector3(0, 0, -1),
	PresetLeft:      geometry.NewVector3(-1, 0, 0),
	PresetRight:     geometry.NewVector3(1, 0, 0),
	PresetTop:       geometry.NewVector3(0, 1, 0),
	PresetBottom:    geometry.NewVector3(0, -1, 0),
	PresetIsometric: geometry.NewVector3(isometricScale, isometricScale, isometricScale),
}

// Presets lists the preset names in menu order.
func Presets() []Preset {
	return []Preset{PresetFront, PresetBack, PresetLeft, PresetRight, PresetTop, PresetBottom, PresetIsometric}
}

// Metrics is what the director needs to know about the displayed model.
type Metrics struct {
	Size   geometry.Vector3
	Center geometry.Vector3
}

// Distance is twice the largest extent, or DefaultDistance without metrics.
func (m *Metrics) Distance() float64 {
	if m == nil {
		return DefaultDistance
	}
	return 2 * m.Size.MaxComponent()
}

func (m *Metrics) target() geometry.Vector3 {
	if m == nil {
		return geometry.Vector3{}
	}
	return m.Center
}

// Director places the camera for fits and presets.
type Director struct {
	camera   *Perspective
	controls *OrbitControls
}

// NewDirector binds a director to a camera and its control rig.
func NewDirector(cam *Perspective, controls *OrbitControls) *Director {
	return &Director{camera: cam, controls: controls}
}

// FitToModel places the camera at target + (0.7d, 0.7d, 0.7d) and aims at
// the model center. A nil m frames the origin at DefaultDistance.
// Models loaded by the viewer host are centered first, so their
// Metrics.Center is the origin and the camera lands at (0.7d, 0.7d, 0.7d).
func (d *Director) FitToModel(m *Metrics) {
	d.place(presetDirections[PresetIsometric], m)
}

// ApplyPreset moves the camera along the named direction. Unknown names
// are ignored and reported as false.
func (d *Director) ApplyPreset(name Preset, m *Metrics) bool {
	dir, ok := presetDirections[name]
	if !ok {
		return false
	}
	d.place(dir, m)
	return true
}

// Reset refits to m; without metrics it does nothing.
func (d *Director) Reset(m *Metrics) {
	if m == nil {
		return
	}
	d.FitToModel(m)
}

func (d *Director) place(dir geometry.Vector3, m *Metrics) {
	target := m.target()
	d.camera.Position = target.Add(dir.Mul(m.Distance()))
	d.camera.LookAt(target)
	d.controls.Target = target
	d.controls.Stop()
	d.controls.Update()
}
