// Package view applies the rendering mode and helper visibility to a scene.
package view

import (
	"fmt"
	"strings"

	"github.com/aegiscad/viewer/internal/scene"
)

// Mode selects how the model surface is drawn.
type Mode int

const (
	Solid Mode = iota
	Wireframe
	Both
)

func (m Mode) String() string {
	switch m {
	case Wireframe:
		return "wireframe"
	case Both:
		return "both"
	default:
		return "solid"
	}
}

// ParseMode accepts the names returned by String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "solid":
		return Solid, nil
	case "wireframe":
		return Wireframe, nil
	case "both":
		return Both, nil
	}
	return Solid, fmt.Errorf("unknown view mode %q", s)
}

// State is the user-controlled view configuration.
type State struct {
	Mode          Mode
	GridVisible   bool
	AxesVisible   bool
	MeasureActive bool
}

// Stage is the part of the scene host the controller mutates.
type Stage interface {
	Model() *scene.Object
	Overlay() *scene.Object
	AttachOverlay(overlay *scene.Object)
	DetachOverlay()
	Grid() *scene.Object
	Axes() *scene.Object
}

// OverlayFactory derives the edge overlay of a model; nil means none.
type OverlayFactory func(model *scene.Object) *scene.Object

// Controller owns State and keeps the stage in sync with it.
type Controller struct {
	state      State
	stage      Stage
	newOverlay OverlayFactory
}

// NewController starts in Solid mode with grid and axes visible.
func NewController(stage Stage, newOverlay OverlayFactory) *Controller {
	return &Controller{
		state:      State{Mode: Solid, GridVisible: true, AxesVisible: true},
		stage:      stage,
		newOverlay: newOverlay,
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State { return c.state }

// SetMode switches the rendering mode. Setting the current mode does nothing.
func (c *Controller) SetMode(m Mode) bool {
	if m == c.state.Mode {
		return false
	}
	c.state.Mode = m
	c.applyMode()
	return true
}

// Reapply pushes the current mode onto a freshly attached model.
func (c *Controller) Reapply() {
	c.applyMode()
	c.applyHelpers()
}

func (c *Controller) applyMode() {
	model := c.stage.Model()
	if model != nil && model.Material != nil {
		model.Material.Wireframe = c.state.Mode == Wireframe
	}

	if c.state.Mode != Both {
		c.stage.DetachOverlay()
		return
	}
	if model == nil || c.stage.Overlay() != nil {
		return
	}
	if overlay := c.newOverlay(model); overlay != nil {
		c.stage.AttachOverlay(overlay)
	}
}

// SetGridVisible shows or hides the grid helper.
func (c *Controller) SetGridVisible(visible bool) bool {
	if visible == c.state.GridVisible {
		return false
	}
	c.state.GridVisible = visible
	c.applyHelpers()
	return true
}

// SetAxesVisible shows or hides the axes helper.
func (c *Controller) SetAxesVisible(visible bool) bool {
	if visible == c.state.AxesVisible {
		return false
	}
	c.state.AxesVisible = visible
	c.applyHelpers()
	return true
}

func (c *Controller) applyHelpers() {
	if grid := c.stage.Grid(); grid != nil {
		grid.Visible = c.state.GridVisible
	}
	if axes := c.stage.Axes(); axes != nil {
		axes.Visible = c.state.AxesVisible
	}
}

// SetMeasureActive records the measurement flag. The measurement tool
// reacts to it separately.
func (c *Controller) SetMeasureActive(active bool) bool {
	if active == c.state.MeasureActive {
		return false
	}
	c.state.MeasureActive = active
	return true
}
