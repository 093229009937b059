package viewer

import (
	"github.com/aegiscad/viewer/internal/camera"
	"github.com/aegiscad/viewer/internal/view"
)

// SetMode switches the rendering mode. It reports whether anything changed.
func (h *Host) SetMode(m view.Mode) bool {
	if h.tornDown {
		return false
	}
	return h.view.SetMode(m)
}

// SetGridVisible toggles the grid helper.
func (h *Host) SetGridVisible(visible bool) bool {
	if h.tornDown {
		return false
	}
	return h.view.SetGridVisible(visible)
}

// SetAxesVisible toggles the axes helper.
func (h *Host) SetAxesVisible(visible bool) bool {
	if h.tornDown {
		return false
	}
	return h.view.SetAxesVisible(visible)
}

// SetMeasureActive turns picking on or off. Turning it off clears the
// session and cancels a pending reset.
func (h *Host) SetMeasureActive(active bool) bool {
	if h.tornDown {
		return false
	}
	changed := h.view.SetMeasureActive(active)
	h.measure.SetActive(active)
	return changed
}

// ViewState returns the current view state.
func (h *Host) ViewState() view.State { return h.view.State() }

// ApplyPreset moves the camera to a named preset. Unknown names are ignored.
func (h *Host) ApplyPreset(name camera.Preset) bool {
	if h.tornDown {
		return false
	}
	return h.director.ApplyPreset(name, h.metrics)
}

// ResetCamera refits the camera to the current model, if any.
func (h *Host) ResetCamera() {
	if h.tornDown {
		return
	}
	h.director.Reset(h.metrics)
}

// Click routes a pointer click to the measurement tool.
func (h *Host) Click(clientX, clientY float64) bool {
	if h.tornDown || !h.measure.Active() {
		return false
	}
	return h.measure.HandleClick(clientX, clientY, h.container.Bounds())
}

// Drag orbits the camera by a pointer movement in pixels.
func (h *Host) Drag(dx, dy float64) {
	if h.tornDown {
		return
	}
	_, height := h.surface.Size()
	h.controls.Drag(dx, dy, float64(height))
}

// Pan shifts the camera and target by a pointer movement in pixels.
func (h *Host) Pan(dx, dy float64) {
	if h.tornDown {
		return
	}
	_, height := h.surface.Size()
	h.controls.Pan(dx, dy, float64(height))
}

// Zoom dollies the camera; positive steps move closer.
func (h *Host) Zoom(steps float64) {
	if h.tornDown {
		return
	}
	h.controls.Zoom(steps)
}
