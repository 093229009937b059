// Package gui hosts the viewer engine inside a fyne window.
package gui

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/aegiscad/viewer/internal/measure"
	"github.com/aegiscad/viewer/internal/render"
	"github.com/aegiscad/viewer/internal/viewer"
)

// scrollStep is the wheel delta of one notch.
const scrollStep = 10

// Canvas is a fyne widget implementing viewer.Container. The engine renders
// on its own thread; Present copies each frame and schedules a repaint on
// the fyne thread.
type Canvas struct {
	widget.BaseWidget

	raster *canvas.Raster

	mu        sync.Mutex
	width     int
	height    int
	frame     *image.RGBA
	mounted   *render.Surface
	listeners map[int]viewer.Listener
	nextID    int

	dragging bool
	panning  bool
}

var (
	_ fyne.Tappable     = (*Canvas)(nil)
	_ fyne.Draggable    = (*Canvas)(nil)
	_ fyne.Scrollable   = (*Canvas)(nil)
	_ desktop.Mouseable = (*Canvas)(nil)
	_ viewer.Container  = (*Canvas)(nil)
)

// NewCanvas creates a canvas reporting width×height until the window
// lays it out.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{width: width, height: height, listeners: make(map[int]viewer.Listener)}
	c.raster = canvas.NewRaster(c.draw)
	c.raster.ScaleMode = canvas.ImageScaleFastest
	c.ExtendBaseWidget(c)
	return c
}

func (c *Canvas) draw(w, h int) image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frame == nil {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	return c.frame
}

// CreateRenderer implements fyne.Widget.
func (c *Canvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.raster)
}

// MinSize keeps the view usable in small windows.
func (c *Canvas) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

// Resize records the new pixel size and notifies the engine.
func (c *Canvas) Resize(size fyne.Size) {
	c.BaseWidget.Resize(size)

	w, h := int(size.Width), int(size.Height)
	c.mu.Lock()
	changed := w != c.width || h != c.height
	c.width, c.height = w, h
	c.mu.Unlock()

	if changed {
		c.each(func(l viewer.Listener) {
			if l.Resize != nil {
				l.Resize(w, h)
			}
		})
	}
}

func (c *Canvas) PixelSize() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Bounds uses widget-local coordinates, which is what pointer events carry.
func (c *Canvas) Bounds() measure.Rect {
	w, h := c.PixelSize()
	return measure.Rect{Width: float64(w), Height: float64(h)}
}

func (c *Canvas) Mount(s *render.Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = s
}

func (c *Canvas) Unmount(s *render.Surface) {
	c.mu.Lock()
	if c.mounted == s {
		c.mounted = nil
		c.frame = nil
	}
	c.mu.Unlock()
	fyne.Do(c.raster.Refresh)
}

// Present copies the finished frame for the next repaint.
func (c *Canvas) Present(s *render.Surface) {
	src := s.Image()
	c.mu.Lock()
	if c.frame == nil || c.frame.Rect != src.Rect {
		c.frame = image.NewRGBA(src.Rect)
	}
	copy(c.frame.Pix, src.Pix)
	c.mu.Unlock()
	fyne.Do(c.raster.Refresh)
}

func (c *Canvas) Listen(l viewer.Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.listeners[id] = l
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Canvas) each(fn func(viewer.Listener)) {
	c.mu.Lock()
	ls := make([]viewer.Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	c.mu.Unlock()
	for _, l := range ls {
		fn(l)
	}
}

// Tapped forwards primary clicks that were not the end of a drag.
func (c *Canvas) Tapped(event *fyne.PointEvent) {
	if c.dragging {
		return
	}
	x, y := float64(event.Position.X), float64(event.Position.Y)
	c.each(func(l viewer.Listener) {
		if l.Click != nil {
			l.Click(x, y)
		}
	})
}

// Dragged orbits, or pans while the secondary button is held.
func (c *Canvas) Dragged(event *fyne.DragEvent) {
	c.dragging = true
	dx, dy := float64(event.Dragged.DX), float64(event.Dragged.DY)
	panning := c.panning
	c.each(func(l viewer.Listener) {
		switch {
		case panning && l.Pan != nil:
			l.Pan(dx, dy)
		case !panning && l.Drag != nil:
			l.Drag(dx, dy)
		}
	})
}

func (c *Canvas) DragEnd() {
	c.dragging = false
}

// Scrolled zooms; wheel up moves closer.
func (c *Canvas) Scrolled(event *fyne.ScrollEvent) {
	steps := float64(event.Scrolled.DY) / scrollStep
	c.each(func(l viewer.Listener) {
		if l.Scroll != nil {
			l.Scroll(steps)
		}
	})
}

func (c *Canvas) MouseDown(event *desktop.MouseEvent) {
	c.panning = event.Button == desktop.MouseButtonSecondary
}

func (c *Canvas) MouseUp(*desktop.MouseEvent) {
	c.panning = false
}
