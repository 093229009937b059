package gui

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegiscad/viewer/internal/render"
	"github.com/aegiscad/viewer/internal/viewer"
)

func TestCanvasForwardsInput(t *testing.T) {
	test.NewTempApp(t)
	c := NewCanvas(100, 80)

	var resized [2]int
	var clicks, drags, pans int
	var zoom float64
	cancel := c.Listen(viewer.Listener{
		Resize: func(w, h int) { resized = [2]int{w, h} },
		Click:  func(x, y float64) { clicks++ },
		Drag:   func(dx, dy float64) { drags++ },
		Pan:    func(dx, dy float64) { pans++ },
		Scroll: func(steps float64) { zoom += steps },
	})

	c.Resize(fyne.NewSize(300, 200))
	assert.Equal(t, [2]int{300, 200}, resized)
	w, h := c.PixelSize()
	assert.Equal(t, 300, w)
	assert.Equal(t, 200, h)

	test.Tap(c)
	assert.Equal(t, 1, clicks)

	c.Dragged(&fyne.DragEvent{Dragged: fyne.NewDelta(5, 0)})
	test.Tap(c)
	assert.Equal(t, 1, clicks, "the tap ending a drag is not a click")
	c.DragEnd()

	c.MouseDown(&desktop.MouseEvent{Button: desktop.MouseButtonSecondary})
	c.Dragged(&fyne.DragEvent{Dragged: fyne.NewDelta(0, 5)})
	c.MouseUp(&desktop.MouseEvent{})
	c.DragEnd()
	assert.Equal(t, 1, drags)
	assert.Equal(t, 1, pans)

	c.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 20)})
	assert.InDelta(t, 2, zoom, 1e-9)

	cancel()
	test.Tap(c)
	assert.Equal(t, 1, clicks)
}

func TestCanvasPresentCopiesFrame(t *testing.T) {
	test.NewTempApp(t)
	c := NewCanvas(4, 4)

	s := render.NewSurface(4, 4, false)
	c.Mount(s)
	red := color.RGBA{R: 255, A: 255}
	s.Clear(red)
	c.Present(s)

	frame := c.draw(4, 4)
	require.Equal(t, 4, frame.Bounds().Dx())
	s.Clear(color.RGBA{A: 255})
	assert.Equal(t, red, color.RGBAModel.Convert(frame.At(1, 1)))

	c.Unmount(s)
	assert.Equal(t, 1, c.draw(4, 4).Bounds().Dx())
}

func TestCanvasBounds(t *testing.T) {
	test.NewTempApp(t)
	c := NewCanvas(64, 48)
	assert.Equal(t, 64.0, c.Bounds().Width)
	assert.Equal(t, 48.0, c.Bounds().Height)
}
