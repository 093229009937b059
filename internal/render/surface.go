// Package render rasterizes the scene into an in-memory surface.
package render

import (
	"errors"
	"image"
	"image/color"
	"math"
)

// ErrBufferNotRetained is returned when a snapshot is requested from a
// surface that does not keep its drawing buffer between frames.
var ErrBufferNotRetained = errors.New("render: drawing buffer is not retained")

// ErrDisposed is returned by a surface after Dispose.
var ErrDisposed = errors.New("render: surface disposed")

// Surface is a color and depth buffer pair.
type Surface struct {
	color    *image.RGBA
	depth    []float64
	preserve bool
	disposed bool
}

// NewSurface allocates a width×height surface. preserve keeps the last
// frame readable for snapshots.
func NewSurface(width, height int, preserve bool) *Surface {
	s := &Surface{preserve: preserve}
	s.Resize(width, height)
	return s
}

// Resize reallocates the buffers. Sizes below one pixel are clamped.
func (s *Surface) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if s.color != nil && s.color.Rect.Dx() == width && s.color.Rect.Dy() == height {
		return
	}
	s.color = image.NewRGBA(image.Rect(0, 0, width, height))
	s.depth = make([]float64, width*height)
}

// Size returns the pixel dimensions.
func (s *Surface) Size() (width, height int) {
	if s.color == nil {
		return 0, 0
	}
	return s.color.Rect.Dx(), s.color.Rect.Dy()
}

// PreservesDrawingBuffer reports whether snapshots are allowed.
func (s *Surface) PreservesDrawingBuffer() bool { return s.preserve }

// Clear fills the color buffer with bg and resets depth.
func (s *Surface) Clear(bg color.RGBA) {
	pix := s.color.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = bg.R, bg.G, bg.B, bg.A
	}
	for i := range s.depth {
		s.depth[i] = math.Inf(1)
	}
}

// Image returns the live color buffer for presentation. It is overwritten
// by the next frame.
func (s *Surface) Image() *image.RGBA { return s.color }

// Snapshot copies the last rendered frame.
func (s *Surface) Snapshot() (*image.RGBA, error) {
	if s.disposed {
		return nil, ErrDisposed
	}
	if !s.preserve {
		return nil, ErrBufferNotRetained
	}
	out := image.NewRGBA(s.color.Rect)
	copy(out.Pix, s.color.Pix)
	return out, nil
}

// Dispose releases the buffers.
func (s *Surface) Dispose() {
	s.disposed = true
	s.color = image.NewRGBA(image.Rectangle{})
	s.depth = nil
}

// Disposed reports whether Dispose was called.
func (s *Surface) Disposed() bool { return s.disposed }
