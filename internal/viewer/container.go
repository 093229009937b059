package viewer

import (
	"sync"

	"github.com/aegiscad/viewer/internal/measure"
	"github.com/aegiscad/viewer/internal/render"
)

// Listener receives input from the hosting container. Callbacks may be
// invoked from any goroutine; the host moves them onto the viewer thread.
// Nil callbacks are allowed.
type Listener struct {
	Resize func(width, height int)
	// Click is a primary-button click in client coordinates.
	Click func(clientX, clientY float64)
	// Drag is a pointer drag in pixels, used for orbiting.
	Drag func(dx, dy float64)
	// Pan is a secondary-button drag in pixels.
	Pan func(dx, dy float64)
	// Scroll is a wheel movement; positive steps zoom in.
	Scroll func(steps float64)
}

// Container is the layout element the render surface lives in.
type Container interface {
	// PixelSize is the current size in pixels.
	PixelSize() (width, height int)
	// Bounds is the on-screen rectangle of the surface in client coordinates.
	Bounds() measure.Rect
	Mount(s *render.Surface)
	Unmount(s *render.Surface)
	// Present is called after every frame with the surface to display.
	Present(s *render.Surface)
	// Listen registers input callbacks and returns a function that removes them.
	Listen(l Listener) (cancel func())
}

// Headless is an offscreen container for tests and batch rendering.
type Headless struct {
	mu        sync.Mutex
	width     int
	height    int
	mounted   *render.Surface
	listeners map[int]Listener
	nextID    int
	presented int
}

// NewHeadless creates an offscreen container of the given size.
func NewHeadless(width, height int) *Headless {
	return &Headless{width: width, height: height, listeners: make(map[int]Listener)}
}

func (c *Headless) PixelSize() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *Headless) Bounds() measure.Rect {
	w, h := c.PixelSize()
	return measure.Rect{Width: float64(w), Height: float64(h)}
}

func (c *Headless) Mount(s *render.Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = s
}

func (c *Headless) Unmount(s *render.Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mounted == s {
		c.mounted = nil
	}
}

// Mounted returns the attached surface, nil when none.
func (c *Headless) Mounted() *render.Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

func (c *Headless) Present(*render.Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presented++
}

// Presented counts frames handed to the container.
func (c *Headless) Presented() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presented
}

func (c *Headless) Listen(l Listener) func() {
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

// Listeners returns the number of registered listeners.
func (c *Headless) Listeners() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listeners)
}

func (c *Headless) each(fn func(Listener)) {
	c.mu.Lock()
	ls := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	c.mu.Unlock()
	for _, l := range ls {
		fn(l)
	}
}

// SetSize resizes the container and notifies listeners.
func (c *Headless) SetSize(width, height int) {
	c.mu.Lock()
	c.width, c.height = width, height
	c.mu.Unlock()
	c.each(func(l Listener) {
		if l.Resize != nil {
			l.Resize(width, height)
		}
	})
}

// Click simulates a primary click at client coordinates.
func (c *Headless) Click(x, y float64) {
	c.each(func(l Listener) {
		if l.Click != nil {
			l.Click(x, y)
		}
	})
}
