// Package viewer is the scene host: it owns the render surface, camera,
// control rig, lighting and helpers, runs the render loop, drives the model
// load pipeline and tears everything down.
//
// A Host is single-threaded. Every method must be called on the viewer
// thread of its Scheduler; background work posts its results back there.
package viewer

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aegiscad/viewer/internal/camera"
	"github.com/aegiscad/viewer/internal/config"
	"github.com/aegiscad/viewer/internal/logx"
	"github.com/aegiscad/viewer/internal/loop"
	"github.com/aegiscad/viewer/internal/measure"
	"github.com/aegiscad/viewer/internal/meshload"
	"github.com/aegiscad/viewer/internal/render"
	"github.com/aegiscad/viewer/internal/scene"
	"github.com/aegiscad/viewer/internal/source"
	"github.com/aegiscad/viewer/internal/view"
	"github.com/aegiscad/viewer/pkg/analysis"
	"github.com/aegiscad/viewer/pkg/geometry"
)

var (
	// ErrNoRenderContext is returned by Initialize when the container has
	// no drawable area.
	ErrNoRenderContext = errors.New("viewer: no render context available")
	// ErrTornDown is returned by operations on a host after Teardown.
	ErrTornDown = errors.New("viewer: host torn down")
	// ErrNoModel is returned by ExportModel when no model file is shown.
	ErrNoModel = errors.New("viewer: no model loaded")
	// ErrFormat is returned by ExportModel for formats other than step and stl.
	ErrFormat = errors.New("viewer: unsupported export format")
)

// Events are notified on the viewer thread when outputs change.
type Events struct {
	ModelInfo   func(info *analysis.ModelInfo)
	Measurement func(result *measure.Result)
	Status      func(status Status)
}

// Options wires a host to its collaborators.
type Options struct {
	Config    config.Config
	Scheduler loop.Scheduler
	// Source fetches model bytes. Required for identifiers other than
	// the placeholder.
	Source source.Source
	// Clock drives the measurement auto-reset; defaults to the wall clock.
	Clock clockwork.Clock
	// Resolver turns export paths into download locations; identity when nil.
	Resolver source.Resolver
	// Download receives export requests.
	Download func(location, filename string)
	Events   Events
}

// Host is the scene host.
type Host struct {
	cfg       config.Config
	sched     loop.Scheduler
	src       source.Source
	resolver  source.Resolver
	download  func(location, filename string)
	events    Events
	container Container

	surface  *render.Surface
	renderer *render.Renderer
	scene    *scene.Scene
	camera   *camera.Perspective
	controls *camera.OrbitControls
	director *camera.Director
	loader   *meshload.Loader
	view     *view.Controller
	measure  *measure.Tool

	grid    *scene.Object
	axes    *scene.Object
	model   *scene.Object
	overlay *scene.Object

	metrics *camera.Metrics
	info    *analysis.ModelInfo
	status  Status

	identifier string
	requested  bool
	generation uint64
	cancelLoad context.CancelFunc
	loading    bool

	frame      loop.FrameID
	stopListen func()
	tornDown   bool
}

// Initialize builds the scene inside container and starts the render loop.
// It fails with ErrNoRenderContext when the container has no area.
func Initialize(container Container, opts Options) (*Host, error) {
	width, height := container.PixelSize()
	if width <= 0 || height <= 0 {
		return nil, ErrNoRenderContext
	}
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clk := opts.Clock
	if clk == nil {
		clk = clockwork.NewRealClock()
	}

	h := &Host{
		cfg:       cfg,
		sched:     opts.Scheduler,
		src:       opts.Source,
		resolver:  opts.Resolver,
		download:  opts.Download,
		events:    opts.Events,
		container: container,
		loader:    meshload.New(cfg),
	}

	h.surface = render.NewSurface(width, height, cfg.Render.PreserveDrawingBuffer)
	h.renderer = render.NewRenderer(h.surface)

	h.camera = camera.NewPerspective(cfg.Camera.FOV, float64(width)/float64(height), cfg.Camera.Near, cfg.Camera.Far)
	h.camera.LookAt(geometry.Vector3{})
	h.controls = camera.NewOrbitControls(h.camera, cfg.Controls, cfg.Render.FPS)
	h.director = camera.NewDirector(h.camera, h.controls)

	h.scene = scene.New(config.MustColor(cfg.Scene.Background))
	h.grid = scene.NewGrid(cfg.Scene.GridSize, cfg.Scene.GridDivisions)
	h.axes = scene.NewAxes(cfg.Scene.AxesSize)
	h.scene.Add(h.grid)
	h.scene.Add(h.axes)

	st := stage{h}
	h.view = view.NewController(st, h.loader.CreateWireframeOverlay)
	h.measure = measure.New(st, h.camera, clk, h.sched.Post, measure.Options{
		Color:        config.MustColor(cfg.Measure.Color),
		MarkerRadius: cfg.Measure.MarkerRadius,
		ResetDelay:   cfg.Measure.ResetDelay(),
		Unit:         cfg.Model.Unit,
	})
	h.measure.OnChange = func(r *measure.Result) {
		if h.events.Measurement != nil {
			h.events.Measurement(r)
		}
	}

	container.Mount(h.surface)
	h.stopListen = container.Listen(Listener{
		Resize: func(w, hgt int) { h.sched.Post(func() { h.OnResize(w, hgt) }) },
		Click:  func(x, y float64) { h.sched.Post(func() { h.Click(x, y) }) },
		Drag:   func(dx, dy float64) { h.sched.Post(func() { h.Drag(dx, dy) }) },
		Pan:    func(dx, dy float64) { h.sched.Post(func() { h.Pan(dx, dy) }) },
		Scroll: func(steps float64) { h.sched.Post(func() { h.Zoom(steps) }) },
	})

	h.requestFrame()
	logx.Logger().Debug("viewer: initialized", "width", width, "height", height)
	return h, nil
}

func (h *Host) requestFrame() {
	h.frame = h.sched.RequestFrame(h.tick)
}

// tick advances damping, renders and schedules the next frame.
func (h *Host) tick(time.Time) {
	if h.tornDown {
		return
	}
	h.controls.Update()
	h.renderer.Render(h.scene, h.camera, h.hud())
	h.container.Present(h.surface)
	h.requestFrame()
}

func (h *Host) hud() render.HUD {
	hud := render.HUD{Loading: h.loading}
	if !h.loading && (h.status == StatusIdle || h.status == StatusEmpty) {
		hud.Banner = "No model loaded"
	}
	if h.status == StatusFallback {
		hud.Lines = append(hud.Lines, "Model could not be loaded")
	}
	if r := h.measure.Result(); r != nil {
		hud.Lines = append(hud.Lines, r.String())
	}
	return hud
}

// OnResize follows a container size change.
func (h *Host) OnResize(width, height int) {
	if h.tornDown {
		return
	}
	h.surface.Resize(width, height)
	if width > 0 && height > 0 {
		h.camera.SetAspect(float64(width) / float64(height))
	}
}

// Attach adds o to the scene, replacing any object with the same name.
// The model and overlay names go into their slots.
func (h *Host) Attach(o *scene.Object) {
	switch o.Name {
	case meshload.ModelName:
		h.detachModel()
		h.model = o
	case meshload.OverlayName:
		h.detachOverlay()
		h.overlay = o
	default:
		h.Detach(o.Name)
	}
	h.scene.Add(o)
}

// Detach removes and disposes the objects named name. It reports whether
// anything was removed.
func (h *Host) Detach(name string) bool {
	switch name {
	case meshload.ModelName:
		if h.model == nil {
			return false
		}
		h.detachModel()
		return true
	case meshload.OverlayName:
		if h.overlay == nil {
			return false
		}
		h.detachOverlay()
		return true
	}

	removed := false
	for _, o := range slices.Clone(h.scene.Objects()) {
		if o.Name == name {
			h.scene.Remove(o)
			o.Dispose()
			removed = true
		}
	}
	return removed
}

func (h *Host) detachModel() {
	h.detachOverlay()
	if h.model != nil {
		h.scene.Remove(h.model)
		h.model.Dispose()
		h.model = nil
	}
}

func (h *Host) detachOverlay() {
	if h.overlay != nil {
		h.scene.Remove(h.overlay)
		h.overlay.Dispose()
		h.overlay = nil
	}
}

// Teardown stops the render loop, drops listeners, unmounts the surface and
// releases every scene resource. In-flight loads are canceled and their
// results discarded. Calling it again does nothing.
func (h *Host) Teardown() {
	if h.tornDown {
		return
	}
	h.tornDown = true

	h.generation++
	if h.cancelLoad != nil {
		h.cancelLoad()
		h.cancelLoad = nil
	}
	h.sched.CancelFrame(h.frame)
	h.measure.Reset()

	if h.stopListen != nil {
		h.stopListen()
		h.stopListen = nil
	}
	h.container.Unmount(h.surface)

	h.scene.Clear()
	h.model, h.overlay, h.grid, h.axes = nil, nil, nil, nil

	h.controls.Dispose()
	h.surface.Dispose()
	logx.Logger().Debug("viewer: torn down")
}

// TornDown reports whether Teardown ran.
func (h *Host) TornDown() bool { return h.tornDown }

// Scene returns the scene graph.
func (h *Host) Scene() *scene.Scene { return h.scene }

// Camera returns the camera.
func (h *Host) Camera() *camera.Perspective { return h.camera }

// Controls returns the orbit control rig.
func (h *Host) Controls() *camera.OrbitControls { return h.controls }

// Surface returns the render surface.
func (h *Host) Surface() *render.Surface { return h.surface }

// Model returns the attached model, nil when none.
func (h *Host) Model() *scene.Object { return h.model }

// Overlay returns the attached wireframe overlay, nil when none.
func (h *Host) Overlay() *scene.Object { return h.overlay }

// stage exposes the slots to the view controller and measurement tool.
type stage struct{ *Host }

func (s stage) AttachOverlay(o *scene.Object) { s.Attach(o) }

func (s stage) DetachOverlay() { s.detachOverlay() }

func (s stage) Grid() *scene.Object { return s.grid }

func (s stage) Axes() *scene.Object { return s.axes }

func (s stage) AddObject(o *scene.Object) { s.scene.Add(o) }

func (s stage) RemoveObject(o *scene.Object) {
	if s.scene.Remove(o) {
		o.Dispose()
	}
}
