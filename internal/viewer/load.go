package viewer

import (
	"context"
	"errors"

	"github.com/aegiscad/viewer/internal/camera"
	"github.com/aegiscad/viewer/internal/logx"
	"github.com/aegiscad/viewer/internal/meshload"
	"github.com/aegiscad/viewer/pkg/analysis"
)

// Placeholder is the identifier of the built-in demo cube.
const Placeholder = "placeholder"

// Status is the state of the load pipeline.
type Status int

const (
	// StatusIdle means nothing was requested yet.
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	// StatusFallback means the load failed and the fallback cube is shown.
	StatusFallback
	// StatusEmpty means "no model" was requested.
	StatusEmpty
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFallback:
		return "fallback"
	case StatusEmpty:
		return "empty"
	default:
		return "idle"
	}
}

// LoadModel selects what the viewer shows. An empty identifier shows the
// empty-state prompt, Placeholder shows the demo cube without fetching, and
// anything else is fetched through the source and parsed in the background.
// A new identifier supersedes any load in flight; requesting the current
// identifier again does nothing.
func (h *Host) LoadModel(identifier string) error {
	if h.tornDown {
		return ErrTornDown
	}
	if h.requested && identifier == h.identifier {
		return nil
	}
	h.identifier = identifier
	h.requested = true
	h.start(identifier)
	return nil
}

// Reload fetches the current identifier again.
func (h *Host) Reload() error {
	if h.tornDown {
		return ErrTornDown
	}
	if !h.requested {
		return nil
	}
	h.start(h.identifier)
	return nil
}

// Identifier returns the requested identifier and whether one was set.
func (h *Host) Identifier() (string, bool) { return h.identifier, h.requested }

func (h *Host) start(identifier string) {
	h.generation++
	gen := h.generation
	if h.cancelLoad != nil {
		h.cancelLoad()
		h.cancelLoad = nil
	}

	h.measure.Reset()
	h.setInfo(nil)

	switch identifier {
	case "":
		h.detachModel()
		h.metrics = nil
		h.setStatus(StatusEmpty)
		return
	case Placeholder:
		res := h.loader.Placeholder()
		h.apply(res, res.Info(h.cfg.Model.Unit), StatusReady)
		return
	}

	h.setStatus(StatusLoading)
	if h.src == nil {
		h.finish(gen, identifier, nil, errors.New("viewer: no source configured"))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.cancelLoad = cancel
	logx.Logger().Info("viewer: loading model", "identifier", identifier, "generation", gen)

	go func() {
		res, err := h.fetchAndParse(ctx, identifier)
		h.sched.Post(func() { h.finish(gen, identifier, res, err) })
	}()
}

// fetchAndParse runs off the viewer thread. It touches only the source and
// the loader, neither of which holds scene state.
func (h *Host) fetchAndParse(ctx context.Context, identifier string) (*meshload.Result, error) {
	data, err := h.src.Fetch(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return h.loader.Load(data)
}

func (h *Host) finish(gen uint64, identifier string, res *meshload.Result, err error) {
	if h.tornDown || gen != h.generation {
		logx.Logger().Debug("viewer: stale load discarded", "identifier", identifier, "generation", gen)
		if res != nil {
			res.Mesh.Dispose()
		}
		return
	}
	if h.cancelLoad != nil {
		h.cancelLoad()
		h.cancelLoad = nil
	}

	if err != nil {
		logx.Logger().Warn("viewer: load failed, showing fallback", "identifier", identifier, "error", err)
		h.apply(h.loader.FallbackCube(), analysis.FallbackInfo(h.cfg.Model.Unit), StatusFallback)
		return
	}

	logx.Logger().Info("viewer: model loaded", "identifier", identifier, "triangles", res.TriangleCount)
	h.apply(res, res.Info(h.cfg.Model.Unit), StatusReady)
}

// apply swaps in a loaded mesh: old model out, new model in, camera fit,
// view mode re-applied, outputs published.
func (h *Host) apply(res *meshload.Result, info analysis.ModelInfo, status Status) {
	h.measure.Reset()
	h.detachModel()
	h.Attach(res.Mesh)

	h.metrics = &camera.Metrics{Size: res.Size(), Center: res.Mesh.WorldBounds().Center()}
	h.director.FitToModel(h.metrics)
	h.view.Reapply()

	h.setInfo(&info)
	h.setStatus(status)
}

func (h *Host) setInfo(info *analysis.ModelInfo) {
	if h.info == nil && info == nil {
		return
	}
	h.info = info
	if h.events.ModelInfo != nil {
		h.events.ModelInfo(h.ModelInfo())
	}
}

func (h *Host) setStatus(s Status) {
	if s == h.status {
		return
	}
	h.status = s
	if h.events.Status != nil {
		h.events.Status(s)
	}
}

// SetLoading toggles the external "generating" overlay.
func (h *Host) SetLoading(loading bool) {
	h.loading = loading
}

// Loading reports whether the external loading overlay is shown.
func (h *Host) Loading() bool { return h.loading }
