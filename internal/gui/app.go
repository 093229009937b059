package gui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/aegiscad/viewer/internal/camera"
	"github.com/aegiscad/viewer/internal/config"
	"github.com/aegiscad/viewer/internal/logx"
	"github.com/aegiscad/viewer/internal/loop"
	"github.com/aegiscad/viewer/internal/measure"
	"github.com/aegiscad/viewer/internal/source"
	"github.com/aegiscad/viewer/internal/view"
	"github.com/aegiscad/viewer/internal/viewer"
	"github.com/aegiscad/viewer/pkg/analysis"
	"github.com/aegiscad/viewer/pkg/openscad"
	"github.com/aegiscad/viewer/pkg/watcher"
)

// Options configure the desktop application.
type Options struct {
	Config     config.Config
	Backend    source.Backend
	Identifier string
	// Watch reloads the model when its local file, or any OpenSCAD
	// dependency of it, changes.
	Watch bool
	// OutputDir receives screenshots and exports.
	OutputDir string
}

// App is the desktop window around one viewer host.
type App struct {
	opts   Options
	window fyne.Window
	canvas *Canvas
	loop   *loop.Loop
	host   *viewer.Host

	infoLabel    *widget.Label
	measureLabel *widget.Label
	statusLabel  *widget.Label
}

// Run opens the window and blocks until it is closed.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fyneApp := app.NewWithID("com.aegiscad.viewer")
	a := &App{
		opts:         opts,
		window:       fyneApp.NewWindow("Aegis Viewer"),
		canvas:       NewCanvas(opts.Config.Render.Width, opts.Config.Render.Height),
		loop:         loop.New(opts.Config.Render.FPS),
		infoLabel:    widget.NewLabel("No model loaded"),
		measureLabel: widget.NewLabel(""),
		statusLabel:  widget.NewLabel(viewer.StatusIdle.String()),
	}

	go func() {
		if err := a.loop.Run(ctx); err != nil && ctx.Err() == nil {
			logx.Logger().Error("gui: viewer loop stopped", "error", err)
		}
	}()

	var initErr error
	if err := a.loop.Do(ctx, func() { a.host, initErr = viewer.Initialize(a.canvas, a.hostOptions()) }); err != nil {
		return err
	}
	if initErr != nil {
		return fmt.Errorf("gui: %w", initErr)
	}

	if opts.Identifier != "" {
		a.post(func(h *viewer.Host) { _ = h.LoadModel(opts.Identifier) })
	}
	if opts.Watch && opts.Identifier != "" {
		if err := a.watch(ctx, opts.Identifier); err != nil {
			logx.Logger().Warn("gui: live reload disabled", "error", err)
		}
	}

	a.window.SetContent(container.NewBorder(a.toolbar(), a.statusBar(), nil, a.sidePanel(), a.canvas))
	a.window.Resize(fyne.NewSize(float32(opts.Config.Render.Width)+220, float32(opts.Config.Render.Height)+80))
	a.window.SetOnClosed(func() {
		_ = a.loop.Do(ctx, a.host.Teardown)
		cancel()
	})
	a.window.ShowAndRun()
	return nil
}

func (a *App) hostOptions() viewer.Options {
	return viewer.Options{
		Config:    a.opts.Config,
		Scheduler: a.loop,
		Source:    a.opts.Backend,
		Resolver:  a.opts.Backend,
		Download:  a.download,
		Events: viewer.Events{
			ModelInfo: func(info *analysis.ModelInfo) {
				text := "No model loaded"
				if info != nil {
					text = fmt.Sprintf("Width: %s %s\nHeight: %s %s\nDepth: %s %s\nVolume: %s %s³",
						info.Dimensions.Width, info.Unit,
						info.Dimensions.Height, info.Unit,
						info.Dimensions.Depth, info.Unit,
						info.Volume, info.Unit)
				}
				fyne.Do(func() { a.infoLabel.SetText(text) })
			},
			Measurement: func(r *measure.Result) {
				text := ""
				if r != nil {
					text = r.String()
				}
				fyne.Do(func() { a.measureLabel.SetText(text) })
			},
			Status: func(s viewer.Status) {
				fyne.Do(func() { a.statusLabel.SetText(s.String()) })
			},
		},
	}
}

// post runs fn with the host on the viewer thread.
func (a *App) post(fn func(h *viewer.Host)) {
	a.loop.Post(func() { fn(a.host) })
}

func (a *App) toolbar() fyne.CanvasObject {
	open := widget.NewButton("Open…", func() {
		dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			if reader == nil {
				return
			}
			path := reader.URI().Path()
			_ = reader.Close()
			a.post(func(h *viewer.Host) { _ = h.LoadModel(path) })
		}, a.window)
	})

	modes := widget.NewRadioGroup([]string{view.Solid.String(), view.Wireframe.String(), view.Both.String()}, func(s string) {
		if m, err := view.ParseMode(s); err == nil {
			a.post(func(h *viewer.Host) { h.SetMode(m) })
		}
	})
	modes.Horizontal = true
	modes.SetSelected(view.Solid.String())

	grid := widget.NewCheck("Grid", func(on bool) { a.post(func(h *viewer.Host) { h.SetGridVisible(on) }) })
	grid.SetChecked(true)
	axes := widget.NewCheck("Axes", func(on bool) { a.post(func(h *viewer.Host) { h.SetAxesVisible(on) }) })
	axes.SetChecked(true)
	measureCheck := widget.NewCheck("Measure", func(on bool) { a.post(func(h *viewer.Host) { h.SetMeasureActive(on) }) })

	presetNames := make([]string, 0, len(camera.Presets()))
	for _, p := range camera.Presets() {
		presetNames = append(presetNames, string(p))
	}
	presets := widget.NewSelect(presetNames, func(s string) {
		a.post(func(h *viewer.Host) { h.ApplyPreset(camera.Preset(s)) })
	})
	presets.PlaceHolder = "View"

	reset := widget.NewButton("Reset camera", func() { a.post((*viewer.Host).ResetCamera) })
	shot := widget.NewButton("Screenshot", func() { a.post(a.screenshot) })
	export := widget.NewSelect([]string{"step", "stl"}, func(format string) {
		a.post(func(h *viewer.Host) {
			if _, _, err := h.ExportModel(format); err != nil {
				a.showError(err)
			}
		})
	})
	export.PlaceHolder = "Export"

	return container.NewHBox(open, modes, grid, axes, measureCheck, presets, reset, shot, export)
}

func (a *App) sidePanel() fyne.CanvasObject {
	title := widget.NewLabel("Model")
	title.TextStyle = fyne.TextStyle{Bold: true}
	a.measureLabel.TextStyle = fyne.TextStyle{Bold: true}
	return container.NewVBox(title, a.infoLabel, widget.NewSeparator(), a.measureLabel)
}

func (a *App) statusBar() fyne.CanvasObject {
	return container.NewHBox(widget.NewLabel("Status:"), a.statusLabel)
}

func (a *App) screenshot(h *viewer.Host) {
	data, err := h.Screenshot()
	if err != nil {
		a.showError(err)
		return
	}
	path := filepath.Join(a.opts.OutputDir, viewer.ScreenshotFilename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		a.showError(err)
		return
	}
	logx.Logger().Info("gui: screenshot saved", "path", path)
}

// download saves an export in the background.
func (a *App) download(location, filename string) {
	saver := &source.Saver{From: a.opts.Backend, Dir: a.opts.OutputDir}
	go func() {
		if _, err := saver.Save(context.Background(), location, filename); err != nil {
			a.showError(err)
		}
	}()
}

func (a *App) showError(err error) {
	fyne.Do(func() { dialog.ShowError(err, a.window) })
}

// watch reloads on changes to a local model file.
func (a *App) watch(ctx context.Context, identifier string) error {
	if strings.Contains(identifier, "://") {
		return fmt.Errorf("cannot watch remote model %s", identifier)
	}
	files := []string{identifier}
	if openscad.IsSource(identifier) {
		deps, err := openscad.NewRenderer(filepath.Dir(identifier)).Dependencies(identifier)
		if err != nil {
			return err
		}
		files = deps
	}

	fw, err := watcher.NewFileWatcher(watcher.DefaultDebounce)
	if err != nil {
		return err
	}
	if err := fw.Watch(files, func(string) { a.post(func(h *viewer.Host) { _ = h.Reload() }) }); err != nil {
		_ = fw.Close()
		return err
	}
	go func() {
		defer fw.Close()
		_ = fw.Run(ctx)
	}()
	logx.Logger().Info("gui: watching for changes", "files", len(files))
	return nil
}
