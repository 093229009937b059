// Package config loads viewer settings from TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds every tunable of the viewer.
type Config struct {
	Camera   CameraConfig   `toml:"camera"`
	Controls ControlsConfig `toml:"controls"`
	Scene    SceneConfig    `toml:"scene"`
	Model    ModelConfig    `toml:"model"`
	Overlay  OverlayConfig  `toml:"overlay"`
	Measure  MeasureConfig  `toml:"measure"`
	Source   SourceConfig   `toml:"source"`
	Render   RenderConfig   `toml:"render"`
}

type CameraConfig struct {
	FOV  float64 `toml:"fov"`
	Near float64 `toml:"near"`
	Far  float64 `toml:"far"`
}

type ControlsConfig struct {
	Damping     float64 `toml:"damping"`
	MinDistance float64 `toml:"min_distance"`
	MaxDistance float64 `toml:"max_distance"`
	RotateSpeed float64 `toml:"rotate_speed"`
	ZoomSpeed   float64 `toml:"zoom_speed"`
}

type SceneConfig struct {
	Background    string  `toml:"background"`
	GridSize      float64 `toml:"grid_size"`
	GridDivisions int     `toml:"grid_divisions"`
	AxesSize      float64 `toml:"axes_size"`
}

type ModelConfig struct {
	Color string `toml:"color"`
	Unit  string `toml:"unit"`
}

type OverlayConfig struct {
	Color   string  `toml:"color"`
	Opacity float64 `toml:"opacity"`
}

type MeasureConfig struct {
	Color        string  `toml:"color"`
	MarkerRadius float64 `toml:"marker_radius"`
	ResetDelayMS int     `toml:"reset_delay_ms"`
}

// ResetDelay is the pause before a finished measurement clears itself.
func (m MeasureConfig) ResetDelay() time.Duration {
	return time.Duration(m.ResetDelayMS) * time.Millisecond
}

type SourceConfig struct {
	BaseURL   string `toml:"base_url"`
	TimeoutMS int    `toml:"timeout_ms"`
	// MaxBytes caps the size of a single download.
	MaxBytes int64 `toml:"max_bytes"`
}

// Timeout bounds a single fetch.
func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMS) * time.Millisecond
}

type RenderConfig struct {
	FPS                   int  `toml:"fps"`
	Width                 int  `toml:"width"`
	Height                int  `toml:"height"`
	PreserveDrawingBuffer bool `toml:"preserve_drawing_buffer"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Camera:   CameraConfig{FOV: 60, Near: 0.1, Far: 1000},
		Controls: ControlsConfig{Damping: 0.1, MinDistance: 1, MaxDistance: 100, RotateSpeed: 1, ZoomSpeed: 1},
		Scene:    SceneConfig{Background: "#f5f5f5", GridSize: 20, GridDivisions: 20, AxesSize: 5},
		Model:    ModelConfig{Color: "#3080ff", Unit: "mm"},
		Overlay:  OverlayConfig{Color: "#000000", Opacity: 0.25},
		Measure:  MeasureConfig{Color: "#ff0000", MarkerRadius: 0.1, ResetDelayMS: 3000},
		Source:   SourceConfig{BaseURL: "http://localhost:8000", TimeoutMS: 30000, MaxBytes: 256 << 20},
		Render:   RenderConfig{FPS: 60, Width: 800, Height: 600, PreserveDrawingBuffer: true},
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML data on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks ranges and colors.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov must be in (0, 180), got %v", c.Camera.FOV)
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera near/far must satisfy 0 < near < far")
	check(c.Controls.Damping >= 0 && c.Controls.Damping < 1, "controls.damping must be in [0, 1)")
	check(c.Controls.MinDistance > 0 && c.Controls.MaxDistance >= c.Controls.MinDistance,
		"controls distance range must satisfy 0 < min <= max")
	check(c.Scene.GridSize > 0 && c.Scene.GridDivisions > 0, "scene grid size and divisions must be positive")
	check(c.Scene.AxesSize > 0, "scene.axes_size must be positive")
	check(c.Overlay.Opacity >= 0 && c.Overlay.Opacity <= 1, "overlay.opacity must be in [0, 1]")
	check(c.Measure.MarkerRadius > 0, "measure.marker_radius must be positive")
	check(c.Measure.ResetDelayMS >= 0, "measure.reset_delay_ms must not be negative")
	check(c.Source.MaxBytes > 0, "source.max_bytes must be positive")
	check(c.Render.FPS > 0, "render.fps must be positive")
	check(c.Render.Width > 0 && c.Render.Height > 0, "render size must be positive")

	for name, value := range map[string]string{
		"scene.background": c.Scene.Background,
		"model.color":      c.Model.Color,
		"overlay.color":    c.Overlay.Color,
		"measure.color":    c.Measure.Color,
	} {
		if _, err := ParseColor(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

// ParseColor parses "#rrggbb" or "rrggbb" into an opaque color.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// MustColor is ParseColor for values that already passed Validate.
func MustColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
