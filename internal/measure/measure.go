// Package measure implements two-point distance picking on the model.
package measure

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aegiscad/viewer/internal/logx"
	"github.com/aegiscad/viewer/internal/scene"
	"github.com/aegiscad/viewer/pkg/geometry"
)

// Scene names of measurement objects.
const (
	MarkerPrefix = "measurement-marker-"
	LineName     = "measurement-line"
)

// maxPoints is the session length that completes a measurement.
const maxPoints = 2

// Result is a published measurement.
type Result struct {
	Distance float64 `json:"distance"`
	Unit     string  `json:"unit"`
}

// Text formats the distance with two decimals.
func (r Result) Text() string {
	return fmt.Sprintf("%.2f", r.Distance)
}

func (r Result) String() string {
	return fmt.Sprintf("Distance: %s %s", r.Text(), r.Unit)
}

// Stage is the part of the scene host the tool draws into.
type Stage interface {
	Model() *scene.Object
	AddObject(o *scene.Object)
	RemoveObject(o *scene.Object)
}

// RayCaster turns normalized device coordinates into a world ray.
type RayCaster interface {
	RayFromNDC(x, y float64) geometry.Ray
}

// Rect is the on-screen rectangle of the render surface.
type Rect struct {
	Left, Top, Width, Height float64
}

// Options style the tool.
type Options struct {
	Color        color.RGBA
	MarkerRadius float64
	ResetDelay   time.Duration
	Unit         string
}

// Tool is the measurement session. All methods run on the viewer thread.
type Tool struct {
	stage  Stage
	caster RayCaster
	clock  clockwork.Clock
	post   func(func())
	opts   Options

	active  bool
	points  []geometry.Vector3
	markers []*scene.Object
	line    *scene.Object
	result  *Result

	timer clockwork.Timer
	epoch uint64

	// OnChange is called whenever the published result changes.
	OnChange func(*Result)
}

// New creates an inactive tool. post must run a function on the viewer
// thread; the delayed reset is delivered through it.
func New(stage Stage, caster RayCaster, clk clockwork.Clock, post func(func()), opts Options) *Tool {
	return &Tool{stage: stage, caster: caster, clock: clk, post: post, opts: opts}
}

// Active reports whether clicks are being picked.
func (t *Tool) Active() bool { return t.active }

// SetActive enables or disables picking. Disabling clears the session at once.
func (t *Tool) SetActive(active bool) {
	if active == t.active {
		return
	}
	t.active = active
	if !active {
		t.Reset()
	}
}

// Points returns a copy of the picked points.
func (t *Tool) Points() []geometry.Vector3 {
	return append([]geometry.Vector3(nil), t.points...)
}

// Result returns the published measurement, nil when none.
func (t *Tool) Result() *Result {
	if t.result == nil {
		return nil
	}
	r := *t.result
	return &r
}

// ResetPending reports whether an automatic reset is scheduled.
func (t *Tool) ResetPending() bool { return t.timer != nil }

// HandleClick picks at client coordinates inside rect.
// It reports whether a point was recorded.
func (t *Tool) HandleClick(clientX, clientY float64, rect Rect) bool {
	if rect.Width <= 0 || rect.Height <= 0 {
		return false
	}
	x := (clientX-rect.Left)/rect.Width*2 - 1
	y := -(clientY-rect.Top)/rect.Height*2 + 1
	return t.Pick(x, y)
}

// Pick casts a ray through normalized device coordinates and records the
// nearest hit on the model. Misses are ignored, as are picks while inactive
// or while a completed measurement is still shown.
func (t *Tool) Pick(x, y float64) bool {
	if !t.active || len(t.points) >= maxPoints {
		return false
	}
	model := t.stage.Model()
	if model == nil {
		return false
	}

	hit, ok := model.Raycast(t.caster.RayFromNDC(x, y))
	if !ok {
		return false
	}
	t.addPoint(hit.Point)
	return true
}

func (t *Tool) addPoint(p geometry.Vector3) {
	marker := scene.NewMarker(fmt.Sprintf("%s%d", MarkerPrefix, len(t.points)), p, t.opts.MarkerRadius, t.opts.Color)
	t.stage.AddObject(marker)
	t.markers = append(t.markers, marker)
	t.points = append(t.points, p)

	if len(t.points) < maxPoints {
		return
	}

	t.line = scene.NewLine(LineName, t.points[0], t.points[1], t.opts.Color)
	t.stage.AddObject(t.line)

	distance := math.Round(t.points[0].Distance(t.points[1])*100) / 100
	t.publish(&Result{Distance: distance, Unit: t.opts.Unit})
	logx.Logger().Info("measurement completed", "distance", distance, "unit", t.opts.Unit)

	t.scheduleReset()
}

func (t *Tool) scheduleReset() {
	t.cancelTimer()
	epoch := t.epoch
	t.timer = t.clock.AfterFunc(t.opts.ResetDelay, func() {
		t.post(func() {
			// A newer session may have started since the timer fired.
			if epoch == t.epoch {
				t.Reset()
			}
		})
	})
}

func (t *Tool) cancelTimer() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Reset removes markers and line, clears the points and the published
// result, and cancels a pending automatic reset.
func (t *Tool) Reset() {
	t.epoch++
	t.cancelTimer()

	for _, m := range t.markers {
		t.stage.RemoveObject(m)
	}
	if t.line != nil {
		t.stage.RemoveObject(t.line)
	}
	t.markers = nil
	t.line = nil
	t.points = nil
	t.publish(nil)
}

func (t *Tool) publish(r *Result) {
	if t.result == nil && r == nil {
		return
	}
	t.result = r
	if t.OnChange != nil {
		t.OnChange(t.Result())
	}
}
