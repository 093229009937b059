package camera

import (
	"math"
	"testing"

	"github.com/aegiscad/viewer/internal/config"
	"github.com/aegiscad/viewer/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRig(t *testing.T) (*Perspective, *OrbitControls, *Director) {
	t.Helper()
	cfg := config.Default()
	cam := NewPerspective(cfg.Camera.FOV, 4.0/3.0, cfg.Camera.Near, cfg.Camera.Far)
	controls := NewOrbitControls(cam, cfg.Controls, cfg.Render.FPS)
	return cam, controls, NewDirector(cam, controls)
}

func TestProjectAndUnprojectRoundTrip(t *testing.T) {
	cam, _, _ := newRig(t)
	cam.Position = geometry.NewVector3(0, 0, 10)
	cam.LookAt(geometry.Vector3{})

	sx, sy, depth, ok := cam.Project(geometry.Vector3{}, 800, 600)
	require.True(t, ok)
	assert.InDelta(t, 400, sx, 1e-9)
	assert.InDelta(t, 300, sy, 1e-9)
	assert.InDelta(t, 10, depth, 1e-9)

	p := geometry.NewVector3(1.5, -0.75, 2)
	sx, sy, _, ok = cam.Project(p, 800, 600)
	require.True(t, ok)

	ray := cam.Unproject(sx, sy, 800, 600)
	// the ray must pass through p
	along := p.Sub(ray.Origin).Dot(ray.Direction)
	assert.True(t, ray.At(along).ApproxEqual(p, 1e-9), "ray misses %v", p)
}

func TestProjectRejectsBehindCamera(t *testing.T) {
	cam, _, _ := newRig(t)
	cam.Position = geometry.NewVector3(0, 0, 10)
	cam.LookAt(geometry.Vector3{})

	_, _, _, ok := cam.Project(geometry.NewVector3(0, 0, 20), 800, 600)
	assert.False(t, ok)
}

func TestBasisLookingStraightDown(t *testing.T) {
	cam, _, _ := newRig(t)
	cam.Position = geometry.NewVector3(0, 10, 0)
	cam.LookAt(geometry.Vector3{})

	forward, right, up := cam.Basis()
	assert.True(t, forward.ApproxEqual(geometry.NewVector3(0, -1, 0), 1e-12))
	assert.True(t, right.ApproxEqual(geometry.NewVector3(1, 0, 0), 1e-12))
	assert.True(t, up.ApproxEqual(geometry.NewVector3(0, 0, -1), 1e-12))
}

func TestFitToModel(t *testing.T) {
	cam, controls, director := newRig(t)
	m := &Metrics{Size: geometry.NewVector3(4, 2, 6), Center: geometry.NewVector3(1, 1, 1)}

	require.InDelta(t, 12, m.Distance(), 1e-12)
	director.FitToModel(m)

	want := geometry.NewVector3(1+8.4, 1+8.4, 1+8.4)
	assert.True(t, cam.Position.ApproxEqual(want, 1e-6), "camera at %v", cam.Position)
	assert.True(t, controls.Target.ApproxEqual(geometry.NewVector3(1, 1, 1), 1e-12))
	assert.Equal(t, controls.Target, cam.Target())
}

func TestFitToCenteredModelIsAbsolute(t *testing.T) {
	cam, controls, director := newRig(t)
	director.FitToModel(&Metrics{Size: geometry.NewVector3(4, 2, 6)})

	assert.True(t, cam.Position.ApproxEqual(geometry.NewVector3(8.4, 8.4, 8.4), 1e-6), "camera at %v", cam.Position)
	assert.Equal(t, geometry.Vector3{}, controls.Target)
}

func TestFitWithoutMetrics(t *testing.T) {
	cam, controls, director := newRig(t)
	director.FitToModel(nil)

	assert.True(t, cam.Position.ApproxEqual(geometry.NewVector3(3.5, 3.5, 3.5), 1e-6))
	assert.Equal(t, geometry.Vector3{}, controls.Target)
}

func TestResetWithoutMetricsIsNoop(t *testing.T) {
	cam, _, director := newRig(t)
	cam.Position = geometry.NewVector3(1, 2, 30)
	director.Reset(nil)
	assert.Equal(t, geometry.NewVector3(1, 2, 30), cam.Position)

	director.Reset(&Metrics{Size: geometry.NewVector3(2, 2, 2)})
	assert.True(t, cam.Position.ApproxEqual(geometry.NewVector3(2.8, 2.8, 2.8), 1e-6))
}

func TestApplyPreset(t *testing.T) {
	m := &Metrics{Size: geometry.NewVector3(2, 3, 1), Center: geometry.Vector3{}}
	tests := []struct {
		preset Preset
		want   geometry.Vector3
	}{
		{PresetFront, geometry.NewVector3(0, 0, 6)},
		{PresetBack, geometry.NewVector3(0, 0, -6)},
		{PresetLeft, geometry.NewVector3(-6, 0, 0)},
		{PresetRight, geometry.NewVector3(6, 0, 0)},
		{PresetIsometric, geometry.NewVector3(4.2, 4.2, 4.2)},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cam, _, director := newRig(t)
			require.True(t, director.ApplyPreset(tt.preset, m))
			assert.True(t, cam.Position.ApproxEqual(tt.want, 1e-6), "camera at %v", cam.Position)
		})
	}
}

func TestApplyPresetTopStaysAbove(t *testing.T) {
	cam, _, director := newRig(t)
	require.True(t, director.ApplyPreset(PresetTop, &Metrics{Size: geometry.NewVector3(1, 1, 1)}))

	// the rig keeps the polar angle just off the pole
	assert.InDelta(t, 2, cam.Position.Length(), 1e-9)
	assert.InDelta(t, 2, cam.Position.Y, 1e-6)
}

func TestApplyUnknownPresetIsNoop(t *testing.T) {
	cam, _, director := newRig(t)
	before := cam.Position
	assert.False(t, director.ApplyPreset("diagonal", nil))
	assert.Equal(t, before, cam.Position)
}

func TestControlsClampDistance(t *testing.T) {
	cam, controls, director := newRig(t)
	director.FitToModel(&Metrics{Size: geometry.NewVector3(200, 10, 10)})

	assert.InDelta(t, 100, cam.Position.Length(), 1e-9)

	controls.Zoom(1000)
	controls.Update()
	assert.InDelta(t, 1, cam.Position.Length(), 1e-9)
}

func TestControlsDampedRotationSettles(t *testing.T) {
	cam, controls, _ := newRig(t)
	cam.Position = geometry.NewVector3(0, 0, 10)
	cam.LookAt(geometry.Vector3{})

	controls.Rotate(math.Pi/2, 0)
	controls.Update()
	assert.False(t, controls.Settled())
	assert.Less(t, math.Abs(cam.Position.X), 10.0)

	for i := 0; i < 600; i++ {
		controls.Update()
	}
	assert.True(t, controls.Settled())
	assert.True(t, cam.Position.ApproxEqual(geometry.NewVector3(10, 0, 0), 1e-6), "camera at %v", cam.Position)
}

func TestControlsWithoutDampingApplyImmediately(t *testing.T) {
	cfg := config.Default()
	cfg.Controls.Damping = 0
	cam := NewPerspective(60, 1, 0.1, 1000)
	cam.Position = geometry.NewVector3(0, 0, 10)
	controls := NewOrbitControls(cam, cfg.Controls, 60)

	controls.Rotate(-math.Pi/2, 0)
	controls.Update()
	assert.True(t, cam.Position.ApproxEqual(geometry.NewVector3(-10, 0, 0), 1e-9), "camera at %v", cam.Position)
	assert.True(t, controls.Settled())
}

func TestControlsDisposeIgnoresInput(t *testing.T) {
	cam, controls, _ := newRig(t)
	cam.Position = geometry.NewVector3(0, 0, 10)
	controls.Dispose()
	controls.Rotate(1, 1)
	controls.Update()

	assert.True(t, controls.Disposed())
	assert.Equal(t, geometry.NewVector3(0, 0, 10), cam.Position)
}
