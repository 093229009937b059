package camera

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/aegiscad/viewer/internal/config"
	"github.com/aegiscad/viewer/pkg/geometry"
)

const polarEpsilon = 1e-6

// axis eases a value towards an accumulated goal. With a spring it moves a
// little every frame; without one it jumps.
type axis struct {
	pos, vel, goal float64
	spring         *harmonica.Spring
}

func (a *axis) push(delta float64) { a.goal += delta }

// step advances one frame and returns how far the value moved.
func (a *axis) step() float64 {
	if a.spring == nil {
		d := a.goal - a.pos
		a.pos, a.goal, a.vel = 0, 0, 0
		return d
	}

	prev := a.pos
	a.pos, a.vel = a.spring.Update(a.pos, a.vel, a.goal)
	d := a.pos - prev
	if math.Abs(a.goal-a.pos) < 1e-12 && math.Abs(a.vel) < 1e-12 {
		d += a.goal - a.pos
		a.pos, a.goal, a.vel = 0, 0, 0
	}
	return d
}

func (a *axis) stop()         { a.pos, a.goal, a.vel = 0, 0, 0 }
func (a *axis) settled() bool { return a.pos == a.goal && a.vel == 0 }

// OrbitControls rotates, zooms and pans a camera around a target.
// Input accumulates as goals; Update integrates them each frame.
type OrbitControls struct {
	Target      geometry.Vector3
	MinDistance float64
	MaxDistance float64
	RotateSpeed float64
	ZoomSpeed   float64

	camera *Perspective
	theta  axis
	phi    axis
	pan    [3]axis
	scale  float64

	disposed bool
}

// NewOrbitControls binds a control rig to cam. A damping factor of d per
// frame at fps is mapped to a critically damped spring with angular
// frequency -2·ln(1-d)·fps, which settles on the same time scale.
func NewOrbitControls(cam *Perspective, cfg config.ControlsConfig, fps int) *OrbitControls {
	c := &OrbitControls{
		Target:      cam.Target(),
		MinDistance: cfg.MinDistance,
		MaxDistance: cfg.MaxDistance,
		RotateSpeed: cfg.RotateSpeed,
		ZoomSpeed:   cfg.ZoomSpeed,
		camera:      cam,
		scale:       1,
	}

	if cfg.Damping > 0 && fps > 0 {
		freq := -2 * math.Log(1-cfg.Damping) * float64(fps)
		spring := harmonica.NewSpring(harmonica.FPS(fps), freq, 1.0)
		for _, a := range c.axes() {
			a.spring = &spring
		}
	}
	return c
}

func (c *OrbitControls) axes() []*axis {
	return []*axis{&c.theta, &c.phi, &c.pan[0], &c.pan[1], &c.pan[2]}
}

// Rotate orbits by the given azimuth and polar angles in radians.
func (c *OrbitControls) Rotate(dTheta, dPhi float64) {
	if c.disposed {
		return
	}
	c.theta.push(dTheta * c.RotateSpeed)
	c.phi.push(dPhi * c.RotateSpeed)
}

// Drag orbits by a pointer movement of dx, dy pixels on a surface of the
// given height. A drag across the full height turns a full circle.
func (c *OrbitControls) Drag(dx, dy, height float64) {
	if height <= 0 {
		return
	}
	c.Rotate(-2*math.Pi*dx/height, -2*math.Pi*dy/height)
}

// Zoom dollies by steps wheel notches; positive steps move closer.
func (c *OrbitControls) Zoom(steps float64) {
	if c.disposed {
		return
	}
	c.scale *= math.Pow(0.95, c.ZoomSpeed*steps)
}

// Pan shifts the target by a pointer movement of dx, dy pixels.
func (c *OrbitControls) Pan(dx, dy, height float64) {
	if c.disposed || height <= 0 {
		return
	}
	_, right, up := c.camera.Basis()
	dist := c.camera.Position.Distance(c.Target) * c.camera.tanHalfFOV()
	move := right.Mul(-2 * dx * dist / height).Add(up.Mul(2 * dy * dist / height))
	c.pan[0].push(move.X)
	c.pan[1].push(move.Y)
	c.pan[2].push(move.Z)
}

// Stop discards pending motion.
func (c *OrbitControls) Stop() {
	for _, a := range c.axes() {
		a.stop()
	}
	c.scale = 1
}

// Settled reports whether no motion is pending.
func (c *OrbitControls) Settled() bool {
	for _, a := range c.axes() {
		if !a.settled() {
			return false
		}
	}
	return c.scale == 1
}

// Update advances one frame: applies pending motion, clamps the distance
// to [MinDistance, MaxDistance] and re-aims the camera at the target.
func (c *OrbitControls) Update() {
	if c.disposed {
		return
	}

	offset := c.camera.Position.Sub(c.Target)
	radius := offset.Length()
	theta := math.Atan2(offset.X, offset.Z)
	phi := 0.0
	if radius > 0 {
		phi = math.Acos(math.Max(-1, math.Min(1, offset.Y/radius)))
	}

	theta += c.theta.step()
	phi += c.phi.step()
	phi = math.Max(polarEpsilon, math.Min(math.Pi-polarEpsilon, phi))

	radius *= c.scale
	c.scale = 1
	radius = math.Max(c.MinDistance, math.Min(c.MaxDistance, radius))

	c.Target = c.Target.Add(geometry.NewVector3(c.pan[0].step(), c.pan[1].step(), c.pan[2].step()))

	sinPhi := math.Sin(phi)
	c.camera.Position = c.Target.Add(geometry.NewVector3(
		radius*sinPhi*math.Sin(theta),
		radius*math.Cos(phi),
		radius*sinPhi*math.Cos(theta),
	))
	c.camera.LookAt(c.Target)
}

// Dispose detaches the rig; later input and updates are ignored.
func (c *OrbitControls) Dispose() {
	c.Stop()
	c.disposed = true
}

// Disposed reports whether Dispose was called.
func (c *OrbitControls) Disposed() bool { return c.disposed }
