package arbor

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// maxPitch keeps the eye off the poles, where LookAt's up vector degenerates.
const maxPitch = 89

// trackballPose is the animatable part of the camera.
type trackballPose struct {
	target               mgl32.Vec3
	distance, pitch, yaw float32
}

// resetAnim holds the tweens of an in-flight ResetView. Index order:
// distance, pitch, yaw, target x, y, z.
type resetAnim struct {
	tweens [6]*gween.Tween
	done   [6]bool
}

// Trackball orbits the eye around Target. Left drag rotates, right drag pans
// and the wheel zooms.
type Trackball struct {
	// Target is the world-space point the camera looks at.
	Target mgl32.Vec3
	// Distance from the eye to Target.
	Distance float32
	// Pitch and Yaw in degrees. Pitch is clamped to ±89.
	Pitch, Yaw float32

	// Fov is the vertical field of view in degrees.
	Fov       float32
	Near, Far float32

	MinDistance, MaxDistance float32

	// RotateSpeed is degrees per dragged pixel.
	RotateSpeed float32
	// PanSpeed is world units per dragged pixel, per unit of distance.
	PanSpeed float32
	// ZoomFactor scales Distance per wheel step.
	ZoomFactor float32

	home     trackballPose
	lastX    int
	lastY    int
	dragging bool
	reset    *resetAnim
}

// NewTrackball creates a camera and records its pose as the home view.
func NewTrackball(target mgl32.Vec3, distance, pitch, yaw float32) *Trackball {
	c := &Trackball{
		Target:      target,
		Distance:    distance,
		Pitch:       pitch,
		Yaw:         yaw,
		Fov:         45,
		Near:        0.1,
		Far:         100,
		MinDistance: 0.5,
		MaxDistance: 80,
		RotateSpeed: 0.4,
		PanSpeed:    0.002,
		ZoomFactor:  0.9,
	}
	c.SetHome()
	return c
}

// SetHome records the current pose as the one ResetView returns to.
func (c *Trackball) SetHome() {
	c.home = trackballPose{target: c.Target, distance: c.Distance, pitch: c.Pitch, yaw: c.Yaw}
}

// Position returns the eye position in world space.
func (c *Trackball) Position() mgl32.Vec3 {
	pitch := mgl32.DegToRad(c.Pitch)
	yaw := mgl32.DegToRad(c.Yaw)
	return mgl32.Vec3{
		c.Distance * math32.Cos(pitch) * math32.Sin(yaw),
		c.Distance * math32.Sin(pitch),
		c.Distance * math32.Cos(pitch) * math32.Cos(yaw),
	}.Add(c.Target)
}

// ViewMatrix returns the world-to-eye transform.
func (c *Trackball) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection for a width×height
// target.
func (c *Trackball) ProjectionMatrix(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), aspect, c.Near, c.Far)
}

// Orbit rotates the eye around Target by the given angles in degrees.
func (c *Trackball) Orbit(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch = clampf(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Pan moves Target in the view plane by a screen-space delta in pixels.
func (c *Trackball) Pan(dx, dy float32) {
	view := c.ViewMatrix()
	right := mgl32.Vec3{view[0], view[4], view[8]}
	up := mgl32.Vec3{view[1], view[5], view[9]}
	scale := c.PanSpeed * c.Distance
	c.Target = c.Target.Sub(right.Mul(dx * scale)).Add(up.Mul(dy * scale))
}

// Zoom moves the eye toward Target for positive steps and away for
// negative ones.
func (c *Trackball) Zoom(steps float32) {
	c.Distance = clampf(c.Distance*math32.Pow(c.ZoomFactor, steps), c.MinDistance, c.MaxDistance)
}

// ResetView animates back to the home pose over duration seconds.
func (c *Trackball) ResetView(duration float32, fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.InOutQuad
	}
	h := c.home
	from := [6]float32{c.Distance, c.Pitch, c.Yaw, c.Target[0], c.Target[1], c.Target[2]}
	to := [6]float32{h.distance, h.pitch, h.yaw, h.target[0], h.target[1], h.target[2]}
	a := &resetAnim{}
	for i := range a.tweens {
		a.tweens[i] = gween.New(from[i], to[i], duration, fn)
	}
	c.reset = a
}

// Resetting reports whether a ResetView animation is running.
func (c *Trackball) Resetting() bool {
	return c.reset != nil
}

// Update applies mouse input and advances a running reset by dt seconds.
// Input is ignored while resetting.
func (c *Trackball) Update(in Input, dt float32) {
	x, y := in.CursorPosition()
	if c.reset != nil {
		c.updateReset(dt)
		c.lastX, c.lastY = x, y
		return
	}

	left := in.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := in.IsMouseButtonPressed(ebiten.MouseButtonRight)
	if (left || right) && c.dragging {
		dx, dy := float32(x-c.lastX), float32(y-c.lastY)
		if left {
			c.Orbit(-dx*c.RotateSpeed, dy*c.RotateSpeed)
		} else {
			c.Pan(dx, dy)
		}
	}
	c.dragging = left || right
	c.lastX, c.lastY = x, y

	if _, wy := in.Wheel(); wy != 0 {
		c.Zoom(float32(wy))
	}
}

func (c *Trackball) updateReset(dt float32) {
	a := c.reset
	vals := [6]*float32{&c.Distance, &c.Pitch, &c.Yaw, &c.Target[0], &c.Target[1], &c.Target[2]}
	finished := true
	for i, tw := range a.tweens {
		if a.done[i] {
			continue
		}
		v, done := tw.Update(dt)
		*vals[i] = v
		a.done[i] = done
		finished = finished && done
	}
	if finished {
		c.reset = nil
	}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
