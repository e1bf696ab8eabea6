package arbor

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// defaultRotationStep is the per-frame angle increment, in degrees.
const defaultRotationStep = 2

// tickCounter remembers the update tick a node last acted on, so input is
// applied once per tick however many times the frame is drawn.
type tickCounter struct {
	last int
	seen bool
}

// elapsed returns the number of ticks since the previous call: 0 for a
// repeat draw within one tick. Without a tick in params every call counts
// as one.
func (c *tickCounter) elapsed(params ParameterSet) int {
	tick, ok := params.Tick()
	if !ok {
		return 1
	}
	n := 1
	if c.seen && tick >= c.last {
		n = tick - c.last
	}
	c.last, c.seen = tick, true
	return n
}

// RotationControlNode rotates its subtree around Axis while KeyUp or KeyDown
// is held. Angle is the only state kept from one frame to the next.
type RotationControlNode struct {
	Node

	Axis  mgl32.Vec3
	Angle float32 // degrees

	// Step is added per update tick while a key is held.
	Step float32
	// Rate, when non-zero, replaces Step with Rate·dt degrees so the speed
	// does not depend on the tick rate.
	Rate float32

	KeyUp   ebiten.Key
	KeyDown ebiten.Key

	ticks tickCounter
}

// NewRotationControlNode creates a node rotating around axis, increasing
// the angle while keyUp is held and decreasing it while keyDown is held.
func NewRotationControlNode(name string, keyUp, keyDown ebiten.Key, axis mgl32.Vec3) *RotationControlNode {
	n := &RotationControlNode{
		Axis:    axis,
		Step:    defaultRotationStep,
		KeyUp:   keyUp,
		KeyDown: keyDown,
	}
	nodeDefaults(&n.Node, name)
	return n
}

// Draw updates the angle from the frame input, rebuilds the transform and
// draws the subtree. Panics when params carries no input.
func (n *RotationControlNode) Draw(projection, view, model mgl32.Mat4, shader *Shader, params ParameterSet) {
	in := params.Input()
	step := n.Step * float32(n.ticks.elapsed(params))
	if n.Rate != 0 {
		step = n.Rate * float32(params.Delta())
	}
	if in.IsKeyPressed(n.KeyUp) {
		n.Angle += step
	}
	if in.IsKeyPressed(n.KeyDown) {
		n.Angle -= step
	}
	n.Transform = Rotate(n.Axis, n.Angle)
	n.Node.Draw(projection, view, model, shader, params)
}

// KeyFrameControlNode places its subtree with a transform sampled from
// keyframes at the current frame time.
type KeyFrameControlNode struct {
	Node

	Sampler *TransformSampler

	// Offset is added to the frame time before sampling.
	Offset float64
	// Loop wraps the sampling time into [0, Sampler.Duration()).
	Loop bool
}

// NewKeyFrameControlNode creates an animated node driven by sampler.
func NewKeyFrameControlNode(name string, sampler *TransformSampler) *KeyFrameControlNode {
	if sampler == nil {
		panic("arbor: keyframe node needs a sampler")
	}
	n := &KeyFrameControlNode{Sampler: sampler}
	nodeDefaults(&n.Node, name)
	return n
}

// SampleTime maps a frame time to the time the sampler is queried at.
func (n *KeyFrameControlNode) SampleTime(frameTime float64) float64 {
	t := frameTime + n.Offset
	if n.Loop {
		if d := n.Sampler.Duration(); d > 0 {
			t = math.Mod(t, d)
			if t < 0 {
				t += d
			}
		}
	}
	return t
}

// Draw samples the transform for the frame time and draws the subtree.
// Panics when params carries no time.
func (n *KeyFrameControlNode) Draw(projection, view, model mgl32.Mat4, shader *Shader, params ParameterSet) {
	n.Transform = n.Sampler.Value(n.SampleTime(params.Time()))
	n.Node.Draw(projection, view, model, shader, params)
}
