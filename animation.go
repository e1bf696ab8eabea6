package arbor

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Pose is a transform kept as separate components so each can be animated.
type Pose struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// IdentityPose is the pose of an untransformed node.
func IdentityPose() Pose {
	return Pose{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix composes the pose as T · R · S.
func (p Pose) Matrix() mgl32.Mat4 {
	return Compose(p.Translation, p.Rotation, p.Scale)
}

// TweenGroup animates up to 3 float32 fields of a TweenNode's pose at once.
// Create one with TweenTranslation, TweenScale or TweenRotation, then hand
// it to TweenNode.Animate or call Update(dt) yourself.
type TweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	fields [3]*float32
	// apply, when set, receives the tween values instead of fields.
	apply func(vals [3]float32)
	Done  bool
}

// Update advances all tweens by dt seconds and writes the values.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	var vals [3]float32
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = val
		if g.fields[i] != nil {
			*g.fields[i] = val
		}
		if !finished {
			allDone = false
		}
	}
	if g.apply != nil {
		g.apply(vals)
	}
	g.Done = allDone
}

// TweenTranslation animates node's translation to `to` over duration seconds.
func TweenTranslation(node *TweenNode, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(&node.Pose.Translation, to, duration, fn)
}

// TweenScale animates node's scale to `to` over duration seconds.
func TweenScale(node *TweenNode, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(&node.Pose.Scale, to, duration, fn)
}

func tweenVec3(v *mgl32.Vec3, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(v[i], to[i], duration, fn)
		g.fields[i] = &v[i]
	}
	return g
}

// TweenRotation animates node's rotation to `to` along the shortest arc.
// The easing shapes the blend fraction.
func TweenRotation(node *TweenNode, to mgl32.Quat, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := node.Pose.Rotation
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(0, 1, duration, fn)
	g.apply = func(vals [3]float32) {
		node.Pose.Rotation = Slerp(from, to, float64(vals[0]))
	}
	return g
}

// TweenNode is a node whose transform is rebuilt every frame from Pose,
// after advancing the tween groups registered with Animate by the frame
// delta.
type TweenNode struct {
	Node
	Pose Pose

	groups []*TweenGroup
}

// NewTweenNode creates a tween-driven node at the identity pose.
func NewTweenNode(name string) *TweenNode {
	n := &TweenNode{Pose: IdentityPose()}
	nodeDefaults(&n.Node, name)
	return n
}

// Animate registers g to be advanced on every draw until it is done.
func (n *TweenNode) Animate(g *TweenGroup) {
	n.groups = append(n.groups, g)
}

// Animating reports whether any registered group is still running.
func (n *TweenNode) Animating() bool {
	return len(n.groups) > 0
}

// Draw advances the tweens, rebuilds the transform and draws the subtree.
func (n *TweenNode) Draw(projection, view, model mgl32.Mat4, shader *Shader, params ParameterSet) {
	dt := float32(params.Delta())
	live := n.groups[:0]
	for _, g := range n.groups {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	for i := len(live); i < len(n.groups); i++ {
		n.groups[i] = nil
	}
	n.groups = live
	n.Transform = n.Pose.Matrix()
	n.Node.Draw(projection, view, model, shader, params)
}
