package arbor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestMergeParamsOwnWins(t *testing.T) {
	inherited := ParameterSet{"a": 1, "b": 2}
	own := ParameterSet{"b": 3, "c": 4}

	merged := MergeParams(inherited, own)

	assert.Equal(t, ParameterSet{"a": 1, "b": 3, "c": 4}, merged)
	assert.Equal(t, ParameterSet{"a": 1, "b": 2}, inherited, "inherited untouched")
	assert.Equal(t, ParameterSet{"b": 3, "c": 4}, own, "own untouched")
}

func TestMergeParamsEmptyOwnReturnsInherited(t *testing.T) {
	inherited := ParameterSet{"a": 1}
	merged := MergeParams(inherited, nil)
	merged["extra"] = true
	assert.Equal(t, true, inherited["extra"], "same map expected when nothing is added")

	assert.Nil(t, MergeParams(nil, nil))
}

func TestMergeParamsEmptyInherited(t *testing.T) {
	own := ParameterSet{"a": 1}
	merged := MergeParams(nil, own)
	assert.Equal(t, own, merged)

	// Later edits to own must not reach a set already handed out.
	own["a"] = 2
	own["b"] = 3
	assert.Equal(t, ParameterSet{"a": 1}, merged)
}

func TestNodeSetParamDoesNotLeakIntoDrawnParams(t *testing.T) {
	n := NewNode("n")
	n.SetParam(ParamColor, ColorWhite)
	leaf := &recorder{}
	n.Add(leaf)

	drawRoot(n, nil)
	n.SetParam(ParamColor, Color{1, 0, 0})

	assert.Equal(t, ColorWhite, leaf.params[0][ParamColor])
}

func TestParameterSetTick(t *testing.T) {
	_, ok := ParameterSet{}.Tick()
	assert.False(t, ok)
	tick, ok := ParameterSet{ParamTick: 7}.Tick()
	assert.True(t, ok)
	assert.Equal(t, 7, tick)
}

func TestParameterSetWith(t *testing.T) {
	p := ParameterSet{"a": 1}
	q := p.With("a", 2)
	assert.Equal(t, 1, p["a"])
	assert.Equal(t, 2, q["a"])
}

func TestParameterSetFloat(t *testing.T) {
	p := ParameterSet{"f64": 1.5, "f32": float32(2.5), "int": 3, "str": "x"}

	for key, want := range map[string]float64{"f64": 1.5, "f32": 2.5, "int": 3} {
		got, ok := p.Float(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
	_, ok := p.Float("str")
	assert.False(t, ok)
	_, ok = p.Float("missing")
	assert.False(t, ok)
}

func TestParameterSetBoolAndVec3(t *testing.T) {
	p := ParameterSet{
		ParamWireframe: true,
		ParamLight:     mgl32.Vec3{1, 2, 3},
		ParamColor:     Color{0.5, 0.25, 1},
	}
	assert.True(t, p.Bool(ParamWireframe))
	assert.False(t, p.Bool("missing"))

	v, ok := p.Vec3(ParamLight)
	assert.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, v)

	v, ok = p.Vec3(ParamColor)
	assert.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0.5, 0.25, 1}, v)

	_, ok = p.Vec3(ParamWireframe)
	assert.False(t, ok)
}

func TestFrameContextAccessors(t *testing.T) {
	keys := NewKeyState()
	p := ParameterSet{ParamTime: 2.0, ParamDelta: 0.5, ParamInput: keys}

	assert.Equal(t, 2.0, p.Time())
	assert.Equal(t, 0.5, p.Delta())
	assert.Same(t, keys, p.Input())
	assert.Zero(t, ParameterSet{}.Delta())
}

func TestFrameContextAccessorsPanicWhenMissing(t *testing.T) {
	empty := ParameterSet{}
	assert.Panics(t, func() { empty.Time() })
	assert.Panics(t, func() { empty.Input() })
	assert.Panics(t, func() { empty.Target() })
	assert.Panics(t, func() { ParameterSet{ParamTime: "soon"}.Time() })
}
