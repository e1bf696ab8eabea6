package arbor

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// ParameterSet maps names to values broadcast from a node to every drawable
// below it. Lowercase keys carry frame context supplied by the render loop;
// capitalised keys are shader uniforms. A ParameterSet is treated as
// immutable once handed to Draw.
type ParameterSet map[string]any

// Frame context keys, filled by the Viewer for every frame.
const (
	ParamTarget    = "target"    // *ebiten.Image being rendered into
	ParamInput     = "input"     // Input for the current frame
	ParamTime      = "time"      // float64 seconds since start (or last reset)
	ParamDelta     = "dt"        // float64 animation seconds since the previous draw
	ParamTick      = "tick"      // int, update ticks run so far
	ParamWireframe = "wireframe" // bool, draw triangle edges only
)

// Uniform keys understood by the built-in shaders.
const (
	ParamColor      = "Color"      // vec3 base color
	ParamLight      = "Light"      // vec3 light direction
	ParamModel      = "Model"      // mat4, set per mesh
	ParamView       = "View"       // mat4, set per mesh
	ParamProjection = "Projection" // mat4, set per mesh
	ParamWrap       = "Wrap"       // float, WrapMode of the bound texture
	ParamLinear     = "Linear"     // float, 1 for bilinear filtering
)

// MergeParams returns inherited overlaid with own: on a key collision the
// value from own wins. When own is empty, inherited is returned as is;
// otherwise the result is a new map. Neither argument is modified.
func MergeParams(inherited, own ParameterSet) ParameterSet {
	if len(own) == 0 {
		return inherited
	}
	merged := make(ParameterSet, len(inherited)+len(own))
	for k, v := range inherited {
		merged[k] = v
	}
	for k, v := range own {
		merged[k] = v
	}
	return merged
}

// With returns a copy of p with key set to value.
func (p ParameterSet) With(key string, value any) ParameterSet {
	return MergeParams(p, ParameterSet{key: value})
}

// Float returns the value at key as a float64. ok is false when the key is
// missing or holds a non-numeric value.
func (p ParameterSet) Float(key string) (v float64, ok bool) {
	switch x := p[key].(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	}
	return 0, false
}

// Bool returns the value at key, or false when missing.
func (p ParameterSet) Bool(key string) bool {
	b, _ := p[key].(bool)
	return b
}

// Vec3 returns the value at key as a vector. Color values are converted.
func (p ParameterSet) Vec3(key string) (mgl32.Vec3, bool) {
	switch x := p[key].(type) {
	case mgl32.Vec3:
		return x, true
	case Color:
		return x.Vec3(), true
	}
	return mgl32.Vec3{}, false
}

// Time returns the frame time. Panics when the render loop did not supply
// one: every animated node relies on it.
func (p ParameterSet) Time() float64 {
	t, ok := p.Float(ParamTime)
	if !ok {
		panic("arbor: frame parameters carry no time")
	}
	return t
}

// Delta returns the time elapsed since the previous frame, or 0.
func (p ParameterSet) Delta() float64 {
	dt, _ := p.Float(ParamDelta)
	return dt
}

// Tick returns the update tick the frame was drawn after. ok is false when
// the caller did not supply one, e.g. a Draw outside the Viewer.
func (p ParameterSet) Tick() (tick int, ok bool) {
	tick, ok = p[ParamTick].(int)
	return tick, ok
}

// Input returns the frame input. Panics when absent.
func (p ParameterSet) Input() Input {
	in, _ := p[ParamInput].(Input)
	if in == nil {
		panic("arbor: frame parameters carry no input")
	}
	return in
}

// Target returns the image being rendered into. Panics when absent.
func (p ParameterSet) Target() *ebiten.Image {
	img, _ := p[ParamTarget].(*ebiten.Image)
	if img == nil {
		panic("arbor: frame parameters carry no render target")
	}
	return img
}
