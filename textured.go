package arbor

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// TexturedPlane is a textured square drawn with TextureShader. F6 cycles the
// wrap mode and F7 toggles the filter.
type TexturedPlane struct {
	Mesh *Mesh

	WrapKey   ebiten.Key
	FilterKey ebiten.Key

	ticks tickCounter
}

// NewTexturedPlane builds a plane of half-size size with texture coordinates
// spanning [-tiles, tiles], so the wrap mode is visible around the centre.
func NewTexturedPlane(tex *Texture, size, tiles float32) *TexturedPlane {
	m := Plane(size, tiles)
	m.Texture = tex
	return &TexturedPlane{Mesh: m, WrapKey: ebiten.KeyF6, FilterKey: ebiten.KeyF7}
}

// Texture returns the bound texture.
func (p *TexturedPlane) Texture() *Texture {
	return p.Mesh.Texture
}

// Draw handles the mode keys and draws the plane with the texture shader,
// whatever shader is inherited. Panics when params carries no input.
func (p *TexturedPlane) Draw(projection, view, model mgl32.Mat4, _ *Shader, params ParameterSet) {
	in := params.Input()
	tex := p.Mesh.Texture
	if tex != nil && p.ticks.elapsed(params) > 0 {
		if in.IsKeyJustPressed(p.WrapKey) {
			logger.Info("texture wrap", "texture", tex.Name, "mode", tex.CycleWrap())
		}
		if in.IsKeyJustPressed(p.FilterKey) {
			logger.Info("texture filter", "texture", tex.Name, "mode", tex.CycleFilter())
		}
	}
	p.Mesh.Draw(projection, view, model, TextureShader(), params)
}
