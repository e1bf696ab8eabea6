package arbor

import (
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

// defaultLineWidth is the screen-space width of line primitives, in pixels.
const defaultLineWidth = 2

// nearW is the smallest clip-space w a vertex may have and still be drawn.
const nearW = 1e-5

// Mesh is a leaf drawable holding a validated VertexArray. Each draw projects
// the vertices on the CPU with projection · view · model, sorts the
// primitives back to front and submits them with the current shader in one
// DrawTrianglesShader32 call.
//
// A Mesh may be shared by any number of nodes; it keeps no per-parent state.
type Mesh struct {
	Name      string
	Primitive Primitive

	// Params are merged over the inherited parameters for this mesh only.
	Params ParameterSet

	// Texture is bound as the shader's first image. A disabled texture is
	// replaced by a white pixel.
	Texture *Texture

	// LineWidth is the width of line primitives and wireframe edges in pixels.
	LineWidth float32

	va *VertexArray

	// Scratch buffers, grown to a high-water mark and reused every draw.
	projected []projectedVertex
	verts     []ebiten.Vertex
	indices   []uint32
	prims     []depthPrim
}

// NewMesh validates va and checks that its element count fits the
// primitive: a multiple of 3 for triangles, of 2 for lines.
func NewMesh(name string, va *VertexArray, prim Primitive) (*Mesh, error) {
	if va == nil {
		return nil, errors.Errorf("mesh %q: nil vertex array", name)
	}
	if err := va.Validate(); err != nil {
		return nil, errors.Wrapf(err, "mesh %q", name)
	}
	var per int
	switch prim {
	case PrimitiveTriangles:
		per = 3
	case PrimitiveLines:
		per = 2
	default:
		return nil, errors.Errorf("mesh %q: unknown primitive %d", name, prim)
	}
	if c := va.ElementCount(); c%per != 0 {
		return nil, errors.Errorf("mesh %q: %d elements is not a multiple of %d for %s", name, c, per, prim)
	}
	return &Mesh{Name: name, Primitive: prim, LineWidth: defaultLineWidth, va: va}, nil
}

// MustMesh is NewMesh that panics on error. Meant for geometry built in code.
func MustMesh(name string, va *VertexArray, prim Primitive) *Mesh {
	m, err := NewMesh(name, va, prim)
	if err != nil {
		panic("arbor: " + err.Error())
	}
	return m
}

// VertexArray returns the mesh geometry.
func (m *Mesh) VertexArray() *VertexArray {
	return m.va
}

// SetParam sets one of the mesh's own parameters.
func (m *Mesh) SetParam(key string, value any) {
	if m.Params == nil {
		m.Params = make(ParameterSet, 1)
	}
	m.Params[key] = value
}

// projectedVertex is a vertex after projection to screen space.
type projectedVertex struct {
	X, Y    float32
	Depth   float32 // normalised device z, larger is farther
	Visible bool
	Normal  mgl32.Vec3 // world space
}

// depthPrim is one triangle ready for submission with its sort depth.
type depthPrim struct {
	depth float32
	i     [3]uint32
}

// ProjectPoint maps p through mvp to screen coordinates of a width×height
// target, with y pointing down. ok is false when p lies behind the eye.
func ProjectPoint(mvp mgl32.Mat4, p mgl32.Vec3, width, height int) (x, y, depth float32, ok bool) {
	clip := mvp.Mul4x1(p.Vec4(1))
	if clip.W() <= nearW {
		return 0, 0, 0, false
	}
	inv := 1 / clip.W()
	nx, ny, nz := clip.X()*inv, clip.Y()*inv, clip.Z()*inv
	x = (nx + 1) * 0.5 * float32(width)
	y = (1 - ny) * 0.5 * float32(height)
	return x, y, nz, true
}

// projectVertices projects every vertex of va into dst, reusing its storage.
func projectVertices(dst []projectedVertex, va *VertexArray, mvp, model mgl32.Mat4, width, height int) []projectedVertex {
	n := va.Len()
	if cap(dst) < n {
		dst = make([]projectedVertex, n)
	}
	dst = dst[:n]
	var normalMat mgl32.Mat3
	if va.Normals != nil {
		normalMat = NormalMatrix(model)
	}
	for i, p := range va.Positions {
		pv := &dst[i]
		pv.X, pv.Y, pv.Depth, pv.Visible = ProjectPoint(mvp, p, width, height)
		pv.Normal = mgl32.Vec3{}
		if va.Normals != nil {
			pv.Normal = normalMat.Mul3x1(va.Normals[i])
		}
	}
	return dst
}

// Draw projects and submits the mesh. Panics when params carries no render
// target. Nothing is drawn with a nil or disabled shader.
func (m *Mesh) Draw(projection, view, model mgl32.Mat4, shader *Shader, params ParameterSet) {
	target := params.Target()
	if !shader.Enabled() {
		return
	}
	params = MergeParams(params, m.Params)
	bounds := target.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mvp := projection.Mul4(view).Mul4(model)
	m.projected = projectVertices(m.projected, m.va, mvp, model, w, h)

	var img *ebiten.Image
	if m.Texture != nil {
		img = m.Texture.source()
	}
	m.buildVertices(img)

	m.prims = m.prims[:0]
	culled := 0
	lineWidth := m.LineWidth
	if lineWidth <= 0 {
		lineWidth = defaultLineWidth
	}
	switch {
	case m.Primitive == PrimitiveLines:
		for e := 0; e+1 < m.va.ElementCount(); e += 2 {
			if !m.addLine(m.va.Element(e), m.va.Element(e+1), lineWidth) {
				culled++
			}
		}
	case params.Bool(ParamWireframe):
		for e := 0; e+2 < m.va.ElementCount(); e += 3 {
			a, b, c := m.va.Element(e), m.va.Element(e+1), m.va.Element(e+2)
			ok := m.addLine(a, b, lineWidth)
			ok = m.addLine(b, c, lineWidth) && ok
			ok = m.addLine(c, a, lineWidth) && ok
			if !ok {
				culled++
			}
		}
	default:
		for e := 0; e+2 < m.va.ElementCount(); e += 3 {
			if !m.addTriangle(m.va.Element(e), m.va.Element(e+1), m.va.Element(e+2)) {
				culled++
			}
		}
	}
	if len(m.prims) == 0 {
		frameStats.countDraw(0, culled)
		return
	}

	// Painter's algorithm: ebiten has no depth buffer.
	sort.SliceStable(m.prims, func(i, j int) bool { return m.prims[i].depth > m.prims[j].depth })
	m.indices = m.indices[:0]
	for _, p := range m.prims {
		m.indices = append(m.indices, p.i[0], p.i[1], p.i[2])
	}

	// Matrices and UseVertexColor always come from the draw; Color, Wrap and
	// Linear are defaults that params override.
	auto := map[string]any{
		ParamModel:      model,
		ParamView:       view,
		ParamProjection: projection,
	}
	if _, set := params[ParamColor]; !set {
		auto[ParamColor] = ColorWhite
	}
	if m.va.Colors != nil {
		auto["UseVertexColor"] = float32(1)
	} else {
		auto["UseVertexColor"] = float32(0)
	}
	if m.Texture != nil {
		if _, set := params[ParamWrap]; !set {
			auto[ParamWrap] = m.Texture.Wrap
		}
		if _, set := params[ParamLinear]; !set {
			auto[ParamLinear] = m.Texture.Filter == FilterLinear
		}
	}
	op := &ebiten.DrawTrianglesShaderOptions{Uniforms: shader.uniformValues(params, auto)}
	op.Images[0] = img
	target.DrawTrianglesShader32(m.verts, m.indices, shader.shader, op)
	frameStats.countDraw(len(m.prims), culled)
}

// buildVertices writes one ebiten vertex per source vertex. Line quads are
// appended after these by addLine.
func (m *Mesh) buildVertices(img *ebiten.Image) {
	n := len(m.projected)
	if cap(m.verts) < n {
		m.verts = make([]ebiten.Vertex, n, n*2)
	}
	m.verts = m.verts[:n]
	var tw, th float32
	if img != nil {
		b := img.Bounds()
		tw, th = float32(b.Dx()), float32(b.Dy())
	}
	for i := range m.projected {
		pv := &m.projected[i]
		v := ebiten.Vertex{
			DstX: pv.X, DstY: pv.Y,
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
			Custom0: pv.Normal[0], Custom1: pv.Normal[1], Custom2: pv.Normal[2],
		}
		if m.va.Colors != nil {
			c := m.va.Colors[i]
			v.ColorR, v.ColorG, v.ColorB = c[0], c[1], c[2]
		}
		if m.va.UVs != nil && img != nil {
			uv := m.va.UVs[i]
			// UV origin is bottom-left; image rows grow downwards.
			v.SrcX = uv[0] * tw
			v.SrcY = (1 - uv[1]) * th
		}
		m.verts[i] = v
	}
}

func (m *Mesh) addTriangle(a, b, c int) bool {
	pa, pb, pc := &m.projected[a], &m.projected[b], &m.projected[c]
	if !pa.Visible || !pb.Visible || !pc.Visible {
		return false
	}
	m.prims = append(m.prims, depthPrim{
		depth: (pa.Depth + pb.Depth + pc.Depth) / 3,
		i:     [3]uint32{uint32(a), uint32(b), uint32(c)},
	})
	return true
}

// addLine expands the segment a-b into a screen-space quad of the given
// width made of two triangles.
func (m *Mesh) addLine(a, b int, width float32) bool {
	pa, pb := &m.projected[a], &m.projected[b]
	if !pa.Visible || !pb.Visible {
		return false
	}
	d := mgl32.Vec2{pb.X - pa.X, pb.Y - pa.Y}
	l := d.Len()
	if l == 0 {
		return true
	}
	off := mgl32.Vec2{-d[1], d[0]}.Mul(width / 2 / l)

	base := uint32(len(m.verts))
	va, vb := m.verts[a], m.verts[b]
	for _, src := range [4]struct {
		v    ebiten.Vertex
		sign float32
	}{{va, 1}, {va, -1}, {vb, -1}, {vb, 1}} {
		v := src.v
		v.DstX += off[0] * src.sign
		v.DstY += off[1] * src.sign
		v.Custom0, v.Custom1, v.Custom2 = 0, 0, 0
		m.verts = append(m.verts, v)
	}
	depth := (pa.Depth + pb.Depth) / 2
	m.prims = append(m.prims,
		depthPrim{depth: depth, i: [3]uint32{base, base + 1, base + 2}},
		depthPrim{depth: depth, i: [3]uint32{base, base + 2, base + 3}})
	return true
}

// --- White pixel singleton (no sync.Once, single goroutine) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
// Used in place of textures that failed to load.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
