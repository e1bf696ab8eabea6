package arbor

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// --- Triangle ---

// Triangle returns a single RGB triangle in the z = 0 plane.
func Triangle() *Mesh {
	return MustMesh("triangle", &VertexArray{
		Positions: []mgl32.Vec3{{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0, 0.5, 0}},
		Colors:    []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	}, PrimitiveTriangles)
}

// --- Pyramid ---

// pyramidVertices is an apex at (0, 1, 0) over a unit square base at y = 0.
// The base itself is open.
func pyramidVertices() *VertexArray {
	return &VertexArray{
		Positions: []mgl32.Vec3{{0, 1, 0}, {-0.5, 0, 0.5}, {0.5, 0, 0.5}, {0.5, 0, -0.5}, {-0.5, 0, -0.5}},
		Indices:   []uint16{0, 1, 2, 0, 2, 3, 0, 3, 4, 0, 4, 1},
	}
}

// Pyramid returns a four-sided pyramid drawn with the inherited Color.
func Pyramid() *Mesh {
	return MustMesh("pyramid", pyramidVertices(), PrimitiveTriangles)
}

// ColoredPyramid returns a pyramid with a distinct color on each vertex.
func ColoredPyramid() *Mesh {
	va := pyramidVertices()
	va.Colors = []mgl32.Vec3{{1, 0, 0}, {0, 0, 1}, {0, 1, 0}, {1, 1, 0}, {0, 1, 1}}
	return MustMesh("colored pyramid", va, PrimitiveTriangles)
}

// --- Cube ---

// cubeFaces lists the outward normal and the two in-plane axes of each face.
var cubeFaces = [6][3]mgl32.Vec3{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// Cube returns a unit cube centred on the origin with per-face normals and
// texture coordinates.
func Cube() *Mesh {
	va := &VertexArray{}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for f, face := range cubeFaces {
		n, u, v := face[0], face[1], face[2]
		for _, c := range corners {
			p := n.Add(u.Mul(c[0])).Add(v.Mul(c[1])).Mul(0.5)
			va.Positions = append(va.Positions, p)
			va.Normals = append(va.Normals, n)
			va.UVs = append(va.UVs, mgl32.Vec2{(c[0] + 1) / 2, (c[1] + 1) / 2})
		}
		base := uint16(f * 4)
		va.Indices = append(va.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return MustMesh("cube", va, PrimitiveTriangles)
}

// --- Cylinder ---

// Cylinder returns a capped cylinder of radius 1 spanning y = -1 to y = 1.
// Segments below 3 are raised to 3.
func Cylinder(segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	va := &VertexArray{}
	ring := func(y float32, normal func(c, s float32) mgl32.Vec3) uint16 {
		start := uint16(len(va.Positions))
		for i := 0; i <= segments; i++ {
			a := 2 * math32.Pi * float32(i) / float32(segments)
			c, s := math32.Cos(a), math32.Sin(a)
			va.Positions = append(va.Positions, mgl32.Vec3{c, y, s})
			va.Normals = append(va.Normals, normal(c, s))
			va.UVs = append(va.UVs, mgl32.Vec2{float32(i) / float32(segments), (y + 1) / 2})
		}
		return start
	}
	side := func(c, s float32) mgl32.Vec3 { return mgl32.Vec3{c, 0, s} }
	bottom := ring(-1, side)
	top := ring(1, side)
	for i := 0; i < segments; i++ {
		b, t := bottom+uint16(i), top+uint16(i)
		va.Indices = append(va.Indices, b, t, b+1, b+1, t, t+1)
	}

	for _, y := range []float32{-1, 1} {
		n := mgl32.Vec3{0, y, 0}
		center := uint16(len(va.Positions))
		va.Positions = append(va.Positions, n)
		va.Normals = append(va.Normals, n)
		va.UVs = append(va.UVs, mgl32.Vec2{0.5, 0.5})
		rim := ring(y, func(float32, float32) mgl32.Vec3 { return n })
		for i := 0; i < segments; i++ {
			a, b := rim+uint16(i), rim+uint16(i)+1
			if y > 0 {
				a, b = b, a
			}
			va.Indices = append(va.Indices, center, a, b)
		}
	}
	return MustMesh("cylinder", va, PrimitiveTriangles)
}

// --- Sphere ---

// Sphere returns a UV sphere of radius 1. Stacks below 2 and slices below 3
// are raised to those minimums.
func Sphere(stacks, slices int) *Mesh {
	if stacks < 2 {
		stacks = 2
	}
	if slices < 3 {
		slices = 3
	}
	va := &VertexArray{}
	for i := 0; i <= stacks; i++ {
		phi := math32.Pi * float32(i) / float32(stacks)
		y, r := math32.Cos(phi), math32.Sin(phi)
		for j := 0; j <= slices; j++ {
			theta := 2 * math32.Pi * float32(j) / float32(slices)
			p := mgl32.Vec3{r * math32.Cos(theta), y, r * math32.Sin(theta)}
			va.Positions = append(va.Positions, p)
			va.Normals = append(va.Normals, p)
			va.UVs = append(va.UVs, mgl32.Vec2{float32(j) / float32(slices), 1 - float32(i)/float32(stacks)})
		}
	}
	row := uint16(slices + 1)
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := uint16(i)*row + uint16(j)
			b := a + row
			va.Indices = append(va.Indices, a, a+1, b, a+1, b+1, b)
		}
	}
	return MustMesh("sphere", va, PrimitiveTriangles)
}

// --- Plane ---

// Plane returns a square of half-size size in the z = 0 plane facing +z.
// Texture coordinates run from -tiles to tiles, so wrap modes show outside
// the central [0, 1] tile.
func Plane(size, tiles float32) *Mesh {
	return MustMesh("plane", &VertexArray{
		Positions: []mgl32.Vec3{{-size, -size, 0}, {size, -size, 0}, {size, size, 0}, {-size, size, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:       []mgl32.Vec2{{-tiles, -tiles}, {tiles, -tiles}, {tiles, tiles}, {-tiles, tiles}},
		Indices:   []uint16{0, 1, 2, 0, 2, 3},
	}, PrimitiveTriangles)
}

// --- Axes ---

// Axis returns a unit line from the origin along dir, drawn in c whatever
// color the parents set.
func Axis(name string, dir mgl32.Vec3, c Color) *Mesh {
	m := MustMesh(name, &VertexArray{Positions: []mgl32.Vec3{{}, dir}}, PrimitiveLines)
	m.SetParam(ParamColor, c)
	return m
}

// Shared axis gizmos (no sync.Once, single goroutine).
var axes []Drawable

// Axes returns the shared red x, green y and blue z axis meshes.
func Axes() []Drawable {
	if axes == nil {
		axes = []Drawable{
			Axis("x axis", mgl32.Vec3{1, 0, 0}, Color{1, 0, 0}),
			Axis("y axis", mgl32.Vec3{0, 1, 0}, Color{0, 1, 0}),
			Axis("z axis", mgl32.Vec3{0, 0, 1}, Color{0, 0, 1}),
		}
	}
	return axes
}
