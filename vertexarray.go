package arbor

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// maxVertices is the largest vertex count addressable by uint16 indices.
const maxVertices = math.MaxUint16 + 1

// VertexArray holds per-vertex attributes and an optional index list.
// Positions are required; every other attribute is either absent or has one
// entry per position. Without Indices the vertices are used in order.
type VertexArray struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Colors    []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint16
}

// Validate checks attribute lengths and index ranges.
func (va *VertexArray) Validate() error {
	n := len(va.Positions)
	if n == 0 {
		return errors.New("vertex array has no positions")
	}
	if n > maxVertices {
		return errors.Errorf("vertex array has %d vertices, limit is %d", n, maxVertices)
	}
	if err := checkAttr("normals", len(va.Normals), n); err != nil {
		return err
	}
	if err := checkAttr("colors", len(va.Colors), n); err != nil {
		return err
	}
	if err := checkAttr("uvs", len(va.UVs), n); err != nil {
		return err
	}
	for i, idx := range va.Indices {
		if int(idx) >= n {
			return errors.Errorf("index %d at position %d is out of range for %d vertices", idx, i, n)
		}
	}
	return nil
}

func checkAttr(name string, got, want int) error {
	if got != 0 && got != want {
		return errors.Errorf("vertex array has %d %s for %d positions", got, name, want)
	}
	return nil
}

// Len returns the number of vertices.
func (va *VertexArray) Len() int {
	return len(va.Positions)
}

// ElementCount returns the number of indices drawn: len(Indices), or the
// vertex count when no index list is given.
func (va *VertexArray) ElementCount() int {
	if va.Indices != nil {
		return len(va.Indices)
	}
	return len(va.Positions)
}

// Element returns the vertex index of the i-th element.
func (va *VertexArray) Element(i int) int {
	if va.Indices != nil {
		return int(va.Indices[i])
	}
	return i
}

// ComputeFlatNormals fills Normals with the face normal of the last
// triangle referencing each vertex. Meshes meant for Lambert shading with
// sharp edges should not share vertices between faces.
func (va *VertexArray) ComputeFlatNormals() {
	va.Normals = make([]mgl32.Vec3, len(va.Positions))
	for i := 0; i+2 < va.ElementCount(); i += 3 {
		a, b, c := va.Element(i), va.Element(i+1), va.Element(i+2)
		n := faceNormal(va.Positions[a], va.Positions[b], va.Positions[c])
		va.Normals[a], va.Normals[b], va.Normals[c] = n, n, n
	}
}

// faceNormal returns the unit normal of a counter-clockwise triangle, or zero
// for a degenerate one.
func faceNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return mgl32.Vec3{}
}
