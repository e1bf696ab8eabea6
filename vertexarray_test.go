package arbor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitTriangle() *VertexArray {
	return &VertexArray{Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}
}

func TestVertexArrayValidate(t *testing.T) {
	tests := []struct {
		name    string
		va      *VertexArray
		wantErr string
	}{
		{"valid", unitTriangle(), ""},
		{"no positions", &VertexArray{}, "no positions"},
		{"short normals", &VertexArray{
			Positions: unitTriangle().Positions,
			Normals:   []mgl32.Vec3{{0, 0, 1}},
		}, "1 normals for 3 positions"},
		{"long colors", &VertexArray{
			Positions: unitTriangle().Positions,
			Colors:    make([]mgl32.Vec3, 4),
		}, "4 colors"},
		{"short uvs", &VertexArray{
			Positions: unitTriangle().Positions,
			UVs:       make([]mgl32.Vec2, 2),
		}, "2 uvs"},
		{"index out of range", &VertexArray{
			Positions: unitTriangle().Positions,
			Indices:   []uint16{0, 1, 3},
		}, "index 3 at position 2"},
		{"too many vertices", &VertexArray{
			Positions: make([]mgl32.Vec3, maxVertices+1),
		}, "limit is 65536"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.va.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestVertexArrayElements(t *testing.T) {
	va := unitTriangle()
	assert.Equal(t, 3, va.Len())
	assert.Equal(t, 3, va.ElementCount())
	assert.Equal(t, 2, va.Element(2))

	va.Indices = []uint16{2, 1, 0, 0}
	assert.Equal(t, 4, va.ElementCount())
	assert.Equal(t, 2, va.Element(0))
	assert.Equal(t, 0, va.Element(3))
}

func TestComputeFlatNormals(t *testing.T) {
	va := unitTriangle()
	va.ComputeFlatNormals()
	require.Len(t, va.Normals, 3)
	for _, n := range va.Normals {
		assertVec3(t, "normal", n, mgl32.Vec3{0, 0, 1})
	}

	// Clockwise winding faces the other way.
	va.Indices = []uint16{0, 2, 1}
	va.ComputeFlatNormals()
	assertVec3(t, "clockwise", va.Normals[0], mgl32.Vec3{0, 0, -1})
}

func TestComputeFlatNormalsDegenerate(t *testing.T) {
	va := &VertexArray{Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}}
	va.ComputeFlatNormals()
	assert.Equal(t, mgl32.Vec3{}, va.Normals[0])
}
