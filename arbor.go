package arbor

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Color represents an RGB color with components in [0, 1].
// Alpha is not carried: every built-in shader writes opaque fragments.
type Color struct {
	R float32 `yaml:"r" toml:"r"`
	G float32 `yaml:"g" toml:"g"`
	B float32 `yaml:"b" toml:"b"`
}

// ColorWhite is the default mesh color.
var ColorWhite = Color{1, 1, 1}

// Vec3 returns the color as a vector, the form shader uniforms expect.
func (c Color) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{c.R, c.G, c.B}
}

// RGBA converts the color to an opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: unit8(c.R), G: unit8(c.G), B: unit8(c.B), A: 255}
}

func unit8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Primitive selects how a VertexArray's indices are assembled.
type Primitive uint8

const (
	PrimitiveTriangles Primitive = iota // every 3 indices form a triangle
	PrimitiveLines                      // every 2 indices form a line segment
)

// String returns the name of the primitive.
func (p Primitive) String() string {
	switch p {
	case PrimitiveTriangles:
		return "triangles"
	case PrimitiveLines:
		return "lines"
	default:
		return "unknown"
	}
}

// WrapMode selects how texture coordinates outside [0, 1] are resolved.
// The numeric values are the ones the texture shader's Wrap uniform expects.
type WrapMode uint8

const (
	WrapRepeat         WrapMode = iota // tile the texture
	WrapMirroredRepeat                 // tile, mirroring every other copy
	WrapClampToEdge                    // stretch the edge texels
	WrapClampToBorder                  // transparent outside the texture

	wrapModeCount
)

// String returns the GL-style name of the wrap mode.
func (w WrapMode) String() string {
	switch w {
	case WrapRepeat:
		return "repeat"
	case WrapMirroredRepeat:
		return "mirrored-repeat"
	case WrapClampToEdge:
		return "clamp-to-edge"
	case WrapClampToBorder:
		return "clamp-to-border"
	default:
		return "unknown"
	}
}

// FilterMode selects texel filtering in the texture shader.
type FilterMode uint8

const (
	FilterNearest FilterMode = iota // nearest texel
	FilterLinear                    // bilinear blend of the 4 nearest texels

	filterModeCount
)

// String returns the name of the filter mode.
func (f FilterMode) String() string {
	if f == FilterLinear {
		return "linear"
	}
	return "nearest"
}
