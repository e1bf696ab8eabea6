package arbor

import (
	"os"
	"regexp"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

// Shader is a compiled Kage program plus the names of the uniforms its
// source declares. A Shader whose compilation failed is disabled: meshes
// drawn with it are skipped.
type Shader struct {
	Name string

	shader   *ebiten.Shader
	uniforms map[string]bool
	err      error
}

// uniformDecl matches top-level `var A, B vec3` declarations.
var uniformDecl = regexp.MustCompile(`(?m)^var\s+([A-Za-z_]\w*(?:\s*,\s*[A-Za-z_]\w*)*)\s`)

// declaredUniforms returns the exported uniform names declared in src.
// Grouped `var (...)` blocks are not recognised.
func declaredUniforms(src []byte) map[string]bool {
	names := make(map[string]bool)
	for _, m := range uniformDecl.FindAllSubmatch(src, -1) {
		for _, name := range strings.Split(string(m[1]), ",") {
			name = strings.TrimSpace(name)
			if name != "" && name[0] >= 'A' && name[0] <= 'Z' {
				names[name] = true
			}
		}
	}
	return names
}

// CompileShader compiles Kage source and returns the error on failure.
func CompileShader(name string, src []byte) (*Shader, error) {
	s, err := ebiten.NewShader(src)
	if err != nil {
		return nil, errors.Wrapf(err, "compile shader %q", name)
	}
	return &Shader{Name: name, shader: s, uniforms: declaredUniforms(src)}, nil
}

// NewShader compiles Kage source. On failure the error is logged and a
// disabled shader is returned.
func NewShader(name string, src []byte) *Shader {
	s, err := CompileShader(name, src)
	if err != nil {
		logger.Warn("shader disabled", "shader", name, "err", err)
		return &Shader{Name: name, err: err}
	}
	logger.Info("shader compiled", "shader", name, "uniforms", len(s.uniforms))
	return s
}

// LoadShaderFile reads and compiles a Kage source file. Read and compile
// failures are logged and yield a disabled shader.
func LoadShaderFile(path string) *Shader {
	src, err := os.ReadFile(path)
	if err != nil {
		err = errors.Wrap(err, "read shader source")
		logger.Warn("shader disabled", "shader", path, "err", err)
		return &Shader{Name: path, err: err}
	}
	return NewShader(path, src)
}

// Enabled reports whether the shader compiled and has not been disposed.
func (s *Shader) Enabled() bool {
	return s != nil && s.shader != nil
}

// Err returns the compile error of a disabled shader.
func (s *Shader) Err() error {
	return s.err
}

// HasUniform reports whether the source declares the named uniform.
func (s *Shader) HasUniform(name string) bool {
	return s.uniforms[name]
}

// Reload recompiles the shader from src. On failure the previous program
// stays in use and the error is returned.
func (s *Shader) Reload(src []byte) error {
	next, err := CompileShader(s.Name, src)
	if err != nil {
		return err
	}
	s.Dispose()
	s.shader = next.shader
	s.uniforms = next.uniforms
	s.err = nil
	return nil
}

// Dispose releases the GPU program. Disposing twice is a no-op.
func (s *Shader) Dispose() {
	if s == nil || s.shader == nil {
		return
	}
	s.shader.Deallocate()
	s.shader = nil
}

// uniformValues picks the declared uniforms out of params and converts them
// to the float32 forms ebiten expects. Entries of auto override params.
func (s *Shader) uniformValues(params ParameterSet, auto map[string]any) map[string]any {
	out := make(map[string]any, len(s.uniforms))
	for name := range s.uniforms {
		v, ok := auto[name]
		if !ok {
			v, ok = params[name]
		}
		if !ok {
			continue
		}
		if u, ok := uniformValue(v); ok {
			out[name] = u
		} else {
			logger.Debug("uniform type not supported", "shader", s.Name, "uniform", name)
		}
	}
	return out
}

func uniformValue(v any) (any, bool) {
	switch x := v.(type) {
	case float32:
		return x, true
	case float64:
		return float32(x), true
	case int:
		return float32(x), true
	case bool:
		if x {
			return float32(1), true
		}
		return float32(0), true
	case WrapMode:
		return float32(x), true
	case FilterMode:
		return float32(x), true
	case Color:
		return []float32{x.R, x.G, x.B}, true
	case mgl32.Vec2:
		return x[:], true
	case mgl32.Vec3:
		return x[:], true
	case mgl32.Vec4:
		return x[:], true
	case mgl32.Mat3:
		return x[:], true
	case mgl32.Mat4:
		return x[:], true
	case []float32:
		return x, true
	}
	return nil, false
}

// --- Built-in Kage sources ---
// All shaders use //kage:unit pixels. Meshes write the world-space normal to
// custom.xyz.

const colorShaderSrc = `//kage:unit pixels
package main

var Color vec3
var UseVertexColor float

func Fragment(dstPos vec4, srcPos vec2, color vec4, custom vec4) vec4 {
	return vec4(mix(Color, color.rgb, UseVertexColor), 1)
}
`

const lambertShaderSrc = `//kage:unit pixels
package main

var Color vec3
var Light vec3
var UseVertexColor float

func Fragment(dstPos vec4, srcPos vec2, color vec4, custom vec4) vec4 {
	base := mix(Color, color.rgb, UseVertexColor)
	n := custom.xyz
	if dot(n, n) == 0 || dot(Light, Light) == 0 {
		return vec4(base, 1)
	}
	d := max(dot(normalize(n), normalize(Light)), 0)
	return vec4(base*d, 1)
}
`

// textureShaderSrc samples texel indices by hand so wrap and filter modes
// work on any texture size. Wrap: 0 repeat, 1 mirrored repeat, 2 clamp to
// edge, 3 clamp to border (transparent).
const textureShaderSrc = `//kage:unit pixels
package main

var Wrap float
var Linear float

func texel(i vec2) vec4 {
	size := imageSrc0Size()
	j := i
	if Wrap < 0.5 {
		j = mod(i, size)
	} else if Wrap < 1.5 {
		m := mod(i, 2*size)
		j = mix(m, 2*size-m-vec2(1), step(size, m))
	} else if Wrap < 2.5 {
		j = clamp(i, vec2(0), size-vec2(1))
	} else {
		if i.x < 0 || i.y < 0 || i.x >= size.x || i.y >= size.y {
			return vec4(0)
		}
	}
	return imageSrc0UnsafeAt(imageSrc0Origin() + j + vec2(0.5))
}

func Fragment(dstPos vec4, srcPos vec2, color vec4, custom vec4) vec4 {
	p := srcPos - imageSrc0Origin()
	if Linear < 0.5 {
		return texel(floor(p)) * color
	}
	q := p - vec2(0.5)
	i := floor(q)
	f := fract(q)
	a := mix(texel(i), texel(i+vec2(1, 0)), f.x)
	b := mix(texel(i+vec2(0, 1)), texel(i+vec2(1, 1)), f.x)
	return mix(a, b, f.y) * color
}
`

// --- Lazy shader compilation (no sync.Once, single goroutine) ---

var (
	colorShader   *Shader
	lambertShader *Shader
	textureShader *Shader
)

func ensureShader(slot **Shader, name, src string) *Shader {
	if *slot == nil {
		s, err := CompileShader(name, []byte(src))
		if err != nil {
			panic("arbor: failed to compile " + name + " shader: " + err.Error())
		}
		*slot = s
	}
	return *slot
}

// ColorShader returns the shared flat color shader. It reads the Color
// uniform, or per-vertex colors when the mesh has them.
func ColorShader() *Shader {
	return ensureShader(&colorShader, "color", colorShaderSrc)
}

// LambertShader returns the shared diffuse shader. Color (or vertex color)
// is scaled by max(0, n·Light).
func LambertShader() *Shader {
	return ensureShader(&lambertShader, "lambert", lambertShaderSrc)
}

// TextureShader returns the shared texture shader. Wrap and Linear select
// the wrap mode and filter.
func TextureShader() *Shader {
	return ensureShader(&textureShader, "texture", textureShaderSrc)
}
