package arbor

import "github.com/go-gl/mathgl/mgl32"

// Drawable is anything the scene graph can present. Nodes, meshes and
// overlays all implement it; traversal never inspects concrete types.
//
// model is the accumulated object-to-world matrix; shader is the program
// inherited from the nearest ancestor that set one; params holds every
// parameter broadcast from above, including the frame context.
type Drawable interface {
	Draw(projection, view, model mgl32.Mat4, shader *Shader, params ParameterSet)
}

// DrawFunc adapts an ordinary function to the Drawable interface.
type DrawFunc func(projection, view, model mgl32.Mat4, shader *Shader, params ParameterSet)

// Draw calls f.
func (f DrawFunc) Draw(projection, view, model mgl32.Mat4, shader *Shader, params ParameterSet) {
	f(projection, view, model, shader, params)
}
