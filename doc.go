// Package arbor is a small real-time 3D rendering framework for [Ebitengine].
//
// Arbor is built around a scene graph of transform and parameter nodes and a
// keyframe animation sampler. Geometry is projected on the CPU with
// [mgl32] matrices and submitted as triangles through Kage shaders.
//
// # Quick start
//
// [NewViewer] creates the render loop and [Run] opens the window:
//
//	v := arbor.NewViewer(arbor.DefaultRunConfig())
//	v.Add(arbor.ColoredPyramid())
//	if err := arbor.Run(v); err != nil {
//		log.Fatal(err)
//	}
//
// # Scene graph
//
// Every element implements [Drawable]. A [Node] holds a local transform and
// a [ParameterSet]; drawing it composes parentModel · Transform, merges its
// own parameters over the inherited ones (own entries win) and draws its
// children in order. Children are shared by reference, so one [Mesh] can
// appear under many nodes.
//
//	arm := arbor.NewNode("arm")
//	arm.Transform = arbor.Translate(mgl32.Vec3{0, 1, 0})
//	arm.SetParam(arbor.ParamColor, arbor.Color{R: 1, G: 0.5})
//	arm.Add(arbor.Cylinder(24))
//
// Control nodes recompute their transform every frame before drawing:
// [RotationControlNode] from held keys, [KeyFrameControlNode] from a
// [TransformSampler] at the frame time, and [TweenNode] from [gween] tweens.
//
// # Frame parameters
//
// Lowercase keys carry the frame context set by the viewer: the render
// target, the [Input], the animation time, the time since the previous
// draw, the update tick and the wireframe flag. Ebitengine may draw more
// often than it updates; a repeated draw sees a zero delta and the same tick,
// so input-driven nodes act once per tick.
// Capitalised keys are shader uniforms; a shader receives those its source
// declares.
//
// # Errors
//
// Invalid geometry and keyframes are reported as errors at construction.
// Programming errors such as cycles or missing frame context panic. Shaders
// and textures that fail to load are logged through [SetLogger] and come
// back disabled.
//
// [Ebitengine]: https://ebitengine.org
// [mgl32]: https://github.com/go-gl/mathgl
// [gween]: https://github.com/tanema/gween
package arbor
