package arbor

import (
	"reflect"

	"github.com/go-gl/mathgl/mgl32"
)

// nodeIDCounter is a plain counter; scene graphs are used from one goroutine.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the scene graph's interior element. It carries a local transform
// and a parameter set, composes both with what it inherits, and forwards the
// result to its children in insertion order.
//
// Children are held by reference: the same mesh may sit under many nodes.
// Transform and parameter inheritance follow the path actually walked, so a
// shared child sees a different model matrix under each parent.
type Node struct {
	ID   uint32
	Name string

	// Transform is the local transform, composed as parentModel · Transform.
	Transform mgl32.Mat4

	// Params are merged over the inherited parameters; own entries win.
	Params ParameterSet

	// Shader, when non-nil, replaces the inherited shader for this subtree.
	Shader *Shader

	// Visible false skips the whole subtree.
	Visible bool

	children []Drawable
}

// nodeDefaults sets the default field values shared by all node constructors.
func nodeDefaults(n *Node, name string) {
	n.ID = nextNodeID()
	n.Name = name
	n.Transform = mgl32.Ident4()
	n.Visible = true
}

// NewNode creates an empty node with an identity transform.
func NewNode(name string) *Node {
	n := &Node{}
	nodeDefaults(n, name)
	return n
}

// sceneNode exposes the embedded Node of control nodes for cycle checks.
func (n *Node) sceneNode() *Node {
	return n
}

type sceneNoder interface {
	sceneNode() *Node
}

// --- Tree manipulation ---

// Add appends children in order. A drawable may be added to several nodes,
// or several times to the same node.
// Panics if a child is nil or if its subtree already contains n (cycle).
func (n *Node) Add(children ...Drawable) {
	for _, child := range children {
		if isNilDrawable(child) {
			panic("arbor: cannot add nil child")
		}
		if reaches(child, n) {
			panic("arbor: adding child would create a cycle")
		}
		n.children = append(n.children, child)
	}
	if globalDebug {
		debugCheckChildCount(n)
	}
}

// Remove detaches the first occurrence of child. Reports whether it was found.
func (n *Node) Remove(child Drawable) bool {
	if child == nil || !reflect.TypeOf(child).Comparable() {
		return false
	}
	for i, c := range n.children {
		if reflect.TypeOf(c).Comparable() && c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return true
		}
	}
	return false
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []Drawable {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// SetParam sets one of the node's own parameters.
func (n *Node) SetParam(key string, value any) {
	if n.Params == nil {
		n.Params = make(ParameterSet, 1)
	}
	n.Params[key] = value
}

// ShowAxes attaches the shared x/y/z axis gizmos to this node.
func (n *Node) ShowAxes() {
	n.Add(Axes()...)
}

// --- Traversal ---

// Draw composes model with the local transform, merges the node's parameters
// over params, and draws every child with the result.
func (n *Node) Draw(projection, view, model mgl32.Mat4, shader *Shader, params ParameterSet) {
	if !n.Visible {
		return
	}
	model = model.Mul4(n.Transform)
	params = MergeParams(params, n.Params)
	if n.Shader != nil {
		shader = n.Shader
	}
	for _, child := range n.children {
		child.Draw(projection, view, model, shader, params)
	}
}

// --- Helpers ---

// isNilDrawable reports whether d is nil or a typed nil pointer or func.
func isNilDrawable(d Drawable) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// reaches reports whether target is d itself or lies somewhere below d.
func reaches(d Drawable, target *Node) bool {
	sn, ok := d.(sceneNoder)
	if !ok {
		return false
	}
	node := sn.sceneNode()
	if node == target {
		return true
	}
	for _, child := range node.children {
		if reaches(child, target) {
			return true
		}
	}
	return false
}
