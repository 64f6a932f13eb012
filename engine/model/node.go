package model

import (
	"github.com/Carmen-Shannon/penguin-paradise/common"
)

// node is the implementation of the Node interface.
type node struct {
	name string

	position    [3]float32
	rotation    [3]float32 // Euler angles in radians, applied Y * X * Z
	scale       [3]float32
	orientation [4]float32 // quaternion (x, y, z, w) applied after the Euler rotation
	matrix      *[16]float32

	mesh *Mesh

	castShadow    bool
	receiveShadow bool
	visible       bool

	children []Node
}

// Node is an element of a hierarchical renderable object graph.
// A node carries a local transform, an optional Mesh, shadow flags and child nodes.
// Nodes are not safe for concurrent mutation; ownership moves from the loader's worker
// to the frame thread when a load completes.
type Node interface {
	// Name returns the node's identifier.
	Name() string

	// SetName sets the node's identifier.
	SetName(name string)

	// Position returns the local translation.
	Position() [3]float32

	// SetPosition sets the local translation.
	//
	// Parameters:
	//   - x, y, z: translation components
	SetPosition(x, y, z float32)

	// Rotation returns the local Euler rotation in radians.
	Rotation() [3]float32

	// SetRotation sets the local Euler rotation in radians.
	//
	// Parameters:
	//   - rx, ry, rz: rotation angles around each axis
	SetRotation(rx, ry, rz float32)

	// RotationY returns the rotation about the vertical axis in radians.
	RotationY() float32

	// SetRotationY sets the rotation about the vertical axis, keeping X and Z.
	//
	// Parameters:
	//   - ry: rotation in radians
	SetRotationY(ry float32)

	// Scale returns the local scale.
	Scale() [3]float32

	// SetScale sets the local scale.
	//
	// Parameters:
	//   - sx, sy, sz: scale factors
	SetScale(sx, sy, sz float32)

	// Orientation returns the imported quaternion rotation (x, y, z, w).
	Orientation() [4]float32

	// SetOrientation sets the imported quaternion rotation (x, y, z, w).
	SetOrientation(q [4]float32)

	// SetMatrix replaces the TRS transform with an explicit column-major local matrix.
	// Passing nil restores TRS composition.
	SetMatrix(m *[16]float32)

	// LocalMatrix writes the node's local transform into out (16 elements, column-major).
	LocalMatrix(out []float32)

	// Mesh returns the node's mesh, or nil for grouping nodes.
	Mesh() *Mesh

	// SetMesh attaches geometry to this node.
	SetMesh(m *Mesh)

	// IsMesh reports whether the node carries geometry.
	IsMesh() bool

	// CastShadow reports whether the node casts shadows.
	CastShadow() bool

	// SetCastShadow sets whether the node casts shadows.
	SetCastShadow(cast bool)

	// ReceiveShadow reports whether the node receives shadows.
	ReceiveShadow() bool

	// SetReceiveShadow sets whether the node receives shadows.
	SetReceiveShadow(receive bool)

	// Visible reports whether the node and its subtree are drawn.
	Visible() bool

	// SetVisible toggles drawing of the node and its subtree.
	SetVisible(visible bool)

	// Children returns the direct children.
	Children() []Node

	// Add appends child nodes.
	Add(children ...Node)

	// Traverse visits this node and every descendant depth-first, parents before children.
	//
	// Parameters:
	//   - visit: called once per node
	Traverse(visit func(Node))

	// Clone deep-copies the node hierarchy. Mesh geometry is shared, not copied.
	//
	// Returns:
	//   - Node: an independent copy of the subtree
	Clone() Node
}

var _ Node = &node{}

// NewNode creates a Node with identity transform, visible and without shadows.
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - Node: the new node
func NewNode(options ...NodeBuilderOption) Node {
	n := &node{
		scale:       [3]float32{1, 1, 1},
		orientation: [4]float32{0, 0, 0, 1},
		visible:     true,
	}
	for _, opt := range options {
		opt(n)
	}
	return n
}

func (n *node) Name() string            { return n.name }
func (n *node) SetName(name string)     { n.name = name }
func (n *node) Position() [3]float32    { return n.position }
func (n *node) Rotation() [3]float32    { return n.rotation }
func (n *node) RotationY() float32      { return n.rotation[1] }
func (n *node) SetRotationY(ry float32) { n.rotation[1] = ry }
func (n *node) Scale() [3]float32       { return n.scale }
func (n *node) Orientation() [4]float32 { return n.orientation }
func (n *node) Mesh() *Mesh             { return n.mesh }
func (n *node) SetMesh(m *Mesh)         { n.mesh = m }
func (n *node) IsMesh() bool            { return n.mesh != nil }
func (n *node) CastShadow() bool        { return n.castShadow }
func (n *node) SetCastShadow(c bool)    { n.castShadow = c }
func (n *node) ReceiveShadow() bool     { return n.receiveShadow }
func (n *node) SetReceiveShadow(r bool) { n.receiveShadow = r }
func (n *node) Visible() bool           { return n.visible }
func (n *node) SetVisible(v bool)       { n.visible = v }
func (n *node) Children() []Node        { return n.children }

func (n *node) SetPosition(x, y, z float32) {
	n.position = [3]float32{x, y, z}
}

func (n *node) SetRotation(rx, ry, rz float32) {
	n.rotation = [3]float32{rx, ry, rz}
}

func (n *node) SetScale(sx, sy, sz float32) {
	n.scale = [3]float32{sx, sy, sz}
}

func (n *node) SetOrientation(q [4]float32) {
	n.orientation = q
}

func (n *node) SetMatrix(m *[16]float32) {
	n.matrix = m
}

func (n *node) LocalMatrix(out []float32) {
	if n.matrix != nil {
		copy(out, n.matrix[:])
		return
	}

	// M = T * R_euler * R_quat * S
	var euler, quat, tmp [16]float32
	common.BuildModelMatrix(euler[:],
		n.position[0], n.position[1], n.position[2],
		n.rotation[0], n.rotation[1], n.rotation[2],
		1, 1, 1)
	common.QuatToMat4(quat[:], n.orientation)
	common.Mul4(tmp[:], euler[:], quat[:])

	var s [16]float32
	common.Identity(s[:])
	s[0], s[5], s[10] = n.scale[0], n.scale[1], n.scale[2]
	common.Mul4(out, tmp[:], s[:])
}

func (n *node) Add(children ...Node) {
	for _, c := range children {
		if c != nil {
			n.children = append(n.children, c)
		}
	}
}

func (n *node) Traverse(visit func(Node)) {
	visit(n)
	for _, c := range n.children {
		c.Traverse(visit)
	}
}

func (n *node) Clone() Node {
	cp := &node{
		name:          n.name,
		position:      n.position,
		rotation:      n.rotation,
		scale:         n.scale,
		orientation:   n.orientation,
		mesh:          n.mesh,
		castShadow:    n.castShadow,
		receiveShadow: n.receiveShadow,
		visible:       n.visible,
	}
	if n.matrix != nil {
		m := *n.matrix
		cp.matrix = &m
	}
	if len(n.children) > 0 {
		cp.children = make([]Node, len(n.children))
		for i, c := range n.children {
			cp.children[i] = c.Clone()
		}
	}
	return cp
}

// TraverseWorld walks the hierarchy rooted at root and hands every visible node its world matrix.
// Invisible nodes prune their subtree.
//
// Parameters:
//   - root: the subtree root
//   - parent: the parent's world matrix (nil for identity)
//   - visit: called with each visible node and its world matrix
func TraverseWorld(root Node, parent []float32, visit func(n Node, world [16]float32)) {
	if root == nil || !root.Visible() {
		return
	}
	var local, world [16]float32
	root.LocalMatrix(local[:])
	if parent == nil {
		world = local
	} else {
		common.Mul4(world[:], parent, local[:])
	}
	visit(root, world)
	for _, c := range root.Children() {
		TraverseWorld(c, world[:], visit)
	}
}

// MeshNodes returns every node in the subtree that carries geometry.
func MeshNodes(root Node) []Node {
	var out []Node
	root.Traverse(func(n Node) {
		if n.IsMesh() {
			out = append(out, n)
		}
	})
	return out
}
