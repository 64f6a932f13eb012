package model

// NodeBuilderOption is a functional option for configuring a Node via NewNode.
type NodeBuilderOption func(*node)

// WithName sets the node identifier.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithName(name string) NodeBuilderOption {
	return func(n *node) {
		n.name = name
	}
}

// WithPosition sets the initial local translation.
//
// Parameters:
//   - x, y, z: translation components
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithPosition(x, y, z float32) NodeBuilderOption {
	return func(n *node) {
		n.position = [3]float32{x, y, z}
	}
}

// WithRotation sets the initial Euler rotation in radians.
//
// Parameters:
//   - rx, ry, rz: rotation angles
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithRotation(rx, ry, rz float32) NodeBuilderOption {
	return func(n *node) {
		n.rotation = [3]float32{rx, ry, rz}
	}
}

// WithScale sets the initial local scale.
//
// Parameters:
//   - sx, sy, sz: scale factors
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithScale(sx, sy, sz float32) NodeBuilderOption {
	return func(n *node) {
		n.scale = [3]float32{sx, sy, sz}
	}
}

// WithMesh attaches geometry to the node.
//
// Parameters:
//   - m: the mesh
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithMesh(m *Mesh) NodeBuilderOption {
	return func(n *node) {
		n.mesh = m
	}
}

// WithShadows sets the cast and receive shadow flags.
//
// Parameters:
//   - cast: whether the node casts shadows
//   - receive: whether the node receives shadows
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithShadows(cast, receive bool) NodeBuilderOption {
	return func(n *node) {
		n.castShadow = cast
		n.receiveShadow = receive
	}
}

// WithChildren appends child nodes.
//
// Parameters:
//   - children: the child nodes
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithChildren(children ...Node) NodeBuilderOption {
	return func(n *node) {
		n.Add(children...)
	}
}
