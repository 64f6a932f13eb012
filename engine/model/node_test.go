package model

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode()
	if n.Scale() != [3]float32{1, 1, 1} {
		t.Fatalf("default scale = %v", n.Scale())
	}
	if !n.Visible() {
		t.Fatal("new node should be visible")
	}
	if n.CastShadow() || n.ReceiveShadow() {
		t.Fatal("new node should not have shadow flags set")
	}

	var m [16]float32
	n.LocalMatrix(m[:])
	for i := 0; i < 16; i++ {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if !approx(m[i], want) {
			t.Fatalf("identity node matrix[%d] = %f, want %f", i, m[i], want)
		}
	}
}

func TestLocalMatrixTranslationAndScale(t *testing.T) {
	n := NewNode(WithPosition(2, 0, -2), WithScale(0.02, 0.02, 0.02))
	var m [16]float32
	n.LocalMatrix(m[:])

	if !approx(m[12], 2) || !approx(m[13], 0) || !approx(m[14], -2) {
		t.Fatalf("translation column = %v", m[12:15])
	}
	if !approx(m[0], 0.02) || !approx(m[5], 0.02) || !approx(m[10], 0.02) {
		t.Fatalf("scale diagonal = %f %f %f", m[0], m[5], m[10])
	}
}

func TestLocalMatrixRotationY(t *testing.T) {
	n := NewNode(WithRotation(0, math.Pi/2, 0))
	var m [16]float32
	n.LocalMatrix(m[:])

	// +X rotates onto -Z about the Y axis.
	x := [3]float32{m[0], m[1], m[2]}
	if !approx(x[0], 0) || !approx(x[1], 0) || !approx(x[2], -1) {
		t.Fatalf("rotated X axis = %v", x)
	}
}

func TestExplicitMatrixOverridesTRS(t *testing.T) {
	n := NewNode(WithPosition(5, 5, 5))
	var explicit [16]float32
	for i := range explicit {
		explicit[i] = float32(i)
	}
	n.SetMatrix(&explicit)

	var m [16]float32
	n.LocalMatrix(m[:])
	if m != explicit {
		t.Fatalf("explicit matrix not used: %v", m)
	}
}

func TestCloneIsIndependentAndSharesMesh(t *testing.T) {
	mesh := NewPlaneMesh(1, 1, DefaultMaterial())
	child := NewNode(WithName("child"), WithMesh(mesh))
	root := NewNode(WithName("root"), WithChildren(child))

	cp := root.Clone()
	cp.SetPosition(1, 2, 3)
	cp.Children()[0].SetRotationY(1)

	if root.Position() != [3]float32{} {
		t.Fatalf("original root moved: %v", root.Position())
	}
	if child.RotationY() != 0 {
		t.Fatalf("original child rotated: %f", child.RotationY())
	}
	if cp.Children()[0].Mesh() != mesh {
		t.Fatal("clone should share mesh geometry")
	}
}

func TestTraverseVisitsParentsFirst(t *testing.T) {
	leaf := NewNode(WithName("leaf"))
	mid := NewNode(WithName("mid"), WithChildren(leaf))
	root := NewNode(WithName("root"), WithChildren(mid, NewNode(WithName("sibling"))))

	var names []string
	root.Traverse(func(n Node) { names = append(names, n.Name()) })

	want := []string{"root", "mid", "leaf", "sibling"}
	if len(names) != len(want) {
		t.Fatalf("visited %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("visit order %v, want %v", names, want)
		}
	}
}

func TestTraverseWorldComposesParents(t *testing.T) {
	child := NewNode(WithPosition(1, 0, 0))
	root := NewNode(WithPosition(0, 3, 0), WithChildren(child))

	var worlds [][16]float32
	TraverseWorld(root, nil, func(_ Node, w [16]float32) { worlds = append(worlds, w) })

	if len(worlds) != 2 {
		t.Fatalf("expected 2 visits, got %d", len(worlds))
	}
	w := worlds[1]
	if !approx(w[12], 1) || !approx(w[13], 3) || !approx(w[14], 0) {
		t.Fatalf("child world translation = %v", w[12:15])
	}
}

func TestTraverseWorldSkipsInvisibleSubtree(t *testing.T) {
	hidden := NewNode(WithChildren(NewNode()))
	hidden.SetVisible(false)
	root := NewNode(WithChildren(hidden))

	count := 0
	TraverseWorld(root, nil, func(Node, [16]float32) { count++ })
	if count != 1 {
		t.Fatalf("visited %d nodes, want 1", count)
	}
}

func TestMeshNodes(t *testing.T) {
	mesh := NewPlaneMesh(1, 1, DefaultMaterial())
	root := NewNode(WithChildren(NewNode(WithMesh(mesh)), NewNode(), NewNode(WithMesh(mesh))))
	if got := len(MeshNodes(root)); got != 2 {
		t.Fatalf("MeshNodes returned %d nodes, want 2", got)
	}
}
