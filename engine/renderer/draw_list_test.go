package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/penguin-paradise/common"
	"github.com/Carmen-Shannon/penguin-paradise/engine/camera"
	"github.com/Carmen-Shannon/penguin-paradise/engine/light"
	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

func testFrustum() (*common.Frustum, [3]float32) {
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController()))
	vp := cam.ViewProjectionMatrix()
	f := common.ExtractFrustumFromMatrix(vp[:])
	return &f, cam.Position()
}

func box(name string, opacity float32, x, y, z float32) model.Node {
	mat := model.DefaultMaterial()
	mat.Opacity = opacity
	return model.NewNode(
		model.WithName(name),
		model.WithMesh(model.NewCylinderMesh(0.5, 1, 8, mat)),
		model.WithPosition(x, y, z),
	)
}

func TestBuildDrawListSplitsAndSortsTranslucent(t *testing.T) {
	f, eye := testFrustum()
	roots := []model.Node{
		box("solid", 1, 0, 0, 0),
		box("near", 0.5, 0, 0, -1),
		box("far", 0.5, 0, 0, -10),
	}

	list := BuildDrawList(roots, eye, f)
	if len(list.Opaque) != 1 || list.Opaque[0].Node.Name() != "solid" {
		t.Fatalf("opaque = %+v", list.Opaque)
	}
	if len(list.Translucent) != 2 {
		t.Fatalf("translucent = %d, want 2", len(list.Translucent))
	}
	if list.Translucent[0].Node.Name() != "far" || list.Translucent[1].Node.Name() != "near" {
		t.Errorf("translucent order = %s, %s; want far, near",
			list.Translucent[0].Node.Name(), list.Translucent[1].Node.Name())
	}
}

func TestBuildDrawListCullsBehindCamera(t *testing.T) {
	f, eye := testFrustum()
	list := BuildDrawList([]model.Node{box("behind", 1, 0, 0, 50)}, eye, f)
	if len(list.Opaque) != 0 || list.Culled != 1 {
		t.Errorf("opaque = %d culled = %d, want 0 and 1", len(list.Opaque), list.Culled)
	}

	list = BuildDrawList([]model.Node{box("behind", 1, 0, 0, 50)}, eye, nil)
	if len(list.Opaque) != 1 {
		t.Errorf("nil frustum should not cull, got %d draws", len(list.Opaque))
	}
}

func TestBuildDrawListSkipsHiddenAndEmpty(t *testing.T) {
	hidden := box("hidden", 1, 0, 0, 0)
	hidden.SetVisible(false)
	empty := model.NewNode(model.WithName("empty"), model.WithMesh(&model.Mesh{Name: "empty"}))
	group := model.NewNode(model.WithName("group"), model.WithChildren(box("child", 1, 0, 0, 0)))

	list := BuildDrawList([]model.Node{hidden, empty, group}, [3]float32{0, 3, 6}, nil)
	if len(list.Opaque) != 1 || list.Opaque[0].Node.Name() != "child" {
		t.Fatalf("opaque = %+v, want only child", list.Opaque)
	}
}

func TestBuildDrawListWorldMatrixIncludesParent(t *testing.T) {
	child := box("child", 1, 1, 0, 0)
	parent := model.NewNode(model.WithPosition(0, 2, 0), model.WithChildren(child))

	list := BuildDrawList([]model.Node{parent}, [3]float32{}, nil)
	if len(list.Opaque) != 1 {
		t.Fatalf("opaque = %d", len(list.Opaque))
	}
	w := list.Opaque[0].World
	if w[12] != 1 || w[13] != 2 || w[14] != 0 {
		t.Errorf("translation = (%f, %f, %f), want (1, 2, 0)", w[12], w[13], w[14])
	}
}

func TestBuildShadowCasters(t *testing.T) {
	sun := light.NewLight(light.LightTypeDirectional,
		light.WithPosition(5, 10, 7.5),
		light.WithShadow(light.DefaultShadow()),
	)
	shadow := light.NewGPUShadow(sun, [3]float32{})
	f := common.ExtractFrustumFromMatrix(shadow.LightVP[:])

	caster := func(name string, x float32) model.Node {
		n := box(name, 1, x, 0, 0)
		n.SetCastShadow(true)
		return n
	}
	roots := []model.Node{
		caster("penguin", 0),
		box("ice", 1, 0, -0.5, 0),
		caster("distant", 100),
	}

	tests := []struct {
		name    string
		frustum *common.Frustum
		want    []string
	}{
		{"light frustum", &f, []string{"penguin"}},
		{"no culling", nil, []string{"penguin", "distant"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildShadowCasters(roots, tt.frustum)
			if len(got) != len(tt.want) {
				t.Fatalf("casters = %d, want %v", len(got), tt.want)
			}
			for i, name := range tt.want {
				if got[i].Node.Name() != name {
					t.Errorf("caster %d = %s, want %s", i, got[i].Node.Name(), name)
				}
			}
		})
	}
}
