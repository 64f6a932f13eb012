package renderer

import (
	"math"
	"sort"

	"github.com/Carmen-Shannon/penguin-paradise/common"
	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

// DrawItem is one mesh node to draw this frame.
type DrawItem struct {
	Node  model.Node
	Mesh  *model.Mesh
	World [16]float32

	// Distance is the squared distance from the eye to the mesh's world-space bounds center.
	Distance float32
}

// DrawList splits a frame's mesh nodes into opaque and translucent draws.
// Translucent items are ordered back to front.
type DrawList struct {
	Opaque      []DrawItem
	Translucent []DrawItem
	Culled      int
}

// BuildDrawList walks roots, skipping invisible subtrees, and collects every mesh node whose
// world-space bounding sphere intersects frustum. A nil frustum disables culling.
//
// Parameters:
//   - roots: the scene's root nodes
//   - eye: the camera position
//   - frustum: the view frustum, or nil
//
// Returns:
//   - DrawList: the sorted draws
func BuildDrawList(roots []model.Node, eye [3]float32, frustum *common.Frustum) DrawList {
	var list DrawList
	walkMeshes(roots, func(n model.Node, mesh *model.Mesh, world [16]float32) {
		center, radius := worldSphere(mesh, world)
		if frustum != nil && !frustum.ContainsSphere(center, radius) {
			list.Culled++
			return
		}
		dx, dy, dz := center[0]-eye[0], center[1]-eye[1], center[2]-eye[2]
		item := DrawItem{Node: n, Mesh: mesh, World: world, Distance: dx*dx + dy*dy + dz*dz}
		if mesh.Material.Transparent() {
			list.Translucent = append(list.Translucent, item)
		} else {
			list.Opaque = append(list.Opaque, item)
		}
	})

	sort.SliceStable(list.Translucent, func(i, j int) bool {
		return list.Translucent[i].Distance > list.Translucent[j].Distance
	})
	return list
}

// BuildShadowCasters collects the mesh nodes flagged to cast shadows whose bounds intersect
// the light's frustum. Casters are not culled against the camera, so off-screen penguins
// still shadow visible ice. A nil frustum disables culling.
//
// Parameters:
//   - roots: the scene's root nodes
//   - frustum: the light's orthographic frustum, or nil
//
// Returns:
//   - []DrawItem: casters in traversal order with Distance unset
func BuildShadowCasters(roots []model.Node, frustum *common.Frustum) []DrawItem {
	var casters []DrawItem
	walkMeshes(roots, func(n model.Node, mesh *model.Mesh, world [16]float32) {
		if !n.CastShadow() {
			return
		}
		if frustum != nil {
			if center, radius := worldSphere(mesh, world); !frustum.ContainsSphere(center, radius) {
				return
			}
		}
		casters = append(casters, DrawItem{Node: n, Mesh: mesh, World: world})
	})
	return casters
}

// walkMeshes calls fn for every visible node that carries indexed geometry.
func walkMeshes(roots []model.Node, fn func(n model.Node, mesh *model.Mesh, world [16]float32)) {
	var identity [16]float32
	common.Identity(identity[:])
	for _, root := range roots {
		model.TraverseWorld(root, identity[:], func(n model.Node, world [16]float32) {
			if mesh := n.Mesh(); mesh != nil && len(mesh.Indices) > 0 {
				fn(n, mesh, world)
			}
		})
	}
}

// worldSphere bounds a mesh's local box in world space. The radius is scaled by the
// largest axis scale of world.
func worldSphere(mesh *model.Mesh, world [16]float32) ([3]float32, float32) {
	lo, hi := mesh.BoundingMin, mesh.BoundingMax
	c := [3]float32{(lo[0] + hi[0]) / 2, (lo[1] + hi[1]) / 2, (lo[2] + hi[2]) / 2}
	ex := [3]float32{(hi[0] - lo[0]) / 2, (hi[1] - lo[1]) / 2, (hi[2] - lo[2]) / 2}
	r := length3(ex[0], ex[1], ex[2])

	center := [3]float32{
		world[0]*c[0] + world[4]*c[1] + world[8]*c[2] + world[12],
		world[1]*c[0] + world[5]*c[1] + world[9]*c[2] + world[13],
		world[2]*c[0] + world[6]*c[1] + world[10]*c[2] + world[14],
	}
	scale := max(
		length3(world[0], world[1], world[2]),
		length3(world[4], world[5], world[6]),
		length3(world[8], world[9], world[10]),
	)
	return center, r * scale
}

func length3(x, y, z float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y + z*z)))
}
