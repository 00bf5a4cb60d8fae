// Package meshio is the external-collaborator boundary named in spec.md
// §4.2: "the core does not read STL/OBJ itself". It loads triangle-list
// mesh descriptors from STL and glTF files and hands back plain
// (V, F, N, C, P) data that pkg/scene assembles into a TriangleSurface.
//
// Binary STL parsing is grounded on the teacher's pkg/loaders/ply.go
// (bufio buffered reads, encoding/binary little-endian decoding, one
// struct per on-disk record); the glTF loader wraps github.com/qmuntal/gltf
// the way mrigankad-gorenderengine/scene/gltf_loader.go does.
package meshio

import (
	"github.com/shem-sim/shem-raytracer/pkg/core"
)

// MeshData is the (V, F, N, C, P) bundle of spec.md §4.2: vertices, faces
// (0-based triples), per-face outward unit normals, and per-face material
// id/parameter. MaterialID and MaterialParam are left at their zero value
// (0, 0.0) by every loader in this package; the caller assigns real
// material ids when a mesh is bound into a scene.Scene.
type MeshData struct {
	Vertices      []core.Vec3
	Faces         [][3]int
	Normals       []core.Vec3
	MaterialID    []int
	MaterialParam []float64
}

// faceNormal recomputes a face's outward normal from its vertices when the
// file either omits normals or supplies a degenerate one, following the
// same "recompute on degenerate input" idiom as the teacher's PLY reader's
// vertex-normal handling.
func faceNormal(a, b, c core.Vec3) core.Vec3 {
	ab := b.Subtract(a)
	ac := c.Subtract(a)
	n := ab.Cross(ac)
	if n.IsZero() {
		return n
	}
	return n.Normalize()
}

func zeroed(n int) ([]int, []float64) {
	return make([]int, n), make([]float64, n)
}
