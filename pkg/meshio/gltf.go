package meshio

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/shem-sim/shem-raytracer/pkg/core"
)

// LoadGLTF reads a .gltf or .glb file and flattens every mesh primitive's
// POSITION/NORMAL/indices accessors into a single MeshData, the way
// mrigankad-gorenderengine/scene/gltf_loader.go's loadGLTFPrimitive reads
// one primitive; this package has no material/texture/node concept, so
// everything collapses to one triangle soup.
func LoadGLTF(path string) (MeshData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return MeshData{}, fmt.Errorf("meshio: gltf open %q: %w", path, err)
	}

	mesh := MeshData{}
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if err := appendPrimitive(&mesh, doc, *prim); err != nil {
				return MeshData{}, fmt.Errorf("meshio: %q mesh %d primitive %d: %w", path, mi, pi, err)
			}
		}
	}
	if len(mesh.Faces) == 0 {
		return MeshData{}, fmt.Errorf("meshio: %q: no triangles found", path)
	}

	mesh.MaterialID, mesh.MaterialParam = zeroed(len(mesh.Faces))
	return mesh, nil
}

func appendPrimitive(mesh *MeshData, doc *gltf.Document, prim gltf.Primitive) error {
	switch prim.Mode {
	case gltf.PrimitiveTriangles, 0:
		// 0 is the zero value of an unset Primitive.Mode field, which the
		// glTF spec itself defaults to TRIANGLES.
	default:
		return fmt.Errorf("primitive mode %d is not TRIANGLES (strips/fans/lines/points are not supported)", prim.Mode)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}

	base := len(mesh.Vertices)
	for _, p := range positions {
		mesh.Vertices = append(mesh.Vertices, core.NewVec3(float64(p[0]), float64(p[1]), float64(p[2])))
	}

	for i := 0; i < len(indices); i += 3 {
		ia, ib, ic := int(indices[i]), int(indices[i+1]), int(indices[i+2])
		face := [3]int{base + ia, base + ib, base + ic}
		mesh.Faces = append(mesh.Faces, face)

		a, b, c := mesh.Vertices[face[0]], mesh.Vertices[face[1]], mesh.Vertices[face[2]]
		if ia < len(normals) {
			n := normals[ia]
			nrm := core.NewVec3(float64(n[0]), float64(n[1]), float64(n[2]))
			if nrm.IsUnit(1e-3) {
				mesh.Normals = append(mesh.Normals, nrm)
				continue
			}
		}
		mesh.Normals = append(mesh.Normals, faceNormal(a, b, c))
	}
	return nil
}
