package meshio

import (
	"math"

	"github.com/shem-sim/shem-raytracer/pkg/core"
)

// CambridgePlateParams configures the built-in "cambridge" pinhole-plate
// generator named in spec.md §6 ("STL pinhole model: cambridge | new |
// path"): a flat square plate in the plane y=0, outward normal (0,-1,0)
// (matching the analytic back-wall plate model), with a single circular
// pinhole cut out of its centre.
type CambridgePlateParams struct {
	SideLength    float64 // full side length of the square plate
	PinholeRadius float64
	Segments      int // number of segments approximating the pinhole circle; 0 selects a default
}

// CambridgePlate builds the triangulated square-plate-with-circular-pinhole
// mesh used when a parameter file names the "cambridge" built-in model
// instead of supplying an STL/glTF path. The outer boundary ring is
// projected onto the square's perimeter (not a circle). When the segment
// count is a multiple of 8, the four corners are ring vertices and the ring
// of quads tiles the whole plate; otherwise the straight edges between ring
// vertices cut across the corners and the corner regions are not covered.
func CambridgePlate(p CambridgePlateParams) MeshData {
	segments := p.Segments
	if segments <= 0 {
		segments = 32
	}
	half := p.SideLength / 2

	mesh := MeshData{}
	normal := core.NewVec3(0, -1, 0)

	inner := make([]core.Vec3, segments)
	outer := make([]core.Vec3, segments)
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		ct, st := math.Cos(theta), math.Sin(theta)
		inner[i] = core.NewVec3(p.PinholeRadius*ct, 0, p.PinholeRadius*st)

		scale := half / math.Max(math.Abs(ct), math.Abs(st))
		outer[i] = core.NewVec3(scale*ct, 0, scale*st)
	}

	addTri := func(a, b, c core.Vec3) {
		base := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, a, b, c)
		mesh.Faces = append(mesh.Faces, [3]int{base, base + 1, base + 2})
		mesh.Normals = append(mesh.Normals, normal)
	}

	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		addTri(inner[i], outer[i], outer[j])
		addTri(inner[i], outer[j], inner[j])
	}

	mesh.MaterialID, mesh.MaterialParam = zeroed(len(mesh.Faces))
	return mesh
}
