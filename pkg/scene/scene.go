// Package scene builds and exposes the immutable scene description (C3):
// the triangulated sample surface, the pinhole plate (triangulated or
// analytic back-wall), the optional analytic sphere, and the ordered
// detector aperture set.
//
// A Scene is built once by New and never mutated afterwards; the per-pixel
// sample translation is carried alongside as a Placement rather than by
// cloning or mutating the vertex buffer (spec.md §5: "a cheap per-task
// clone... or an implicit offset... implementations must pick one and keep
// it consistent" — this package picks the implicit-offset option).
package scene

import (
	"fmt"

	"github.com/shem-sim/shem-raytracer/pkg/core"
	"github.com/shem-sim/shem-raytracer/pkg/scatter"
)

// TriangleSurface is an ordered triangle mesh: vertices, faces (each an
// ordered triple of vertex indices), per-face outward unit normals, and
// per-face material id/parameter. Layout matches spec.md §9: row-major
// (face-contiguous) Faces/Normals/MaterialID/MaterialParam, column-contiguous
// Vertices.
type TriangleSurface struct {
	ID            core.SurfaceID
	Vertices      []core.Vec3
	Faces         [][3]int
	Normals       []core.Vec3
	MaterialID    []int
	MaterialParam []float64
}

// NumFaces returns the number of triangles in the surface.
func (s *TriangleSurface) NumFaces() int {
	return len(s.Faces)
}

// Face returns the three world-space vertices and outward unit normal of
// face j, i.e. get_element(surface, j) of spec.md §4.3.
func (s *TriangleSurface) Face(j int) (a, b, c, normal core.Vec3) {
	f := s.Faces[j]
	return s.Vertices[f[0]], s.Vertices[f[1]], s.Vertices[f[2]], s.Normals[j]
}

// Sphere is the analytic sphere optionally resting on the sample.
type Sphere struct {
	Centre        core.Vec3
	Radius        float64
	MaterialID    int
	MaterialParam float64
	Present       bool
}

// Aperture is an elliptical opening in the pinhole plate, addressed by a
// 1-based index (0 means "no detection").
type Aperture struct {
	Centre    core.Vec2
	FullAxisX float64
	FullAxisZ float64
}

// BackWallPlate is the analytic flat-disc plate model of spec.md §3: a
// circular region of radius R in the plane y=0, outward normal (0,-1,0).
type BackWallPlate struct {
	Radius         float64
	PlateRepresent bool // absorb (true) or pass through (false) on a disc-but-not-aperture hit
}

// Plate is either a triangulated mesh or the analytic back-wall model;
// exactly one of the two fields is non-nil.
type Plate struct {
	Triangulated *TriangleSurface
	BackWall     *BackWallPlate
}

// IsBackWall reports whether the plate uses the analytic back-wall model.
func (p Plate) IsBackWall() bool {
	return p.BackWall != nil
}

// Scene is the immutable, once-built bundle consumed by the intersection
// kernel. Apertures are scene-level (not duplicated per plate model) because
// both plate representations test the same ordered aperture set against the
// hit point's plate-local (x,z) coordinates.
type Scene struct {
	Sample    TriangleSurface
	Plate     Plate
	Sphere    Sphere
	Apertures []Aperture

	// FirstFlightIncludesPlate controls whether the plate participates in the
	// very first intersection test of a freshly emitted ray (spec.md §4.6,
	// "first-scatter policy"). A freshly emitted ray cannot immediately
	// re-hit its own origin pinhole.
	FirstFlightIncludesPlate bool
}

// Placement is the per-pixel pose applied to the sample surface (spec.md
// §4.3, §4.8): an implicit rotation-then-translation added to sample
// vertices at read time rather than a clone of the vertex buffer. Rotation
// is the zero vector for the rectangular/single-pixel/line scan plans and
// non-zero only for the "rotations" scan plan.
type Placement struct {
	Rotation core.Vec3
	Offset   core.Vec3
}

// SampleFace returns face j of the sample surface with Placement applied to
// its vertices and normal: rotate about the origin, then translate.
func (sc *Scene) SampleFace(placement Placement, j int) (a, b, c, normal core.Vec3) {
	a, b, c, normal = sc.Sample.Face(j)
	a = a.Rotate(placement.Rotation).Add(placement.Offset)
	b = b.Rotate(placement.Rotation).Add(placement.Offset)
	c = c.Rotate(placement.Rotation).Add(placement.Offset)
	normal = normal.Rotate(placement.Rotation)
	return a, b, c, normal
}

// New validates and assembles a Scene from raw, externally supplied
// descriptors (spec.md §6: "the core does not read STL/OBJ itself" — New's
// caller, cmd/shemtrace, builds them from meshio/paramfile output).
func New(sample TriangleSurface, plate Plate, sphere Sphere, apertures []Aperture, firstFlightIncludesPlate bool) (*Scene, error) {
	sample.ID = core.SurfaceSample
	if err := validateSurface("sample", sample); err != nil {
		return nil, err
	}

	if plate.Triangulated == nil && plate.BackWall == nil {
		return nil, fmt.Errorf("scene: plate must be either triangulated or back-wall, got neither: %w", ErrConfiguration)
	}
	if plate.Triangulated != nil && plate.BackWall != nil {
		return nil, fmt.Errorf("scene: plate must be either triangulated or back-wall, got both: %w", ErrConfiguration)
	}
	if plate.Triangulated != nil {
		plate.Triangulated.ID = core.SurfacePlate
		if err := validateSurface("plate", *plate.Triangulated); err != nil {
			return nil, err
		}
	}
	if plate.BackWall != nil && plate.BackWall.Radius <= 0 {
		return nil, fmt.Errorf("scene: back-wall plate radius must be positive, got %g: %w", plate.BackWall.Radius, ErrConfiguration)
	}

	if sphere.Present {
		if sphere.Radius <= 0 {
			return nil, fmt.Errorf("scene: sphere radius must be positive, got %g: %w", sphere.Radius, ErrConfiguration)
		}
		if _, ok := scatter.ByMaterialID(sphere.MaterialID); !ok {
			return nil, fmt.Errorf("scene: sphere material id %d is not a recognised scattering law: %w", sphere.MaterialID, ErrConfiguration)
		}
	}

	for i, ap := range apertures {
		if ap.FullAxisX <= 0 || ap.FullAxisZ <= 0 {
			return nil, fmt.Errorf("scene: aperture %d has non-positive full axis (%g,%g): %w", i+1, ap.FullAxisX, ap.FullAxisZ, ErrConfiguration)
		}
	}

	return &Scene{
		Sample:                   sample,
		Plate:                    plate,
		Sphere:                   sphere,
		Apertures:                apertures,
		FirstFlightIncludesPlate: firstFlightIncludesPlate,
	}, nil
}

func validateSurface(name string, s TriangleSurface) error {
	nf := len(s.Faces)
	if len(s.Normals) != nf {
		return fmt.Errorf("scene: %s surface has %d faces but %d normals: %w", name, nf, len(s.Normals), ErrGeometry)
	}
	if len(s.MaterialID) != nf {
		return fmt.Errorf("scene: %s surface has %d faces but %d material ids: %w", name, nf, len(s.MaterialID), ErrGeometry)
	}
	if len(s.MaterialParam) != nf {
		return fmt.Errorf("scene: %s surface has %d faces but %d material parameters: %w", name, nf, len(s.MaterialParam), ErrGeometry)
	}

	nv := len(s.Vertices)
	for j, f := range s.Faces {
		for k, idx := range f {
			if idx < 0 || idx >= nv {
				return fmt.Errorf("scene: %s surface face %d vertex %d index %d out of range [0,%d): %w", name, j, k, idx, nv, ErrGeometry)
			}
		}
		edge1 := s.Vertices[f[1]].Subtract(s.Vertices[f[0]])
		edge2 := s.Vertices[f[2]].Subtract(s.Vertices[f[0]])
		if edge1.Cross(edge2).LengthSquared() == 0 {
			return fmt.Errorf("scene: %s surface face %d is degenerate (zero area): %w", name, j, ErrGeometry)
		}
	}
	for j, n := range s.Normals {
		if !n.IsUnit(1e-6) {
			return fmt.Errorf("scene: %s surface normal %d is not unit-norm (|n|=%f): %w", name, j, n.Length(), ErrGeometry)
		}
	}
	for j, id := range s.MaterialID {
		if _, ok := scatter.ByMaterialID(id); !ok {
			return fmt.Errorf("scene: %s surface face %d material id %d is not a recognised scattering law: %w", name, j, id, ErrConfiguration)
		}
	}

	return nil
}
