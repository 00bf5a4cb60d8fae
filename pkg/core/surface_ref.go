package core

// SurfaceID names one of the scene's distinct surfaces for self-intersection
// suppression. Values are small integers assigned by scene.New.
type SurfaceID int

// NoSurface is the zero value, meaning "not currently on any surface" — the
// state of a freshly emitted ray.
const NoSurface SurfaceID = 0

const (
	// SurfaceSample identifies the triangulated sample mesh.
	SurfaceSample SurfaceID = iota + 1
	// SurfaceSphere identifies the analytic sphere, when present.
	SurfaceSphere
	// SurfacePlate identifies the pinhole plate (triangulated or back-wall).
	SurfacePlate
)

// SurfaceRef is the (surface, element) pair a ray was last scattered from,
// used only to exclude that exact facet from the next intersection test. It
// is a pair of small integers rather than a pointer so a Ray never borrows
// from the Scene it is traced against.
type SurfaceRef struct {
	Surface SurfaceID
	Element int // triangle index on a triangulated surface, -1 otherwise
}

// NoRef is the "not excluded from anything" reference.
var NoRef = SurfaceRef{Surface: NoSurface, Element: -1}

// Matches reports whether this reference names the given (surface, element) pair.
func (r SurfaceRef) Matches(surface SurfaceID, element int) bool {
	return r.Surface == surface && r.Element == element
}
