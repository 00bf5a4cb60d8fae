package geometry

import "github.com/shem-sim/shem-raytracer/pkg/core"

// PlaneHit holds the parametric solution of a ray-plane intersection.
type PlaneHit struct {
	T     float64
	Point core.Vec3
}

// RayPlaneHit intersects ray with the plane through point with outward unit
// normal. Used by the back-wall analytic plate model (spec.md §3), which is
// a disc of finite radius cut out of an infinite plane.
func RayPlaneHit(ray core.Ray, point, normal core.Vec3) (PlaneHit, bool) {
	denom := ray.Direction.Dot(normal)
	if denom == 0 {
		return PlaneHit{}, false
	}
	t := point.Subtract(ray.Origin).Dot(normal) / denom
	if t <= 0 {
		return PlaneHit{}, false
	}
	return PlaneHit{T: t, Point: ray.At(t)}, true
}
