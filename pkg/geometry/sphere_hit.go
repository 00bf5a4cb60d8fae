package geometry

import (
	"math"

	"github.com/shem-sim/shem-raytracer/pkg/core"
)

// SphereHit holds the parametric solution of a successful ray-sphere test.
type SphereHit struct {
	T      float64
	Point  core.Vec3
	Normal core.Vec3 // outward, unit
}

// RaySphereHit implements the ray-sphere test of spec.md §4.2: solves
// t² + βt + γ = 0 with β = 2d·(e-c), γ = |e-c|² - r², and takes the smaller
// non-negative root, reporting a miss when the discriminant is negative or
// both roots are non-positive.
func RaySphereHit(ray core.Ray, centre core.Vec3, radius float64) (SphereHit, bool) {
	oc := ray.Origin.Subtract(centre)

	beta := 2 * ray.Direction.Dot(oc)
	gamma := oc.Dot(oc) - radius*radius

	discriminant := beta*beta - 4*gamma
	if discriminant < 0 {
		return SphereHit{}, false
	}

	sqrtD := math.Sqrt(discriminant)
	t0 := (-beta - sqrtD) / 2
	t1 := (-beta + sqrtD) / 2

	t := math.Inf(1)
	if t0 > 0 {
		t = t0
	} else if t1 > 0 {
		t = t1
	} else {
		return SphereHit{}, false
	}

	point := ray.At(t)
	normal := point.Subtract(centre).Multiply(1.0 / radius)
	return SphereHit{T: t, Point: point, Normal: normal}, true
}
