package geometry

import (
	"math"

	"github.com/shem-sim/shem-raytracer/pkg/core"
)

// Epsilon bounds the singular-system test in Solve3x3, per spec.md §4.2.
const Epsilon = 1e-10

// TriangleHit holds the parametric solution of a successful ray-triangle test.
type TriangleHit struct {
	T, Beta, Gamma float64
	Point          core.Vec3
}

// RayTriangleHit implements the parametric ray-triangle test of spec.md §4.2:
// solves e + t*d = a + β(b-a) + γ(c-a) for (β, γ, t) and accepts the hit when
// β ≥ 0, γ ≥ 0, β+γ ≤ 1, and t > 0.
func RayTriangleHit(ray core.Ray, a, b, c core.Vec3) (TriangleHit, bool) {
	ab := b.Subtract(a)
	ac := c.Subtract(a)
	ae := ray.Origin.Subtract(a)

	// [ab | ac | -d] * (β, γ, t)ᵀ = ae
	m := Mat3{
		Col0: [3]float64{ab.X, ab.Y, ab.Z},
		Col1: [3]float64{ac.X, ac.Y, ac.Z},
		Col2: [3]float64{-ray.Direction.X, -ray.Direction.Y, -ray.Direction.Z},
	}
	v := [3]float64{ae.X, ae.Y, ae.Z}

	u, ok := Solve3x3(m, v, Epsilon)
	if !ok {
		return TriangleHit{}, false
	}

	beta, gamma, t := u[0], u[1], u[2]
	if beta < 0 || gamma < 0 || beta+gamma > 1 || t <= 0 {
		return TriangleHit{}, false
	}

	return TriangleHit{T: t, Beta: beta, Gamma: gamma, Point: ray.At(t)}, true
}

// IsSingular reports whether the ray-triangle linear system for (a,b,c) is
// singular (|det| <= Epsilon), independent of whether the parametric
// coordinates would otherwise land inside the triangle. Used by the
// intersection kernel to attribute a miss to diag.Counters.SingularSystem
// rather than to an ordinary out-of-range rejection.
func IsSingular(ray core.Ray, a, b, c core.Vec3) bool {
	ab := b.Subtract(a)
	ac := c.Subtract(a)
	m := Mat3{
		Col0: [3]float64{ab.X, ab.Y, ab.Z},
		Col1: [3]float64{ac.X, ac.Y, ac.Z},
		Col2: [3]float64{-ray.Direction.X, -ray.Direction.Y, -ray.Direction.Z},
	}
	return math.Abs(m.Det()) <= Epsilon
}

// BehindOrigin reports whether all three vertices lie behind, or level with,
// the ray origin along its direction (no hit with t > 0 is then possible) —
// the cheap reject used by the intersection
// kernel before attempting the full linear solve (spec.md §4.5 step 1).
func BehindOrigin(ray core.Ray, a, b, c core.Vec3) bool {
	return a.Subtract(ray.Origin).Dot(ray.Direction) <= 0 &&
		b.Subtract(ray.Origin).Dot(ray.Direction) <= 0 &&
		c.Subtract(ray.Origin).Dot(ray.Direction) <= 0
}
