// Package geometry implements the geometric primitives used by the
// intersection kernel (C2): linear algebra helpers and the ray-triangle and
// ray-sphere intersection tests, worked out directly from spec.md §4.2
// rather than the Möller-Trumbore form the teacher raytracer used, so the
// β/γ/t naming and tie-break behaviour match the spec exactly.
package geometry

import "math"

// Mat3 is a 3x3 matrix stored by column, matching the "solve for (β,γ,t)"
// system of §4.2: each column is one of the three unknown's coefficient
// vectors.
type Mat3 struct {
	Col0, Col1, Col2 [3]float64
}

// Det returns the determinant of m.
func (m Mat3) Det() float64 {
	return m.Col0[0]*(m.Col1[1]*m.Col2[2]-m.Col1[2]*m.Col2[1]) -
		m.Col1[0]*(m.Col0[1]*m.Col2[2]-m.Col0[2]*m.Col2[1]) +
		m.Col2[0]*(m.Col0[1]*m.Col1[2]-m.Col0[2]*m.Col1[1])
}

// Solve3x3 solves m*u = v by Cramer's rule, returning ok=false iff
// |det(m)| <= eps — the system is singular (or near enough that the result
// would not be numerically trustworthy), which the intersection kernel
// treats as a skip, not a crash (spec.md §4.2, §7).
func Solve3x3(m Mat3, v [3]float64, eps float64) (u [3]float64, ok bool) {
	det := m.Det()
	if math.Abs(det) <= eps {
		return u, false
	}

	u[0] = Mat3{v, m.Col1, m.Col2}.Det() / det
	u[1] = Mat3{m.Col0, v, m.Col2}.Det() / det
	u[2] = Mat3{m.Col0, m.Col1, v}.Det() / det
	return u, true
}
