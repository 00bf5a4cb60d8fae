package geometry

import "github.com/shem-sim/shem-raytracer/pkg/core"

// InEllipse reports whether the plate-local point p lies within an elliptic
// aperture centred at centre with full axes (a,b): x²/(a/2)² + z²/(b/2)² ≤ 1
// (spec.md §3, Detector Aperture).
func InEllipse(p, centre core.Vec2, fullAxisX, fullAxisZ float64) bool {
	halfX := fullAxisX / 2
	halfZ := fullAxisZ / 2
	dx := p.X - centre.X
	dz := p.Y - centre.Y
	return (dx*dx)/(halfX*halfX)+(dz*dz)/(halfZ*halfZ) <= 1
}
