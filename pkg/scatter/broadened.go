package scatter

import (
	"github.com/shem-sim/shem-raytracer/pkg/core"
	"github.com/shem-sim/shem-raytracer/pkg/diag"
	"github.com/shem-sim/shem-raytracer/pkg/rng"
)

// Broadened perturbs the ideal specular direction by a small Gaussian
// deviation in the tangent plane about it, controlled by param (the angular
// width in radians). Models a rough specular reflection (spec.md §4.4).
type Broadened struct{}

// Scatter implements Law.
func (Broadened) Scatter(d, n core.Vec3, param float64, stream *rng.Stream, counters *diag.Counters) core.Vec3 {
	s := core.Reflect(d, n).Normalize()
	t1, t2 := tangentBasis(s)
	return resample(n, s, counters, func() core.Vec3 {
		dx := stream.Gaussian(0, param)
		dy := stream.Gaussian(0, param)
		local := core.NewVec3(dx, dy, 1).Normalize()
		return toWorld(t1, t2, s, local)
	})
}
