package scatter

import (
	"math"

	"github.com/shem-sim/shem-raytracer/pkg/core"
	"github.com/shem-sim/shem-raytracer/pkg/diag"
	"github.com/shem-sim/shem-raytracer/pkg/rng"
)

// UniformHemisphere samples d' uniformly over the hemisphere about n (equal
// probability per unit solid angle), per spec.md §4.4.
type UniformHemisphere struct{}

// Scatter implements Law.
func (UniformHemisphere) Scatter(d, n core.Vec3, param float64, stream *rng.Stream, counters *diag.Counters) core.Vec3 {
	t1, t2 := tangentBasis(n)
	return resample(n, n, counters, func() core.Vec3 {
		z := stream.Float64()
		r := math.Sqrt(1 - z*z)
		phi := 2 * math.Pi * stream.Float64()
		local := core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
		return toWorld(t1, t2, n, local)
	})
}
