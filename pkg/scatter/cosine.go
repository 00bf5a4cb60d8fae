package scatter

import (
	"math"

	"github.com/shem-sim/shem-raytracer/pkg/core"
	"github.com/shem-sim/shem-raytracer/pkg/diag"
	"github.com/shem-sim/shem-raytracer/pkg/rng"
)

// Cosine implements Lambertian (cosine-weighted) scattering: φ uniform on
// [0,2π), θ drawn from p(θ) = sin(2θ) on [0,π/2] (spec.md §4.4).
type Cosine struct{}

// Scatter implements Law.
func (Cosine) Scatter(d, n core.Vec3, param float64, stream *rng.Stream, counters *diag.Counters) core.Vec3 {
	t1, t2 := tangentBasis(n)
	return resample(n, n, counters, func() core.Vec3 {
		phi, theta := sampleCosineAngles(stream)
		local := core.NewVec3(math.Sin(theta)*math.Cos(phi), math.Sin(theta)*math.Sin(phi), math.Cos(theta))
		return toWorld(t1, t2, n, local)
	})
}

// sampleCosineAngles inverts the CDF of p(θ) = sin(2θ) on [0,π/2]:
// CDF(θ) = (1 - cos(2θ))/2, so θ = acos(1 - 2u) / 2.
func sampleCosineAngles(stream *rng.Stream) (phi, theta float64) {
	phi = 2 * math.Pi * stream.Float64()
	u := stream.Float64()
	theta = math.Acos(1-2*u) / 2
	return phi, theta
}
