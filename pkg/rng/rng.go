// Package rng provides the reproducible pseudorandom streams used by the
// source sampler and scattering kernel (C1). One Stream is created per pixel
// task, seeded from the run's base seed and the pixel's linear index only —
// never the worker index — so tallies are reproducible independent of how
// many workers happen to run the scan (see renderer.Run).
package rng

import (
	"math"
	"math/rand"

	"github.com/shem-sim/shem-raytracer/pkg/core"
)

// Stream is a per-task pseudorandom source. It is not safe for concurrent
// use; each pixel task owns exactly one.
type Stream struct {
	r          *rand.Rand
	haveSpareG bool
	spareGauss float64
}

// New seeds a stream deterministically from baseSeed and pixelIndex.
func New(baseSeed int64, pixelIndex int) *Stream {
	seed := mix(baseSeed, int64(pixelIndex))
	return &Stream{r: rand.New(rand.NewSource(seed))}
}

// mix combines the base seed and pixel index into a single int64 seed using
// the splitmix64 finalizer, so nearby pixel indices do not produce
// correlated low-order bits in the resulting stream.
func mix(baseSeed, pixelIndex int64) int64 {
	z := uint64(baseSeed) + uint64(pixelIndex)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return int64(z)
}

// Float64 returns a uniform real on [0,1).
func (s *Stream) Float64() float64 {
	return s.r.Float64()
}

// Signed returns a uniform real on [-1,1).
func (s *Stream) Signed() float64 {
	return 2*s.r.Float64() - 1
}

// UnitVector returns a uniform random point on the unit sphere.
func (s *Stream) UnitVector() core.Vec3 {
	// Marsaglia (1972): reject points outside the unit disc, then project.
	for {
		x := s.Signed()
		y := s.Signed()
		d2 := x*x + y*y
		if d2 < 1 {
			factor := 2 * math.Sqrt(1-d2)
			return core.NewVec3(x*factor, y*factor, 1-2*d2)
		}
	}
}

// Gaussian returns one sample from N(mu, sigma^2) using the Box-Muller
// transform. Box-Muller produces a pair per transform; the second value is
// cached and returned by the next call.
func (s *Stream) Gaussian(mu, sigma float64) float64 {
	if s.haveSpareG {
		s.haveSpareG = false
		return mu + sigma*s.spareGauss
	}

	var u1, u2 float64
	for u1 == 0 {
		u1 = s.r.Float64() // avoid log(0)
	}
	u2 = s.r.Float64()

	mag := math.Sqrt(-2 * math.Log(u1))
	z0 := mag * math.Cos(2*math.Pi*u2)
	z1 := mag * math.Sin(2*math.Pi*u2)

	s.spareGauss = z1
	s.haveSpareG = true
	return mu + sigma*z0
}

// DiscPoint returns a uniform random point within a disc of the given radius
// centred at the origin, in the (x,z) plane.
func (s *Stream) DiscPoint(radius float64) (x, z float64) {
	r := radius * math.Sqrt(s.r.Float64())
	theta := 2 * math.Pi * s.r.Float64()
	return r * math.Cos(theta), r * math.Sin(theta)
}
