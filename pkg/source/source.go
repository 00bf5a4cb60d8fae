// Package source implements the source sampler (C7): given a source model
// and its parameters, produces an initial (position, direction) pair for a
// freshly emitted ray. Grounded on the teacher's camera ray-sampling pattern
// (pkg/renderer/camera.go's GetRay), generalised from a pixel-jitter
// distribution over a viewport to a pinhole-disc position plus an angular
// spread about a mean direction.
package source

import (
	"math"

	"github.com/shem-sim/shem-raytracer/pkg/core"
	"github.com/shem-sim/shem-raytracer/pkg/rng"
)

// Model samples an initial (position, direction) pair. The sampler is
// stateless apart from the RNG it is given.
type Model interface {
	Sample(stream *rng.Stream) (position, direction core.Vec3)
}

// Uniform emits rays from a point drawn uniformly within a disc of
// PinholeRadius centred on the pinhole, tilted from MeanDirection by a
// uniform random angle up to AngularSize radians (spec.md §4.7).
type Uniform struct {
	PinholeRadius float64
	MeanDirection core.Vec3
	AngularSize   float64
}

// Sample implements Model.
func (u Uniform) Sample(stream *rng.Stream) (core.Vec3, core.Vec3) {
	x, z := stream.DiscPoint(u.PinholeRadius)
	pos := core.NewVec3(x, 0, z)
	theta := u.AngularSize * stream.Float64()
	phi := 2 * math.Pi * stream.Float64()
	return pos, tilt(u.MeanDirection, theta, phi)
}

// Gaussian is as Uniform, but the tilt angle is drawn from a Gaussian of
// standard deviation Sigma radians rather than a bounded uniform angle.
type Gaussian struct {
	PinholeRadius float64
	MeanDirection core.Vec3
	Sigma         float64
}

// Sample implements Model.
func (g Gaussian) Sample(stream *rng.Stream) (core.Vec3, core.Vec3) {
	x, z := stream.DiscPoint(g.PinholeRadius)
	pos := core.NewVec3(x, 0, z)
	theta := math.Abs(stream.Gaussian(0, g.Sigma))
	phi := 2 * math.Pi * stream.Float64()
	return pos, tilt(g.MeanDirection, theta, phi)
}

// Effuse samples the low-directionality effuse beam component: position on
// the pinhole disc, direction cosine-distributed about PinholeNormal.
type Effuse struct {
	PinholeRadius float64
	PinholeNormal core.Vec3
}

// Sample implements Model.
func (e Effuse) Sample(stream *rng.Stream) (core.Vec3, core.Vec3) {
	x, z := stream.DiscPoint(e.PinholeRadius)
	pos := core.NewVec3(x, 0, z)
	phi := 2 * math.Pi * stream.Float64()
	u := stream.Float64()
	theta := math.Acos(1-2*u) / 2
	return pos, assemble(e.PinholeNormal, theta, phi)
}

// tilt perturbs mean by a polar angle theta and azimuth phi in mean's own
// tangent frame, renormalising the result.
func tilt(mean core.Vec3, theta, phi float64) core.Vec3 {
	return assemble(mean, theta, phi).Normalize()
}

func assemble(axis core.Vec3, theta, phi float64) core.Vec3 {
	t1, t2 := tangentBasis(axis)
	local := core.NewVec3(math.Sin(theta)*math.Cos(phi), math.Sin(theta)*math.Sin(phi), math.Cos(theta))
	return t1.Multiply(local.X).Add(t2.Multiply(local.Y)).Add(axis.Multiply(local.Z))
}

func tangentBasis(n core.Vec3) (t1, t2 core.Vec3) {
	var helper core.Vec3
	if math.Abs(n.X) > 0.9 {
		helper = core.NewVec3(0, 1, 0)
	} else {
		helper = core.NewVec3(1, 0, 0)
	}
	t1 = helper.Cross(n).Normalize()
	t2 = n.Cross(t1)
	return t1, t2
}
