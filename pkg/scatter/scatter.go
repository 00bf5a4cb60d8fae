// Package scatter implements the scattering kernel (C4): given an incoming
// direction, a surface normal, and a per-facet material id/parameter, it
// samples a new outgoing direction. Grounded on the teacher raytracer's
// per-struct Material.Scatter idiom (pkg/material/lambertian.go,
// pkg/material/metal.go), generalised from BRDF/PDF path-tracing results to
// the spec's simpler "just the outgoing direction" contract.
package scatter

import (
	"math"

	"github.com/shem-sim/shem-raytracer/pkg/core"
	"github.com/shem-sim/shem-raytracer/pkg/diag"
	"github.com/shem-sim/shem-raytracer/pkg/rng"
)

// Law is one of the five scattering laws of spec.md §4.4.
type Law interface {
	// Scatter returns a new unit outgoing direction d' given the incoming
	// direction d and the outward unit normal n, such that d'.n > 0.
	Scatter(d, n core.Vec3, param float64, stream *rng.Stream, counters *diag.Counters) core.Vec3
}

// Material IDs select a scattering law, per spec.md §3 ("per-face material
// id (non-negative integer selecting a scattering law)").
const (
	MaterialSpecular = iota
	MaterialCosine
	MaterialUniformHemisphere
	MaterialBroadened
	MaterialMixed
)

// maxResampleAttempts bounds the resample loop of spec.md §4.4: "If a
// sampled d' fails the outgoing test... resample up to a bounded number of
// attempts before falling back to the nominal direction."
const maxResampleAttempts = 8

// ByMaterialID returns the Law for the given material id, or ok=false if the
// id is not recognised (a configuration error at scene-construction time,
// per spec.md §7).
func ByMaterialID(id int) (Law, bool) {
	switch id {
	case MaterialSpecular:
		return Specular{}, true
	case MaterialCosine:
		return Cosine{}, true
	case MaterialUniformHemisphere:
		return UniformHemisphere{}, true
	case MaterialBroadened:
		return Broadened{}, true
	case MaterialMixed:
		return Mixed{}, true
	default:
		return nil, false
	}
}

// tangentBasis builds an orthonormal (t1, t2, n) frame with n as the z-axis,
// used by Cosine, UniformHemisphere and Broadened to assemble a locally
// sampled direction into world space.
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

func toWorld(t1, t2, n core.Vec3, local core.Vec3) core.Vec3 {
	return t1.Multiply(local.X).Add(t2.Multiply(local.Y)).Add(n.Multiply(local.Z))
}

// resample retries sample up to maxResampleAttempts times until it returns a
// direction with d'.n > 0, falling back to nominal if every attempt fails
// (spec.md §4.4 post-condition, §7 "Numerical degeneracy").
func resample(n core.Vec3, nominal core.Vec3, counters *diag.Counters, sample func() core.Vec3) core.Vec3 {
	for attempt := 0; attempt < maxResampleAttempts; attempt++ {
		d := sample()
		if d.Dot(n) > 0 {
			return d
		}
	}
	if counters != nil {
		counters.ResampleExhausted++
	}
	return nominal
}
