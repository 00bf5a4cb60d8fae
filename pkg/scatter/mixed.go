package scatter

import (
	"github.com/shem-sim/shem-raytracer/pkg/core"
	"github.com/shem-sim/shem-raytracer/pkg/diag"
	"github.com/shem-sim/shem-raytracer/pkg/rng"
)

// Mixed probabilistically switches between Cosine and Specular per event:
// with probability param it scatters diffusely, otherwise it reflects
// specularly (spec.md §4.4, "a probabilistic switch between two laws").
type Mixed struct{}

// Scatter implements Law.
func (Mixed) Scatter(d, n core.Vec3, param float64, stream *rng.Stream, counters *diag.Counters) core.Vec3 {
	if stream.Float64() < param {
		return Cosine{}.Scatter(d, n, param, stream, counters)
	}
	return Specular{}.Scatter(d, n, param, stream, counters)
}
