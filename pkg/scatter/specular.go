package scatter

import (
	"github.com/shem-sim/shem-raytracer/pkg/core"
	"github.com/shem-sim/shem-raytracer/pkg/diag"
	"github.com/shem-sim/shem-raytracer/pkg/rng"
)

// Specular reflects the incoming direction about the normal: d' = d - 2(d.n)n.
type Specular struct{}

// Scatter implements Law.
func (Specular) Scatter(d, n core.Vec3, param float64, stream *rng.Stream, counters *diag.Counters) core.Vec3 {
	return core.Reflect(d, n).Normalize()
}
