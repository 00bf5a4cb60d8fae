// Package trace implements the ray propagator (C6): the per-ray state
// machine wrapping the intersection kernel (C5) and scattering kernel (C4),
// terminating a ray by detection, escape, or scatter-budget exhaustion.
// Grounded on the teacher's recursive ray-color loop
// (renderer.Raytracer.rayColorRecursive) but restructured as an explicit
// loop over named states rather than recursion.
package trace

import (
	"github.com/shem-sim/shem-raytracer/pkg/core"
	"github.com/shem-sim/shem-raytracer/pkg/diag"
	"github.com/shem-sim/shem-raytracer/pkg/intersect"
	"github.com/shem-sim/shem-raytracer/pkg/rng"
	"github.com/shem-sim/shem-raytracer/pkg/scatter"
	"github.com/shem-sim/shem-raytracer/pkg/scene"
)

// Reason names the terminal state a ray reached.
type Reason int

const (
	// Escaped: the ray left the scene without hitting any surface.
	Escaped Reason = iota
	// Detected: the ray reached a detector aperture.
	Detected
	// Killed: the ray's scatter count reached the budget, or it was
	// absorbed by a non-apertured back-wall plate body.
	Killed
	// Dropped: scattering produced a zero-length direction. The ray is
	// counted in diag.Counters.DegenerateDirection and in no tally.
	Dropped
)

// Outcome is the result of propagating one ray to termination.
type Outcome struct {
	Reason       Reason
	ScatterCount int
	Aperture     int // valid only when Reason == Detected
}

// Config holds the propagator's tunables.
type Config struct {
	// MaxScatter is the scatter budget; a ray reaching this many sample
	// scattering events without detection or escape is Killed.
	MaxScatter int
}

// Propagate drives ray through sc until it terminates. The plate
// participates in the very first intersection test only if
// sc.FirstFlightIncludesPlate is set (spec.md §4.6 first-scatter policy).
func Propagate(ray core.TraceRay, sc *scene.Scene, placement scene.Placement, cfg Config, stream *rng.Stream, counters *diag.Counters) Outcome {
	firstFlight := true
	for {
		hit, ok := intersect.NearestHit(ray.Ray, sc, placement, ray.LastSurface, firstFlight, counters)
		firstFlight = false

		if !ok {
			return Outcome{Reason: Escaped, ScatterCount: ray.ScatterCount}
		}

		if hit.Surface == core.SurfacePlate && hit.Aperture > 0 {
			return Outcome{Reason: Detected, ScatterCount: ray.ScatterCount, Aperture: hit.Aperture}
		}

		if hit.Surface == core.SurfacePlate && hit.Element == -1 {
			// Back-wall disc hit outside every aperture; NearestHit only
			// reports this when PlateRepresent absorbs it (pass-through
			// hits are filtered out as misses upstream).
			return Outcome{Reason: Killed, ScatterCount: ray.ScatterCount}
		}

		materialID, materialParam := materialAt(sc, hit)
		law, ok := scatter.ByMaterialID(materialID)
		if !ok {
			// Unknown material ids are rejected by scene.New; this is an
			// unreachable defensive fallback, not a real code path.
			return Outcome{Reason: Killed, ScatterCount: ray.ScatterCount}
		}

		newDir := law.Scatter(ray.Ray.Direction, hit.Normal, materialParam, stream, counters)
		if newDir.IsZero() {
			counters.DegenerateDirection++
			return Outcome{Reason: Dropped, ScatterCount: ray.ScatterCount}
		}

		ray = ray.Advance(hit.Point, newDir, hit.Surface, hit.Element)
		if ray.ScatterCount >= cfg.MaxScatter {
			return Outcome{Reason: Killed, ScatterCount: ray.ScatterCount}
		}
	}
}

// materialAt looks up the per-facet material id and parameter for a hit,
// dispatching on which surface was struck.
func materialAt(sc *scene.Scene, hit intersect.Hit) (materialID int, materialParam float64) {
	switch hit.Surface {
	case core.SurfaceSample:
		return sc.Sample.MaterialID[hit.Element], sc.Sample.MaterialParam[hit.Element]
	case core.SurfaceSphere:
		return sc.Sphere.MaterialID, sc.Sphere.MaterialParam
	case core.SurfacePlate:
		return sc.Plate.Triangulated.MaterialID[hit.Element], sc.Plate.Triangulated.MaterialParam[hit.Element]
	default:
		return 0, 0
	}
}
