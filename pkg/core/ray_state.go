package core

// TraceRay is a ray as tracked by the propagator (C6): its geometric state
// (Ray) plus the bookkeeping needed for self-intersection avoidance and
// scatter-count tallying. Mutated only by the propagator; discarded on
// termination.
type TraceRay struct {
	Ray          Ray
	ScatterCount int
	LastSurface  SurfaceRef
}

// NewTraceRay starts a ray fresh from the source sampler: zero scatters, not
// excluded from any surface.
func NewTraceRay(origin, direction Vec3) TraceRay {
	return TraceRay{
		Ray:         NewRay(origin, direction),
		LastSurface: NoRef,
	}
}

// Advance moves the ray to a new point after a scatter event, records which
// facet it scattered from (for the next intersection test to exclude), gives
// it a new direction, and increments the scatter count.
func (r TraceRay) Advance(point, direction Vec3, surface SurfaceID, element int) TraceRay {
	return TraceRay{
		Ray:          NewRay(point, direction),
		ScatterCount: r.ScatterCount + 1,
		LastSurface:  SurfaceRef{Surface: surface, Element: element},
	}
}
