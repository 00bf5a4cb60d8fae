// Package diag implements the diagnostics counters and error taxonomy of
// spec.md §7: per-ray numerical degeneracies are handled locally and tallied
// here rather than propagated as errors, while configuration/geometry/
// resource errors are fatal and propagate as ordinary Go errors wrapping the
// sentinels below.
package diag

import "errors"

// Sentinel errors for the fatal categories of spec.md §7. paramfile wraps
// ErrConfiguration for an errors.Is check at the call site; pkg/scene
// declares its own ErrConfiguration/ErrGeometry and does not wrap these.
var (
	// ErrConfiguration: missing/invalid parameter, unknown keyword,
	// contradictory settings. Reported before tracing starts; fatal.
	ErrConfiguration = errors.New("configuration error")
	// ErrGeometry: non-unit normals, zero-area faces, indices out of range.
	// Detected during scene construction; fatal.
	ErrGeometry = errors.New("geometry error")
	// ErrResource: failure to allocate per-pixel buffers. Fatal for the
	// affected task; propagated to the driver which aborts remaining tasks.
	ErrResource = errors.New("resource error")
)

// Counters tallies the numerical degeneracies of spec.md §7 ("Numerical
// degeneracy... counted in a diagnostics tally") for one worker. The
// Monte Carlo driver sums per-pixel-task counters into the scan result.
type Counters struct {
	// SingularSystem counts ray-triangle tests skipped because the 3x3
	// linear solve was singular (|det| <= epsilon).
	SingularSystem int
	// DegenerateDirection counts direction-length underflow after sampling
	// (e.g. Gaussian broadening producing a near-zero vector).
	DegenerateDirection int
	// ResampleExhausted counts scattering events where every resample
	// attempt failed the outgoing-direction test and the nominal direction
	// was used instead.
	ResampleExhausted int
}

// Add accumulates other's counts into c.
func (c *Counters) Add(other Counters) {
	c.SingularSystem += other.SingularSystem
	c.DegenerateDirection += other.DegenerateDirection
	c.ResampleExhausted += other.ResampleExhausted
}

// Total returns the sum of all counters, useful for a single log line.
func (c Counters) Total() int {
	return c.SingularSystem + c.DegenerateDirection + c.ResampleExhausted
}
