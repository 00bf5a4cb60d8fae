package scene

import "errors"

// ErrConfiguration marks a missing/invalid parameter or contradictory
// setting, detected before tracing begins (spec.md §7, "Configuration error").
var ErrConfiguration = errors.New("configuration error")

// ErrGeometry marks non-unit normals, zero-area faces, or out-of-range
// indices, detected during scene construction (spec.md §7, "Geometry error").
var ErrGeometry = errors.New("geometry error")

// ErrUnsupportedDetector marks a parameter file requesting a detector model
// the original sources left unfinished (spec.md §9: the "abstract hemisphere"
// detector placeholder). Rather than guess intent, cmd/shemtrace's aperture
// set-up (buildApertures) fails with this sentinel; New itself never returns it.
var ErrUnsupportedDetector = errors.New("unsupported detector model")
