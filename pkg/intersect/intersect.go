// Package intersect implements the intersection kernel (C5): given a ray and
// the scene, returns the nearest forward intersection and its context.
// Grounded on the teacher's core.BVH.Hit dispatch pattern (pkg/core/bvh.go)
// but evaluated as a flat linear scan, per spec.md §4.5's explicit
// evaluation order and tie-break rule (a BVH's traversal order is not
// guaranteed to match it).
package intersect

import (
	"math"

	"github.com/shem-sim/shem-raytracer/pkg/core"
	"github.com/shem-sim/shem-raytracer/pkg/diag"
	"github.com/shem-sim/shem-raytracer/pkg/geometry"
	"github.com/shem-sim/shem-raytracer/pkg/scene"
)

// Hit carries everything the propagator needs from a successful intersection
// test: the squared distance from the ray origin (used only for the
// nearest-candidate comparison), the world-space point and outward normal,
// the surface identifier and element index (-1 for the sphere and for a
// back-wall plate hit), and the detected aperture index (0 if none).
type Hit struct {
	DistSq   float64
	Point    core.Vec3
	Normal   core.Vec3
	Surface  core.SurfaceID
	Element  int
	Aperture int
}

// NearestHit evaluates, in order, the sample triangulated surface, the
// analytic sphere, and the plate, returning the candidate with the smallest
// squared distance. Exact ties keep the earlier-evaluated candidate
// (spec.md §4.5). excl identifies the (surface, element) the ray was just
// emitted from, suppressing self-intersection. firstFlight is true only for
// the very first intersection test a freshly emitted ray undergoes; the
// plate is skipped on that test unless sc.FirstFlightIncludesPlate is set.
func NearestHit(ray core.Ray, sc *scene.Scene, placement scene.Placement, excl core.SurfaceRef, firstFlight bool, counters *diag.Counters) (Hit, bool) {
	best := Hit{DistSq: math.Inf(1)}
	found := false

	for j := 0; j < sc.Sample.NumFaces(); j++ {
		if excl.Matches(core.SurfaceSample, j) {
			continue
		}
		a, b, c, normal := sc.SampleFace(placement, j)
		if ray.Direction.Dot(normal) > 0 {
			continue
		}
		if geometry.BehindOrigin(ray, a, b, c) {
			continue
		}
		th, ok := geometry.RayTriangleHit(ray, a, b, c)
		if !ok {
			if counters != nil && geometry.IsSingular(ray, a, b, c) {
				counters.SingularSystem++
			}
			continue
		}
		distSq := th.Point.Subtract(ray.Origin).LengthSquared()
		if !found || distSq < best.DistSq {
			best = Hit{DistSq: distSq, Point: th.Point, Normal: normal, Surface: core.SurfaceSample, Element: j}
			found = true
		}
	}

	if sc.Sphere.Present && !excl.Matches(core.SurfaceSphere, -1) {
		if sh, ok := geometry.RaySphereHit(ray, sc.Sphere.Centre, sc.Sphere.Radius); ok {
			distSq := sh.Point.Subtract(ray.Origin).LengthSquared()
			if !found || distSq < best.DistSq {
				best = Hit{DistSq: distSq, Point: sh.Point, Normal: sh.Normal, Surface: core.SurfaceSphere, Element: -1}
				found = true
			}
		}
	}

	if !firstFlight || sc.FirstFlightIncludesPlate {
		if plateHit, ok := nearestPlateHit(ray, sc, excl, counters); ok {
			if !found || plateHit.DistSq < best.DistSq {
				best = plateHit
				found = true
			}
		}
	}

	return best, found
}

func nearestPlateHit(ray core.Ray, sc *scene.Scene, excl core.SurfaceRef, counters *diag.Counters) (Hit, bool) {
	if sc.Plate.Triangulated != nil {
		return nearestTriangulatedPlateHit(ray, sc, excl, counters)
	}
	return backWallPlateHit(ray, sc, excl)
}

func nearestTriangulatedPlateHit(ray core.Ray, sc *scene.Scene, excl core.SurfaceRef, counters *diag.Counters) (Hit, bool) {
	plate := sc.Plate.Triangulated
	best := Hit{DistSq: math.Inf(1)}
	found := false
	for j := 0; j < plate.NumFaces(); j++ {
		if excl.Matches(core.SurfacePlate, j) {
			continue
		}
		a, b, c, normal := plate.Face(j)
		if ray.Direction.Dot(normal) > 0 {
			continue
		}
		if geometry.BehindOrigin(ray, a, b, c) {
			continue
		}
		th, ok := geometry.RayTriangleHit(ray, a, b, c)
		if !ok {
			if counters != nil && geometry.IsSingular(ray, a, b, c) {
				counters.SingularSystem++
			}
			continue
		}
		distSq := th.Point.Subtract(ray.Origin).LengthSquared()
		if !found || distSq < best.DistSq {
			best = Hit{
				DistSq:   distSq,
				Point:    th.Point,
				Normal:   normal,
				Surface:  core.SurfacePlate,
				Element:  j,
				Aperture: apertureAt(sc, th.Point),
			}
			found = true
		}
	}
	return best, found
}

// backWallPlateHit tests the analytic flat-disc plate model: a circular
// region of radius Radius in the plane y=0, outward normal (0,-1,0). A hit
// outside the disc is not a hit at all (the ray passes the plate's edge); a
// hit inside the disc but outside every aperture is reported only if
// PlateRepresent is set (an absorbing plate body), otherwise the ray passes
// straight through.
func backWallPlateHit(ray core.Ray, sc *scene.Scene, excl core.SurfaceRef) (Hit, bool) {
	if excl.Matches(core.SurfacePlate, -1) {
		return Hit{}, false
	}
	wall := sc.Plate.BackWall
	ph, ok := geometry.RayPlaneHit(ray, core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0))
	if !ok {
		return Hit{}, false
	}
	radial := math.Hypot(ph.Point.X, ph.Point.Z)
	if radial > wall.Radius {
		return Hit{}, false
	}
	aperture := apertureAt(sc, ph.Point)
	if aperture == 0 && !wall.PlateRepresent {
		return Hit{}, false
	}
	distSq := ph.Point.Subtract(ray.Origin).LengthSquared()
	return Hit{
		DistSq:   distSq,
		Point:    ph.Point,
		Normal:   core.NewVec3(0, -1, 0),
		Surface:  core.SurfacePlate,
		Element:  -1,
		Aperture: aperture,
	}, true
}

// apertureAt returns the 1-based index of the first aperture containing
// point's (x,z) coordinates, or 0 if the point falls in none.
func apertureAt(sc *scene.Scene, point core.Vec3) int {
	p := core.NewVec2(point.X, point.Z)
	for i, ap := range sc.Apertures {
		if geometry.InEllipse(p, ap.Centre, ap.FullAxisX, ap.FullAxisZ) {
			return i + 1
		}
	}
	return 0
}
