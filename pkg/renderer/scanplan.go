package renderer

import (
	"github.com/shem-sim/shem-raytracer/pkg/core"
	"github.com/shem-sim/shem-raytracer/pkg/scene"
)

// ScanPlan enumerates the pixels of a scan, yielding the sample Placement
// for each. Rectangular, rotations, single-pixel, and line are the four
// scan types of spec.md §6.
type ScanPlan interface {
	NumPixels() int
	NX() int
	NZ() int
	// Pixel returns the (i,j) grid coordinates and sample Placement for the
	// given 0-based pixel index, 0 <= index < NumPixels().
	Pixel(index int) (i, j int, placement scene.Placement)
}

// RectangularScan positions the sample on an nx-by-nz grid with constant
// step, per spec.md §4.8.
type RectangularScan struct {
	Nx, Nz int
	XLow   float64
	ZLow   float64
	Step   float64
}

// NumPixels implements ScanPlan.
func (r RectangularScan) NumPixels() int { return r.Nx * r.Nz }

// NX implements ScanPlan.
func (r RectangularScan) NX() int { return r.Nx }

// NZ implements ScanPlan.
func (r RectangularScan) NZ() int { return r.Nz }

// Pixel implements ScanPlan.
func (r RectangularScan) Pixel(index int) (int, int, scene.Placement) {
	i := index % r.Nx
	j := index / r.Nx
	offset := core.NewVec3(r.XLow+float64(i)*r.Step, 0, r.ZLow+float64(j)*r.Step)
	return i, j, scene.Placement{Offset: offset}
}

// RotationsScan re-poses the sample by rotation instead of translation,
// stepping through an ordered list of (x,z) rotation angle pairs.
type RotationsScan struct {
	AnglesX []float64
	AnglesZ []float64
}

// NumPixels implements ScanPlan.
func (r RotationsScan) NumPixels() int { return len(r.AnglesX) }

// NX implements ScanPlan.
func (r RotationsScan) NX() int { return len(r.AnglesX) }

// NZ implements ScanPlan.
func (r RotationsScan) NZ() int { return 1 }

// Pixel implements ScanPlan.
func (r RotationsScan) Pixel(index int) (int, int, scene.Placement) {
	rotation := core.NewVec3(r.AnglesX[index], 0, r.AnglesZ[index])
	return index, 0, scene.Placement{Rotation: rotation}
}

// SinglePixelScan renders exactly one placement, useful for the end-to-end
// scenarios of spec.md §8 that do not sweep a raster.
type SinglePixelScan struct {
	Placement scene.Placement
}

// NumPixels implements ScanPlan.
func (s SinglePixelScan) NumPixels() int { return 1 }

// NX implements ScanPlan.
func (s SinglePixelScan) NX() int { return 1 }

// NZ implements ScanPlan.
func (s SinglePixelScan) NZ() int { return 1 }

// Pixel implements ScanPlan.
func (s SinglePixelScan) Pixel(index int) (int, int, scene.Placement) {
	return 0, 0, s.Placement
}

// LineScan sweeps a 1-D line of n pixels with constant step along a
// direction vector (typically (1,0,0) or (0,0,1)).
type LineScan struct {
	N         int
	Start     core.Vec3
	Direction core.Vec3
	Step      float64
}

// NumPixels implements ScanPlan.
func (l LineScan) NumPixels() int { return l.N }

// NX implements ScanPlan.
func (l LineScan) NX() int { return l.N }

// NZ implements ScanPlan.
func (l LineScan) NZ() int { return 1 }

// Pixel implements ScanPlan.
func (l LineScan) Pixel(index int) (int, int, scene.Placement) {
	offset := l.Start.Add(l.Direction.Multiply(float64(index) * l.Step))
	return index, 0, scene.Placement{Offset: offset}
}
