package meshio

import (
	"math"
	"testing"

	"github.com/shem-sim/shem-raytracer/pkg/core"
)

func TestCambridgePlateProducesClosedRing(t *testing.T) {
	mesh := CambridgePlate(CambridgePlateParams{SideLength: 10, PinholeRadius: 1, Segments: 16})

	if len(mesh.Faces) != 32 {
		t.Fatalf("expected 2 triangles per segment (32), got %d", len(mesh.Faces))
	}
	if len(mesh.MaterialID) != len(mesh.Faces) || len(mesh.MaterialParam) != len(mesh.Faces) {
		t.Errorf("expected material arrays sized to face count")
	}
	for i, n := range mesh.Normals {
		if !n.IsUnit(1e-9) {
			t.Errorf("face %d: expected unit normal, got %v", i, n)
		}
	}
}

func TestCambridgePlateDefaultsSegments(t *testing.T) {
	mesh := CambridgePlate(CambridgePlateParams{SideLength: 4, PinholeRadius: 0.5})
	if len(mesh.Faces) != 64 {
		t.Errorf("expected default segment count of 32 (64 faces), got %d", len(mesh.Faces))
	}
}

func TestCambridgePlateNormalMatchesBackWallConvention(t *testing.T) {
	mesh := CambridgePlate(CambridgePlateParams{SideLength: 4, PinholeRadius: 0.5, Segments: 8})
	want := core.NewVec3(0, -1, 0)
	for i, n := range mesh.Normals {
		if !n.Equals(want) {
			t.Errorf("face %d: expected outward normal %v, got %v", i, want, n)
		}
	}
}

func TestCambridgePlateOuterRingReachesSquareBoundary(t *testing.T) {
	mesh := CambridgePlate(CambridgePlateParams{SideLength: 6, PinholeRadius: 0.2, Segments: 8})
	half := 3.0
	for _, v := range mesh.Vertices {
		if math.Abs(v.X) > half+1e-9 || math.Abs(v.Z) > half+1e-9 {
			t.Errorf("vertex %v falls outside the square plate", v)
		}
	}
}
