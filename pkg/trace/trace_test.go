package trace

import (
	"testing"

	"github.com/shem-sim/shem-raytracer/pkg/core"
	"github.com/shem-sim/shem-raytracer/pkg/diag"
	"github.com/shem-sim/shem-raytracer/pkg/rng"
	"github.com/shem-sim/shem-raytracer/pkg/scene"
)

func flatSpecularSample() scene.TriangleSurface {
	return scene.TriangleSurface{
		Vertices: []core.Vec3{
			core.NewVec3(-10, -2, -10),
			core.NewVec3(10, -2, -10),
			core.NewVec3(10, -2, 10),
			core.NewVec3(-10, -2, 10),
		},
		Faces:         [][3]int{{0, 1, 2}, {0, 2, 3}},
		Normals:       []core.Vec3{core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)},
		MaterialID:    []int{0, 0}, // scatter.MaterialSpecular
		MaterialParam: []float64{0, 0},
	}
}

func buildScene(t *testing.T, apertureCoversOrigin bool) *scene.Scene {
	t.Helper()
	var apertures []scene.Aperture
	if apertureCoversOrigin {
		apertures = []scene.Aperture{{Centre: core.NewVec2(0, 0), FullAxisX: 4, FullAxisZ: 4}}
	}
	sc, err := scene.New(
		flatSpecularSample(),
		scene.Plate{BackWall: &scene.BackWallPlate{Radius: 5, PlateRepresent: true}},
		scene.Sphere{},
		apertures,
		false,
	)
	if err != nil {
		t.Fatalf("unexpected scene error: %v", err)
	}
	return sc
}

func TestPropagateDetectsAfterOneSpecularBounce(t *testing.T) {
	sc := buildScene(t, true)
	ray := core.NewTraceRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0))
	stream := rng.New(1, 1)
	var counters diag.Counters
	outcome := Propagate(ray, sc, scene.Placement{}, Config{MaxScatter: 20}, stream, &counters)
	if outcome.Reason != Detected {
		t.Fatalf("expected Detected, got %v", outcome.Reason)
	}
	if outcome.ScatterCount != 1 {
		t.Errorf("expected scatter count 1, got %d", outcome.ScatterCount)
	}
	if outcome.Aperture != 1 {
		t.Errorf("expected aperture 1, got %d", outcome.Aperture)
	}
}

func TestPropagateEscapesWhenNothingInPath(t *testing.T) {
	sc := buildScene(t, true)
	ray := core.NewTraceRay(core.NewVec3(0, 20, 0), core.NewVec3(0, 1, 0))
	stream := rng.New(2, 2)
	var counters diag.Counters
	outcome := Propagate(ray, sc, scene.Placement{}, Config{MaxScatter: 20}, stream, &counters)
	if outcome.Reason != Escaped {
		t.Fatalf("expected Escaped, got %v", outcome.Reason)
	}
	if outcome.ScatterCount != 0 {
		t.Errorf("expected scatter count 0 on escape, got %d", outcome.ScatterCount)
	}
}

func TestPropagateKilledOnScatterBudgetExhaustion(t *testing.T) {
	sc := buildScene(t, false)
	ray := core.NewTraceRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0))
	stream := rng.New(3, 3)
	var counters diag.Counters
	outcome := Propagate(ray, sc, scene.Placement{}, Config{MaxScatter: 0}, stream, &counters)
	if outcome.Reason != Killed {
		t.Fatalf("expected Killed, got %v", outcome.Reason)
	}
	if outcome.ScatterCount != 1 {
		t.Errorf("expected scatter count 1 at budget exhaustion, got %d", outcome.ScatterCount)
	}
}

func TestPropagateAbsorbedByPlateBodyCountsAsKilled(t *testing.T) {
	sc := buildScene(t, false) // no aperture; back-wall disc absorbs everything within radius
	ray := core.NewTraceRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0))
	stream := rng.New(4, 4)
	var counters diag.Counters
	outcome := Propagate(ray, sc, scene.Placement{}, Config{MaxScatter: 20}, stream, &counters)
	if outcome.Reason != Killed {
		t.Fatalf("expected Killed (absorbed by plate body), got %v", outcome.Reason)
	}
	if outcome.ScatterCount != 1 {
		t.Errorf("expected scatter count 1 (one bounce off the sample before absorption), got %d", outcome.ScatterCount)
	}
}
