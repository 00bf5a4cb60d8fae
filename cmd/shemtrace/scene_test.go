package main

import (
	"errors"
	"math"
	"testing"

	"github.com/shem-sim/shem-raytracer/pkg/paramfile"
	"github.com/shem-sim/shem-raytracer/pkg/scatter"
	"github.com/shem-sim/shem-raytracer/pkg/scene"
)

func TestScatteringMaterialMapsEveryLaw(t *testing.T) {
	cases := map[string]int{
		"specular":  scatter.MaterialSpecular,
		"Cosine":    scatter.MaterialCosine,
		"uniform":   scatter.MaterialUniformHemisphere,
		"BROADENED": scatter.MaterialBroadened,
		"mixed":     scatter.MaterialMixed,
	}
	for name, want := range cases {
		id, _, err := scatteringMaterial(paramfile.Params{Scattering: name})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if id != want {
			t.Errorf("%s: got material id %d, want %d", name, id, want)
		}
	}
}

func TestScatteringMaterialRejectsUnknownLaw(t *testing.T) {
	if _, _, err := scatteringMaterial(paramfile.Params{Scattering: "not-a-law"}); err == nil {
		t.Error("expected an error for an unrecognised scattering law")
	}
}

func TestBuildSampleFlatProducesTwoTriangles(t *testing.T) {
	sample, sphere, err := buildSample(paramfile.Params{SampleType: "flat", FlatSideLength: 4}, scatter.MaterialSpecular, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sphere.Present {
		t.Error("flat sample type should not populate a sphere")
	}
	if len(sample.Faces) != 2 {
		t.Fatalf("expected 2 faces, got %d", len(sample.Faces))
	}
}

func TestBuildSampleSpherePopulatesAnalyticSphere(t *testing.T) {
	_, sphere, err := buildSample(paramfile.Params{SampleType: "sphere", FlatSideLength: 4, SphereRadius: 1.5}, scatter.MaterialCosine, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sphere.Present || sphere.Radius != 1.5 {
		t.Errorf("expected a present sphere of radius 1.5, got %+v", sphere)
	}
}

func TestBuildSampleCustomRequiresPath(t *testing.T) {
	if _, _, err := buildSample(paramfile.Params{SampleType: "custom"}, scatter.MaterialSpecular, 0); err == nil {
		t.Error("expected an error when custom stl path is empty")
	}
}

func TestBuildSampleFlatAppliesWorkingDistance(t *testing.T) {
	sample, _, err := buildSample(paramfile.Params{SampleType: "flat", FlatSideLength: 4, WorkingDistance: 2.5}, scatter.MaterialSpecular, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range sample.Vertices {
		if v.Y != -2.5 {
			t.Errorf("expected every vertex at y=-2.5 (below the plate plane), got y=%v", v.Y)
		}
	}
}

func TestBuildSampleSphereRestsAtWorkingDistance(t *testing.T) {
	_, sphere, err := buildSample(paramfile.Params{SampleType: "sphere", FlatSideLength: 4, SphereRadius: 1.5, WorkingDistance: 10}, scatter.MaterialCosine, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sphere.Centre.Y != -10+1.5 {
		t.Errorf("expected sphere centre y=%v, got %v", -10+1.5, sphere.Centre.Y)
	}
}

func TestBuildSampleUsesSampleWorkingDistOverride(t *testing.T) {
	sample, _, err := buildSample(paramfile.Params{SampleType: "flat", FlatSideLength: 4, WorkingDistance: 2, SampleWorkingDist: 5}, scatter.MaterialSpecular, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range sample.Vertices {
		if v.Y != -5 {
			t.Errorf("expected sample working distance override to win, got y=%v", v.Y)
		}
	}
}

func TestBuildPlateCambridgeProducesTriangulatedMesh(t *testing.T) {
	plate, err := buildPlate(paramfile.Params{PinholeModel: "cambridge", PinholeRadius: 0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plate.Triangulated == nil || plate.BackWall != nil {
		t.Error("expected a triangulated plate for the cambridge model")
	}
}

func TestBuildPlateNewProducesBackWallModel(t *testing.T) {
	plate, err := buildPlate(paramfile.Params{PinholeModel: "new", PinholeRadius: 0.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plate.BackWall == nil || !plate.BackWall.PlateRepresent {
		t.Error("expected an absorbing back-wall plate for the \"new\" model")
	}
}

func TestBuildAperturesFromFlatKeys(t *testing.T) {
	p := paramfile.Params{
		DetectorFullAxes: [][2]float64{{1.0, 1.0}},
		DetectorCentres:  [][2]float64{{0.5, 0.5}},
	}
	apertures, err := buildApertures(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(apertures) != 1 || apertures[0].Centre.X != 0.5 {
		t.Errorf("unexpected apertures: %+v", apertures)
	}
}

func TestBuildAperturesRejectsMismatchedLengths(t *testing.T) {
	p := paramfile.Params{
		DetectorFullAxes: [][2]float64{{1.0, 1.0}, {2.0, 2.0}},
		DetectorCentres:  [][2]float64{{0.5, 0.5}},
	}
	if _, err := buildApertures(p); err == nil {
		t.Error("expected an error when detector axes and centres counts differ")
	}
}

func TestBuildAperturesRejectsHemisphereDetector(t *testing.T) {
	p := paramfile.Params{DetectorType: "hemisphere"}
	_, err := buildApertures(p)
	if !errors.Is(err, scene.ErrUnsupportedDetector) {
		t.Fatalf("expected ErrUnsupportedDetector, got %v", err)
	}
}

func TestIncidenceDirectionIsUnitAndTiltsAwayFromStraightDown(t *testing.T) {
	dir := incidenceDirection(paramfile.Params{IncidenceAngle: 30})
	if !dir.IsUnit(1e-9) {
		t.Errorf("expected a unit direction, got %v", dir)
	}
	straightDown := incidenceDirection(paramfile.Params{IncidenceAngle: 0})
	if math.Abs(dir.Y-straightDown.Y) < 1e-6 {
		t.Error("expected a non-zero incidence angle to tilt away from straight down")
	}
}

func TestIncidenceDirectionIgnoresAngleWhenFlagSet(t *testing.T) {
	dir := incidenceDirection(paramfile.Params{IncidenceAngle: 45, IgnoreIncidence: true})
	if dir.X != 0 || dir.Y != -1 || dir.Z != 0 {
		t.Errorf("expected straight down when ignoring incidence angle, got %v", dir)
	}
}
