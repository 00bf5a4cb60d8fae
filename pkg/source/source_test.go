package source

import (
	"math"
	"testing"

	"github.com/shem-sim/shem-raytracer/pkg/core"
	"github.com/shem-sim/shem-raytracer/pkg/rng"
)

func TestUniformPositionWithinPinholeDisc(t *testing.T) {
	model := Uniform{PinholeRadius: 0.5, MeanDirection: core.NewVec3(0, -1, 0), AngularSize: 0.1}
	stream := rng.New(10, 1)
	for i := 0; i < 2000; i++ {
		pos, dir := model.Sample(stream)
		if math.Hypot(pos.X, pos.Z) > 0.5+1e-9 {
			t.Fatalf("iter %d: position outside pinhole disc: %v", i, pos)
		}
		if !dir.IsUnit(1e-9) {
			t.Fatalf("iter %d: direction not unit length: %v", i, dir)
		}
	}
}

func TestUniformDirectionStaysWithinAngularSize(t *testing.T) {
	mean := core.NewVec3(0, -1, 0)
	model := Uniform{PinholeRadius: 0.1, MeanDirection: mean, AngularSize: 0.2}
	stream := rng.New(11, 2)
	for i := 0; i < 2000; i++ {
		_, dir := model.Sample(stream)
		angle := math.Acos(clamp(dir.Dot(mean), -1, 1))
		if angle > 0.2+1e-6 {
			t.Fatalf("iter %d: tilt angle %f exceeds AngularSize", i, angle)
		}
	}
}

func TestGaussianDirectionIsUnitAndBiasedToMean(t *testing.T) {
	mean := core.NewVec3(0, -1, 0)
	model := Gaussian{PinholeRadius: 0.1, MeanDirection: mean, Sigma: 0.05}
	stream := rng.New(12, 3)
	var sumAngle float64
	const samples = 5000
	for i := 0; i < samples; i++ {
		_, dir := model.Sample(stream)
		if !dir.IsUnit(1e-9) {
			t.Fatalf("iter %d: direction not unit length: %v", i, dir)
		}
		sumAngle += math.Acos(clamp(dir.Dot(mean), -1, 1))
	}
	meanAngle := sumAngle / samples
	if meanAngle > 0.1 {
		t.Errorf("expected small mean tilt angle for narrow Gaussian, got %f", meanAngle)
	}
}

func TestEffuseDirectionWithinHemisphereOfNormal(t *testing.T) {
	normal := core.NewVec3(0, 1, 0)
	model := Effuse{PinholeRadius: 0.2, PinholeNormal: normal}
	stream := rng.New(13, 4)
	for i := 0; i < 2000; i++ {
		_, dir := model.Sample(stream)
		if dir.Dot(normal) <= 0 {
			t.Fatalf("iter %d: effuse direction not in hemisphere of normal: %v", i, dir)
		}
		if !dir.IsUnit(1e-9) {
			t.Fatalf("iter %d: direction not unit length: %v", i, dir)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
