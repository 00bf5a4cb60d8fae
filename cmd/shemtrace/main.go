// Command shemtrace is the CLI entry point (E4): it reads a parameter file,
// assembles a scene.Scene and renderer.ScanPlan, runs the Monte Carlo driver,
// and writes one JSON file holding the tally arrays and their provenance. No
// image is rendered; plotting the Counters/Killed/Effuse grids is left to an
// external tool, per spec.md §6.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/shem-sim/shem-raytracer/pkg/core"
	"github.com/shem-sim/shem-raytracer/pkg/paramfile"
	"github.com/shem-sim/shem-raytracer/pkg/renderer"
	"github.com/shem-sim/shem-raytracer/pkg/scene"
	"github.com/shem-sim/shem-raytracer/pkg/source"
)

func main() {
	var (
		paramsPath = flag.String("params", "", "path to the SHeM parameter file (required)")
		outPath    = flag.String("out", "", "path to write the JSON provenance sidecar (default: <output label>.json)")
		workers    = flag.Int("workers", 0, "worker goroutines (0 = runtime.NumCPU())")
		seed       = flag.Int64("seed", 0, "override the parameter file's seed when non-zero")
	)
	flag.Parse()

	if *paramsPath == "" {
		fmt.Fprintln(os.Stderr, "shemtrace: -params is required")
		os.Exit(2)
	}

	if err := run(*paramsPath, *outPath, *workers, *seed); err != nil {
		log.Printf("shemtrace: %v", err)
		os.Exit(1)
	}
}

func run(paramsPath, outPath string, workers int, seedOverride int64) error {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	f, err := os.Open(paramsPath)
	if err != nil {
		return fmt.Errorf("opening parameter file: %w", err)
	}
	defer f.Close()

	p, err := paramfile.Parse(f, logger)
	if err != nil {
		return fmt.Errorf("parsing parameter file: %w", err)
	}

	sc, err := buildScene(p)
	if err != nil {
		return err
	}

	plan, err := buildScanPlan(p)
	if err != nil {
		return err
	}

	cfg, err := buildConfig(p, workers, seedOverride, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	result := renderer.Run(context.Background(), sc, plan, cfg)
	logger.Printf("shemtrace: scan complete in %v, run id %s", time.Since(start), result.RunID)

	if outPath == "" {
		outPath = p.OutputLabel + ".json"
		if p.OutputLabel == "" {
			outPath = "shemtrace_result.json"
		}
	}
	return writeProvenance(outPath, p, cfg.Seed, result)
}

func buildScene(p paramfile.Params) (*scene.Scene, error) {
	materialID, materialParam, err := scatteringMaterial(p)
	if err != nil {
		return nil, err
	}
	sample, sphere, err := buildSample(p, materialID, materialParam)
	if err != nil {
		return nil, err
	}
	plate, err := buildPlate(p)
	if err != nil {
		return nil, err
	}
	apertures, err := buildApertures(p)
	if err != nil {
		return nil, err
	}
	return scene.New(sample, plate, sphere, apertures, false)
}

func buildScanPlan(p paramfile.Params) (renderer.ScanPlan, error) {
	switch strings.ToLower(p.ScanType) {
	case "rectangular":
		if p.PixelSeparation <= 0 {
			return nil, fmt.Errorf("shemtrace: pixel separation must be positive for a rectangular scan")
		}
		nx := int(math.Round((p.ScanRangeX[1]-p.ScanRangeX[0])/p.PixelSeparation)) + 1
		nz := int(math.Round((p.ScanRangeZ[1]-p.ScanRangeZ[0])/p.PixelSeparation)) + 1
		if nx < 1 {
			nx = 1
		}
		if nz < 1 {
			nz = 1
		}
		return renderer.RectangularScan{
			Nx: nx, Nz: nz,
			XLow: p.ScanRangeX[0], ZLow: p.ScanRangeZ[0],
			Step: p.PixelSeparation,
		}, nil

	case "rotations":
		if len(p.RotationAngles) == 0 {
			return nil, fmt.Errorf("shemtrace: \"rotation angles\" is required for a rotations scan")
		}
		return renderer.RotationsScan{AnglesX: p.RotationAngles, AnglesZ: make([]float64, len(p.RotationAngles))}, nil

	case "single pixel":
		return renderer.SinglePixelScan{}, nil

	case "line":
		if p.PixelSeparation <= 0 {
			return nil, fmt.Errorf("shemtrace: pixel separation must be positive for a line scan")
		}
		n := int(math.Round((p.ScanRangeX[1]-p.ScanRangeX[0])/p.PixelSeparation)) + 1
		if n < 1 {
			n = 1
		}
		return renderer.LineScan{
			N:         n,
			Start:     core.NewVec3(p.ScanRangeX[0], 0, 0),
			Direction: core.NewVec3(1, 0, 0),
			Step:      p.PixelSeparation,
		}, nil

	default:
		return nil, fmt.Errorf("shemtrace: unrecognised scan type %q", p.ScanType)
	}
}

func buildConfig(p paramfile.Params, workers int, seedOverride int64, logger *log.Logger) (renderer.Config, error) {
	seed := p.Seed
	if seedOverride != 0 {
		seed = seedOverride
	}

	mean := incidenceDirection(p)
	var src source.Model
	switch strings.ToLower(p.SourceModel) {
	case "uniform":
		src = source.Uniform{PinholeRadius: p.PinholeRadius, MeanDirection: mean, AngularSize: p.AngularSourceSize}
	case "gaussian":
		src = source.Gaussian{PinholeRadius: p.PinholeRadius, MeanDirection: mean, Sigma: p.SourceStddev}
	default:
		return renderer.Config{}, fmt.Errorf("shemtrace: unrecognised source model %q", p.SourceModel)
	}

	var effuse source.Model
	effuseCount := 0
	if p.EffuseBeam {
		effuse = source.Effuse{PinholeRadius: p.PinholeRadius, PinholeNormal: mean}
		effuseCount = int(float64(p.RayCount) * p.EffuseRelSize)
	}

	return renderer.Config{
		RayCount:     p.RayCount,
		EffuseCount:  effuseCount,
		MaxScatter:   p.MaxScatter,
		Seed:         seed,
		Source:       src,
		EffuseSource: effuse,
		NumWorkers:   workers,
		Logger:       logger,
	}, nil
}

// provenance is the JSON file a run writes: the tally arrays plus the run id,
// ray count, scatter budget, grid size, effective seed and output label.
type provenance struct {
	RunID       string          `json:"run_id"`
	Elapsed     string          `json:"elapsed"`
	RayCount    int             `json:"ray_count"`
	MaxScatter  int             `json:"max_scatter"`
	NX          int             `json:"nx"`
	NZ          int             `json:"nz"`
	Seed        int64           `json:"seed"`
	OutputLabel string          `json:"output_label"`
	Counters    [][][]int       `json:"counters"`
	Killed      [][]int         `json:"killed"`
	Effuse      [][]int         `json:"effuse"`
	PerAperture map[int][][]int `json:"per_aperture"`
	Diagnostics struct {
		SingularSystem      int `json:"singular_system"`
		DegenerateDirection int `json:"degenerate_direction"`
		ResampleExhausted   int `json:"resample_exhausted"`
	} `json:"diagnostics"`
}

func writeProvenance(path string, p paramfile.Params, seed int64, result renderer.ScanResult) error {
	out := provenance{
		RunID:       result.RunID.String(),
		Elapsed:     result.Elapsed.String(),
		RayCount:    result.RayCount,
		MaxScatter:  result.MaxScatter,
		NX:          result.NX,
		NZ:          result.NZ,
		Seed:        seed,
		OutputLabel: p.OutputLabel,
		Counters:    result.Counters,
		Killed:      result.Killed,
		Effuse:      result.Effuse,
		PerAperture: result.PerAperture,
	}
	out.Diagnostics.SingularSystem = result.Diagnostics.SingularSystem
	out.Diagnostics.DegenerateDirection = result.Diagnostics.DegenerateDirection
	out.Diagnostics.ResampleExhausted = result.Diagnostics.ResampleExhausted

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling provenance: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing provenance to %q: %w", path, err)
	}
	return nil
}
