// Package paramfile parses the line-oriented key-value parameter file of
// spec.md §6: "%" comment lines, "<Key>: <Value>" data lines. This is a
// bespoke, non-YAML/non-INI grammar (no library in the example pack reads
// this exact shape), so it is parsed with bufio.Scanner and strings
// splitting rather than a third-party config library — see DESIGN.md.
// Unknown keys are logged as a warning via core.Logger and ignored, never
// fatal, per spec.md §6.
package paramfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shem-sim/shem-raytracer/pkg/core"
	"github.com/shem-sim/shem-raytracer/pkg/diag"
)

// Params is the parsed parameter set, covering the keys named in spec.md §6.
type Params struct {
	WorkingDistance float64
	IncidenceAngle  float64

	ScanType        string // rectangular | rotations | single pixel | line
	ScanRangeX      [2]float64
	ScanRangeZ      [2]float64
	PixelSeparation float64
	RotationAngles  []float64
	IgnoreIncidence bool

	DetectorType     string // aperture | hemisphere
	DetectorCount    int
	DetectorFullAxes [][2]float64
	DetectorCentres  [][2]float64
	ApertureFile     string

	PinholeModel  string // cambridge | new | a filesystem path
	PinholeRadius float64

	RayCount          int
	SourceModel       string // Uniform | Gaussian
	AngularSourceSize float64
	SourceStddev      float64
	EffuseBeam        bool
	EffuseRelSize     float64

	SampleType        string // flat | sphere | custom | photoStereo
	SampleDescription string
	SampleWorkingDist float64
	SphereRadius      float64
	FlatSideLength    float64
	CustomSTLPath     string
	ManualAlignment   bool

	Scattering      string // specular | cosine | uniform | broadened | mixed
	Reflectivity    float64
	ScatteringStdev float64

	MaxScatter    int
	Seed          int64
	OutputLabel   string
	RecompileFlag bool
}

// Parse reads a parameter file from r, filling in Params and logging a
// warning via logger for every unrecognised key.
func Parse(r io.Reader, logger core.Logger) (Params, error) {
	p := Params{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		key, value, ok := splitKeyValue(line)
		if !ok {
			return p, fmt.Errorf("paramfile: line %d: expected \"<Key>: <Value>\", got %q: %w", lineNo, line, diag.ErrConfiguration)
		}
		if err := assign(&p, key, value); err != nil {
			if logger != nil {
				logger.Printf("paramfile: line %d: %v", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return p, fmt.Errorf("paramfile: reading input: %w", err)
	}
	return p, nil
}

func splitKeyValue(line string) (key, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}

func assign(p *Params, key, value string) error {
	switch strings.ToLower(key) {
	case "working distance":
		return setFloat(&p.WorkingDistance, value)
	case "incidence angle":
		return setFloat(&p.IncidenceAngle, value)
	case "scan type":
		p.ScanType = value
	case "scan range x":
		return setFloatPair(&p.ScanRangeX, value)
	case "scan range y":
		return setFloatPair(&p.ScanRangeZ, value)
	case "pixel separation":
		return setFloat(&p.PixelSeparation, value)
	case "rotation angles":
		vals, err := parseFloatList(value)
		if err != nil {
			return err
		}
		p.RotationAngles = vals
	case "ignore incidence angle flag":
		return setBool(&p.IgnoreIncidence, value)
	case "detector type":
		p.DetectorType = value
	case "detector count":
		return setInt(&p.DetectorCount, value)
	case "detector full axes":
		pair, err := parseFloatPair(value)
		if err != nil {
			return err
		}
		p.DetectorFullAxes = append(p.DetectorFullAxes, pair)
	case "detector centres":
		pair, err := parseFloatPair(value)
		if err != nil {
			return err
		}
		p.DetectorCentres = append(p.DetectorCentres, pair)
	case "aperture file":
		p.ApertureFile = value
	case "stl pinhole model":
		p.PinholeModel = value
	case "pinhole radius":
		return setFloat(&p.PinholeRadius, value)
	case "ray count":
		return setInt(&p.RayCount, value)
	case "source model":
		p.SourceModel = value
	case "angular source size":
		return setFloat(&p.AngularSourceSize, value)
	case "source stddev":
		return setFloat(&p.SourceStddev, value)
	case "effuse beam":
		return setOnOff(&p.EffuseBeam, value)
	case "effuse relative size":
		return setFloat(&p.EffuseRelSize, value)
	case "sample type":
		p.SampleType = value
	case "sample description":
		p.SampleDescription = value
	case "sample working distance":
		return setFloat(&p.SampleWorkingDist, value)
	case "sphere radius":
		return setFloat(&p.SphereRadius, value)
	case "flat side length":
		return setFloat(&p.FlatSideLength, value)
	case "custom stl path":
		p.CustomSTLPath = value
	case "manual alignment":
		return setYesNo(&p.ManualAlignment, value)
	case "scattering":
		p.Scattering = value
	case "reflectivity":
		return setFloat(&p.Reflectivity, value)
	case "scattering stddev":
		return setFloat(&p.ScatteringStdev, value)
	case "max scatter":
		return setInt(&p.MaxScatter, value)
	case "seed":
		return setInt64(&p.Seed, value)
	case "output label":
		p.OutputLabel = value
	case "recompile flag":
		return setBool(&p.RecompileFlag, value)
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

func setFloat(dst *float64, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid float %q: %w", value, err)
	}
	*dst = v
	return nil
}

func setInt(dst *int, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid int %q: %w", value, err)
	}
	*dst = v
	return nil
}

func setInt64(dst *int64, value string) error {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid int %q: %w", value, err)
	}
	*dst = v
	return nil
}

func setBool(dst *bool, value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1":
		*dst = true
	case "false", "0":
		*dst = false
	default:
		return fmt.Errorf("invalid bool %q", value)
	}
	return nil
}

func setOnOff(dst *bool, value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on":
		*dst = true
	case "off":
		*dst = false
	default:
		return fmt.Errorf("expected On/Off, got %q", value)
	}
	return nil
}

func setYesNo(dst *bool, value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes":
		*dst = true
	case "no":
		*dst = false
	default:
		return fmt.Errorf("expected yes/no, got %q", value)
	}
	return nil
}

func parseFloatPair(value string) ([2]float64, error) {
	vals, err := parseFloatList(strings.Trim(value, "()"))
	if err != nil {
		return [2]float64{}, err
	}
	if len(vals) != 2 {
		return [2]float64{}, fmt.Errorf("expected a pair \"(x,y)\", got %q", value)
	}
	return [2]float64{vals[0], vals[1]}, nil
}

func setFloatPair(dst *[2]float64, value string) error {
	pair, err := parseFloatPair(value)
	if err != nil {
		return err
	}
	*dst = pair
	return nil
}

func parseFloatList(value string) ([]float64, error) {
	parts := strings.Split(value, ",")
	vals := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float list %q: %w", value, err)
		}
		vals = append(vals, v)
	}
	return vals, nil
}
