package paramfile

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ApertureDescriptor is one entry of a structured aperture file, referenced
// from the primary parameter file by an "aperture file:" key when the
// detector layout is too irregular for flat key-value lines (spec.md §6).
type ApertureDescriptor struct {
	CentreX   float64 `yaml:"centre_x"`
	CentreZ   float64 `yaml:"centre_z"`
	FullAxisX float64 `yaml:"full_axis_x"`
	FullAxisZ float64 `yaml:"full_axis_z"`
}

// ApertureFile is the top-level structure of a YAML aperture descriptor.
type ApertureFile struct {
	Apertures []ApertureDescriptor `yaml:"apertures"`
}

// ParseApertureFile reads a structured aperture descriptor from r.
func ParseApertureFile(r io.Reader) (ApertureFile, error) {
	var f ApertureFile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return ApertureFile{}, fmt.Errorf("paramfile: decoding aperture file: %w", err)
	}
	return f, nil
}
