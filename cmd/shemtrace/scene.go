package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/shem-sim/shem-raytracer/pkg/core"
	"github.com/shem-sim/shem-raytracer/pkg/meshio"
	"github.com/shem-sim/shem-raytracer/pkg/paramfile"
	"github.com/shem-sim/shem-raytracer/pkg/scatter"
	"github.com/shem-sim/shem-raytracer/pkg/scene"
)

// scatteringMaterial resolves a parameter file's "scattering"/"reflectivity"/
// "scattering stddev" keys into the (materialID, materialParam) pair every
// face of a built sample/plate mesh is stamped with.
func scatteringMaterial(p paramfile.Params) (int, float64, error) {
	switch strings.ToLower(p.Scattering) {
	case "specular":
		return scatter.MaterialSpecular, 0, nil
	case "cosine":
		return scatter.MaterialCosine, 0, nil
	case "uniform":
		return scatter.MaterialUniformHemisphere, 0, nil
	case "broadened":
		return scatter.MaterialBroadened, p.ScatteringStdev, nil
	case "mixed":
		return scatter.MaterialMixed, p.Reflectivity, nil
	default:
		return 0, 0, fmt.Errorf("shemtrace: unrecognised scattering law %q", p.Scattering)
	}
}

// applyMaterial overwrites every face's material id/parameter, used after a
// loader (which has no notion of scattering law) produces a mesh.
func applyMaterial(m *meshio.MeshData, materialID int, materialParam float64) {
	for i := range m.MaterialID {
		m.MaterialID[i] = materialID
		m.MaterialParam[i] = materialParam
	}
}

func toTriangleSurface(id core.SurfaceID, m meshio.MeshData) scene.TriangleSurface {
	return scene.TriangleSurface{
		ID:            id,
		Vertices:      m.Vertices,
		Faces:         m.Faces,
		Normals:       m.Normals,
		MaterialID:    m.MaterialID,
		MaterialParam: m.MaterialParam,
	}
}

// flatSquare builds the flat sample surface of the "flat" and "sphere"
// sample types: a two-triangle quad of the given side length in the plane
// y=0, outward normal +Y. buildSample translates it down by the working
// distance so it sits below the pinhole plate (plane y=0) rather than
// coincident with it.
func flatSquare(side float64) meshio.MeshData {
	half := side / 2
	verts := []core.Vec3{
		core.NewVec3(-half, 0, -half),
		core.NewVec3(half, 0, -half),
		core.NewVec3(half, 0, half),
		core.NewVec3(-half, 0, half),
	}
	normal := core.NewVec3(0, 1, 0)
	return meshio.MeshData{
		Vertices:      verts,
		Faces:         [][3]int{{0, 1, 2}, {0, 2, 3}},
		Normals:       []core.Vec3{normal, normal},
		MaterialID:    make([]int, 2),
		MaterialParam: make([]float64, 2),
	}
}

// translateMesh shifts every vertex of m by offset in place; normals are
// unaffected by a pure translation.
func translateMesh(m *meshio.MeshData, offset core.Vec3) {
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Add(offset)
	}
}

// sampleWorkingDistance resolves the Y separation between the pinhole plate
// (plane y=0) and the sample surface: "sample working distance" overrides
// the general "working distance" when set, per spec.md §6.
func sampleWorkingDistance(p paramfile.Params) float64 {
	if p.SampleWorkingDist != 0 {
		return p.SampleWorkingDist
	}
	return p.WorkingDistance
}

// loadMeshFile picks LoadSTL or LoadGLTF by file extension, the only
// dispatch meshio itself does not do (spec.md §4.2 leaves file-format
// detection to the caller supplying a path).
func loadMeshFile(path string) (meshio.MeshData, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return meshio.LoadGLTF(path)
	default:
		return meshio.LoadSTL(path)
	}
}

// buildSample constructs the sample TriangleSurface and (if SampleType is
// "sphere") the analytic Sphere resting on it, per spec.md §6's sample type
// key (flat | sphere | custom | photoStereo).
func buildSample(p paramfile.Params, materialID int, materialParam float64) (scene.TriangleSurface, scene.Sphere, error) {
	wd := sampleWorkingDistance(p)

	switch strings.ToLower(p.SampleType) {
	case "flat":
		mesh := flatSquare(p.FlatSideLength)
		translateMesh(&mesh, core.NewVec3(0, -wd, 0))
		applyMaterial(&mesh, materialID, materialParam)
		return toTriangleSurface(core.SurfaceSample, mesh), scene.Sphere{}, nil

	case "sphere":
		mesh := flatSquare(p.FlatSideLength)
		translateMesh(&mesh, core.NewVec3(0, -wd, 0))
		applyMaterial(&mesh, materialID, materialParam)
		sphere := scene.Sphere{
			Centre:        core.NewVec3(0, -wd+p.SphereRadius, 0),
			Radius:        p.SphereRadius,
			MaterialID:    materialID,
			MaterialParam: materialParam,
			Present:       true,
		}
		return toTriangleSurface(core.SurfaceSample, mesh), sphere, nil

	case "custom", "photostereo":
		if p.CustomSTLPath == "" {
			return scene.TriangleSurface{}, scene.Sphere{}, fmt.Errorf("shemtrace: sample type %q requires a custom stl path", p.SampleType)
		}
		mesh, err := loadMeshFile(p.CustomSTLPath)
		if err != nil {
			return scene.TriangleSurface{}, scene.Sphere{}, fmt.Errorf("shemtrace: loading sample mesh: %w", err)
		}
		translateMesh(&mesh, core.NewVec3(0, -wd, 0))
		applyMaterial(&mesh, materialID, materialParam)
		return toTriangleSurface(core.SurfaceSample, mesh), scene.Sphere{}, nil

	default:
		return scene.TriangleSurface{}, scene.Sphere{}, fmt.Errorf("shemtrace: unrecognised sample type %q", p.SampleType)
	}
}

// buildPlate constructs the pinhole plate: the "cambridge" built-in
// generator, the analytic back-wall model for "new", or otherwise a
// triangulated mesh loaded from the given path. An empty model is an error.
func buildPlate(p paramfile.Params) (scene.Plate, error) {
	switch {
	case strings.EqualFold(p.PinholeModel, "cambridge"):
		mesh := meshio.CambridgePlate(meshio.CambridgePlateParams{
			SideLength:    10 * p.PinholeRadius,
			PinholeRadius: p.PinholeRadius,
		})
		surf := toTriangleSurface(core.SurfacePlate, mesh)
		return scene.Plate{Triangulated: &surf}, nil

	case strings.EqualFold(p.PinholeModel, "new"):
		return scene.Plate{BackWall: &scene.BackWallPlate{
			Radius:         10 * p.PinholeRadius,
			PlateRepresent: true,
		}}, nil

	case p.PinholeModel != "":
		mesh, err := loadMeshFile(p.PinholeModel)
		if err != nil {
			return scene.Plate{}, fmt.Errorf("shemtrace: loading plate mesh: %w", err)
		}
		surf := toTriangleSurface(core.SurfacePlate, mesh)
		return scene.Plate{Triangulated: &surf}, nil

	default:
		return scene.Plate{}, fmt.Errorf("shemtrace: \"stl pinhole model\" is required")
	}
}

// buildApertures reads the detector aperture set either from the structured
// aperture file (YAML, paramfile.ParseApertureFile) or from the flat
// "detector full axes"/"detector centres" key pairs.
func buildApertures(p paramfile.Params) ([]scene.Aperture, error) {
	if strings.EqualFold(p.DetectorType, "hemisphere") {
		return nil, fmt.Errorf("shemtrace: %w: %q", scene.ErrUnsupportedDetector, p.DetectorType)
	}

	if p.ApertureFile != "" {
		file, err := os.Open(p.ApertureFile)
		if err != nil {
			return nil, fmt.Errorf("shemtrace: opening aperture file: %w", err)
		}
		defer file.Close()

		f, err := paramfile.ParseApertureFile(file)
		if err != nil {
			return nil, fmt.Errorf("shemtrace: reading aperture file: %w", err)
		}
		apertures := make([]scene.Aperture, len(f.Apertures))
		for i, d := range f.Apertures {
			apertures[i] = scene.Aperture{
				Centre:    core.NewVec2(d.CentreX, d.CentreZ),
				FullAxisX: d.FullAxisX,
				FullAxisZ: d.FullAxisZ,
			}
		}
		return apertures, nil
	}

	if len(p.DetectorFullAxes) != len(p.DetectorCentres) {
		return nil, fmt.Errorf("shemtrace: %d detector full axes but %d detector centres", len(p.DetectorFullAxes), len(p.DetectorCentres))
	}
	apertures := make([]scene.Aperture, len(p.DetectorFullAxes))
	for i := range p.DetectorFullAxes {
		apertures[i] = scene.Aperture{
			Centre:    core.NewVec2(p.DetectorCentres[i][0], p.DetectorCentres[i][1]),
			FullAxisX: p.DetectorFullAxes[i][0],
			FullAxisZ: p.DetectorFullAxes[i][1],
		}
	}
	return apertures, nil
}

// incidenceDirection returns the mean source direction: straight down,
// tilted about the Z axis by the incidence angle (spec.md §6 "incidence
// angle"), unless "ignore incidence angle flag" is set.
func incidenceDirection(p paramfile.Params) core.Vec3 {
	if p.IgnoreIncidence {
		return core.NewVec3(0, -1, 0)
	}
	rad := p.IncidenceAngle * math.Pi / 180
	return core.NewVec3(0, -1, 0).Rotate(core.NewVec3(0, 0, rad))
}
