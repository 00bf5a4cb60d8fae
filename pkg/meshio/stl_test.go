package meshio

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const asciiTriangle = `solid test
facet normal 0 1 0
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 0 0 1
  endloop
endfacet
endsolid test
`

func TestLoadSTLReadsASCIITriangle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.stl")
	if err := os.WriteFile(path, []byte(asciiTriangle), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	mesh, err := LoadSTL(path)
	if err != nil {
		t.Fatalf("LoadSTL: %v", err)
	}
	if len(mesh.Faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(mesh.Faces))
	}
	if len(mesh.Vertices) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(mesh.Vertices))
	}
	if !mesh.Normals[0].IsUnit(1e-6) {
		t.Errorf("expected unit normal, got %v", mesh.Normals[0])
	}
	if len(mesh.MaterialID) != 1 || len(mesh.MaterialParam) != 1 {
		t.Errorf("expected zeroed material arrays of length 1")
	}
}

func TestLoadSTLRejectsMalformedASCII(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.stl")
	bad := strings.Replace(asciiTriangle, "vertex 1 0 0", "vertex 1 0", 1)
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadSTL(path); err == nil {
		t.Error("expected an error for a malformed vertex line")
	}
}

func writeBinarySTLFacet(buf *[]byte, normal, v0, v1, v2 [3]float32) {
	write := func(v [3]float32) {
		for _, f := range v {
			b := make([]byte, 4)
			binary.LittleEndian.PutUint32(b, math.Float32bits(f))
			*buf = append(*buf, b...)
		}
	}
	write(normal)
	write(v0)
	write(v1)
	write(v2)
	*buf = append(*buf, 0, 0) // attribute byte count
}

func TestLoadSTLReadsBinaryTriangle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.stl")

	data := make([]byte, 80) // header
	countBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(countBuf, 1)
	data = append(data, countBuf...)
	writeBinarySTLFacet(&data, [3]float32{0, 1, 0}, [3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, 1})

	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	mesh, err := LoadSTL(path)
	if err != nil {
		t.Fatalf("LoadSTL: %v", err)
	}
	if len(mesh.Faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(mesh.Faces))
	}
	if !mesh.Normals[0].IsUnit(1e-3) {
		t.Errorf("expected unit normal, got %v", mesh.Normals[0])
	}
}
