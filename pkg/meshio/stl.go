package meshio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shem-sim/shem-raytracer/pkg/core"
)

// LoadSTL reads an STL file, detecting ASCII vs. binary from the header,
// and returns its triangles as a MeshData. Vertices are NOT deduplicated:
// each STL facet contributes three fresh vertex entries and one face,
// matching the triangle-soup shape STL stores on disk.
func LoadSTL(path string) (MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return MeshData{}, fmt.Errorf("meshio: open %q: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, 80)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return MeshData{}, fmt.Errorf("meshio: reading %q header: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return MeshData{}, fmt.Errorf("meshio: rewinding %q: %w", path, err)
	}

	if n == 80 && looksBinary(f) {
		return readBinarySTL(f, path)
	}
	return readASCIISTL(f, path)
}

// looksBinary decides the STL variant the way most readers do: an ASCII
// STL's first non-blank token is "solid"; a binary STL's 80-byte header is
// free text that happens to start with "solid" just as often as not, so
// the deciding signal is whether the declared triangle count (bytes
// 80..83) matches the remaining file size exactly.
func looksBinary(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	if info.Size() < 84 {
		return false
	}
	if _, err := f.Seek(80, io.SeekStart); err != nil {
		return false
	}
	var count uint32
	if err := binary.Read(f, binary.LittleEndian, &count); err != nil {
		return false
	}
	expected := int64(84) + int64(count)*50
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return false
	}
	return expected == info.Size()
}

type stlVec struct {
	X, Y, Z float32
}

func readBinarySTL(f *os.File, path string) (MeshData, error) {
	if _, err := f.Seek(80, io.SeekStart); err != nil {
		return MeshData{}, fmt.Errorf("meshio: seeking past %q header: %w", path, err)
	}
	var count uint32
	if err := binary.Read(f, binary.LittleEndian, &count); err != nil {
		return MeshData{}, fmt.Errorf("meshio: reading %q facet count: %w", path, err)
	}

	r := bufio.NewReaderSize(f, 1<<20)
	mesh := MeshData{
		Vertices: make([]core.Vec3, 0, count*3),
		Faces:    make([][3]int, 0, count),
		Normals:  make([]core.Vec3, 0, count),
	}

	for i := 0; i < int(count); i++ {
		var normal, v0, v1, v2 stlVec
		var attrByteCount uint16
		for _, dst := range []*stlVec{&normal, &v0, &v1, &v2} {
			if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
				return MeshData{}, fmt.Errorf("meshio: reading %q facet %d: %w", path, i, err)
			}
		}
		if err := binary.Read(r, binary.LittleEndian, &attrByteCount); err != nil {
			return MeshData{}, fmt.Errorf("meshio: reading %q facet %d attribute count: %w", path, i, err)
		}

		a := core.NewVec3(float64(v0.X), float64(v0.Y), float64(v0.Z))
		b := core.NewVec3(float64(v1.X), float64(v1.Y), float64(v1.Z))
		c := core.NewVec3(float64(v2.X), float64(v2.Y), float64(v2.Z))
		nrm := core.NewVec3(float64(normal.X), float64(normal.Y), float64(normal.Z))
		if !nrm.IsUnit(1e-3) {
			nrm = faceNormal(a, b, c)
		}

		base := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, a, b, c)
		mesh.Faces = append(mesh.Faces, [3]int{base, base + 1, base + 2})
		mesh.Normals = append(mesh.Normals, nrm)
	}

	mesh.MaterialID, mesh.MaterialParam = zeroed(len(mesh.Faces))
	return mesh, nil
}

func readASCIISTL(f *os.File, path string) (MeshData, error) {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	mesh := MeshData{}
	var normal core.Vec3
	var verts []core.Vec3

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				normal = core.NewVec3(mustFloat(fields[2]), mustFloat(fields[3]), mustFloat(fields[4]))
			} else {
				normal = core.Vec3{}
			}
			verts = verts[:0]
		case "vertex":
			if len(fields) < 4 {
				return MeshData{}, fmt.Errorf("meshio: %q: malformed vertex line %q", path, scanner.Text())
			}
			verts = append(verts, core.NewVec3(mustFloat(fields[1]), mustFloat(fields[2]), mustFloat(fields[3])))
		case "endfacet":
			if len(verts) != 3 {
				return MeshData{}, fmt.Errorf("meshio: %q: facet has %d vertices, want 3", path, len(verts))
			}
			nrm := normal
			if !nrm.IsUnit(1e-3) {
				nrm = faceNormal(verts[0], verts[1], verts[2])
			}
			base := len(mesh.Vertices)
			mesh.Vertices = append(mesh.Vertices, verts[0], verts[1], verts[2])
			mesh.Faces = append(mesh.Faces, [3]int{base, base + 1, base + 2})
			mesh.Normals = append(mesh.Normals, nrm)
		}
	}
	if err := scanner.Err(); err != nil {
		return MeshData{}, fmt.Errorf("meshio: reading %q: %w", path, err)
	}
	if len(mesh.Faces) == 0 {
		return MeshData{}, fmt.Errorf("meshio: %q: no facets found", path)
	}

	mesh.MaterialID, mesh.MaterialParam = zeroed(len(mesh.Faces))
	return mesh, nil
}

func mustFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
