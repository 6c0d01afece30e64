package asset

import (
	"bufio"
	"bytes"
	"os"
	"strconv"
	"strings"
	"unsafe"

	"github.com/pkg/errors"
)

// Vertex is the interleaved GPU vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
}

// Corner references one face corner. Indices are 1-based, zero means absent.
type Corner struct {
	Position, UV, Normal uint32
}

// Face is a triangle.
type Face [3]Corner

// Mesh is a parsed kobj file.
type Mesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Faces     []Face
}

// MeshCounts is the result of the count phase.
type MeshCounts struct {
	Positions, UVs, Normals, Faces int
}

// LoadMesh reads and parses the kobj file at path.
func LoadMesh(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read mesh")
	}
	m, err := ParseMesh(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return m, nil
}

// ParseMesh parses kobj text in two passes: CountMesh sizes the arrays, then
// the fill pass stores the values. Polygons with more than three corners are
// split into a triangle fan.
func ParseMesh(data []byte) (*Mesh, error) {
	counts, err := CountMesh(data)
	if err != nil {
		return nil, err
	}
	m := &Mesh{
		Positions: make([][3]float32, 0, counts.Positions),
		Normals:   make([][3]float32, 0, counts.Normals),
		UVs:       make([][2]float32, 0, counts.UVs),
		Faces:     make([]Face, 0, counts.Faces),
	}
	err = eachLine(data, func(line int, fields []string) error {
		switch fields[0] {
		case "v", "vn":
			var v [3]float32
			if err := parseFloats(fields[1:], v[:]); err != nil {
				return errors.Wrapf(err, "line %d", line)
			}
			if fields[0] == "v" {
				m.Positions = append(m.Positions, v)
			} else {
				m.Normals = append(m.Normals, v)
			}
		case "vt":
			var uv [2]float32
			if err := parseFloats(fields[1:], uv[:]); err != nil {
				return errors.Wrapf(err, "line %d", line)
			}
			m.UVs = append(m.UVs, uv)
		case "f":
			corners := make([]Corner, len(fields)-1)
			for i, tok := range fields[1:] {
				c, err := parseCorner(tok)
				if err != nil {
					return errors.Wrapf(err, "line %d", line)
				}
				corners[i] = c
			}
			for i := 1; i+1 < len(corners); i++ {
				m.Faces = append(m.Faces, Face{corners[0], corners[i], corners[i+1]})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// CountMesh is the count phase: it tallies positions, uvs, normals and
// triangles without storing anything.
func CountMesh(data []byte) (MeshCounts, error) {
	var c MeshCounts
	err := eachLine(data, func(line int, fields []string) error {
		switch fields[0] {
		case "v":
			c.Positions++
		case "vt":
			c.UVs++
		case "vn":
			c.Normals++
		case "f":
			if len(fields) < 4 {
				return errors.Wrapf(ErrMalformedMesh, "line %d: face with %d corners", line, len(fields)-1)
			}
			c.Faces += len(fields) - 3
		}
		return nil
	})
	return c, err
}

// skipped reports lines carrying nothing the renderer uses: comments, object,
// material, group-like and smoothing statements and parameter-space vertices.
func skipped(keyword string) bool {
	if keyword == "vp" {
		return true
	}
	switch keyword[0] {
	case '#', 'o', 'm', 'u', 'l', 's':
		return true
	}
	return false
}

func eachLine(data []byte, fn func(line int, fields []string) error) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || skipped(fields[0]) {
			continue
		}
		if err := fn(line, fields); err != nil {
			return err
		}
	}
	return errors.Wrap(scanner.Err(), "scan mesh")
}

func parseFloats(fields []string, out []float32) error {
	if len(fields) < len(out) {
		return errors.Wrapf(ErrMalformedMesh, "want %d components, got %d", len(out), len(fields))
	}
	for i := range out {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return errors.Wrap(ErrMalformedMesh, err.Error())
		}
		out[i] = float32(f)
	}
	return nil
}

// parseCorner reads "p", "p/t", "p//n" or "p/t/n".
func parseCorner(tok string) (Corner, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 || parts[0] == "" {
		return Corner{}, errors.Wrapf(ErrMalformedMesh, "face corner %q", tok)
	}
	var idx [3]uint32
	for i, p := range parts {
		if p == "" {
			continue
		}
		u, err := strconv.ParseUint(p, 10, 32)
		if err != nil || u == 0 {
			return Corner{}, errors.Wrapf(ErrMalformedMesh, "face corner %q", tok)
		}
		idx[i] = uint32(u)
	}
	return Corner{Position: idx[0], UV: idx[1], Normal: idx[2]}, nil
}

func (m *Mesh) validate() error {
	for i, f := range m.Faces {
		for _, c := range f {
			if int(c.Position) > len(m.Positions) ||
				int(c.UV) > len(m.UVs) ||
				int(c.Normal) > len(m.Normals) {
				return errors.Wrapf(ErrMalformedMesh, "face %d references missing data", i)
			}
		}
	}
	return nil
}

// Interleave builds the GPU vertex and index arrays. Corners sharing the same
// position, uv and normal share a vertex.
func (m *Mesh) Interleave() ([]Vertex, []uint32) {
	vertices := make([]Vertex, 0, len(m.Positions))
	indices := make([]uint32, 0, 3*len(m.Faces))
	seen := make(map[Corner]uint32, len(m.Positions))
	for _, f := range m.Faces {
		for _, c := range f {
			if idx, ok := seen[c]; ok {
				indices = append(indices, idx)
				continue
			}
			v := Vertex{Position: m.Positions[c.Position-1]}
			if c.Normal > 0 {
				v.Normal = m.Normals[c.Normal-1]
			}
			if c.UV > 0 {
				v.UV = m.UVs[c.UV-1]
			}
			idx := uint32(len(vertices))
			seen[c] = idx
			vertices = append(vertices, v)
			indices = append(indices, idx)
		}
	}
	return vertices, indices
}

// Quad is the fallback mesh: a unit square in the z=0 plane facing +z.
func Quad() ([]Vertex, []uint32) {
	n := [3]float32{0, 0, 1}
	vertices := []Vertex{
		{Position: [3]float32{-1, -1, 0}, Normal: n, UV: [2]float32{0, 0}},
		{Position: [3]float32{1, -1, 0}, Normal: n, UV: [2]float32{1, 0}},
		{Position: [3]float32{-1, 1, 0}, Normal: n, UV: [2]float32{0, 1}},
		{Position: [3]float32{1, 1, 0}, Normal: n, UV: [2]float32{1, 1}},
	}
	return vertices, []uint32{0, 2, 1, 1, 2, 3}
}

// VertexBytes copies vertices into a byte slice in host layout.
func VertexBytes(vertices []Vertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	size := len(vertices) * int(unsafe.Sizeof(Vertex{}))
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), size))
	return out
}

// IndexBytes copies indices into a byte slice in host layout.
func IndexBytes(indices []uint32) []byte {
	if len(indices) == 0 {
		return nil
	}
	size := len(indices) * 4
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), size))
	return out
}
