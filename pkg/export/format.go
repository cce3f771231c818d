package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/hpinc/go3mf"
	"github.com/hschendel/stl"

	"github.com/chazu/stackbox/pkg/kernel"
)

// Format is an output file format.
type Format string

const (
	FormatSTL Format = "stl"
	Format3MF Format = "3mf"
)

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSTL, Format3MF:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want stl or 3mf)", s)
}

// FileName returns the deterministic file name of a part, e.g.
// "bottom_40x25x30.stl".
func FileName(part, base string, f Format) string {
	return fmt.Sprintf("%s_%s.%s", part, base, f)
}

// Encode writes m to w in format f.
func Encode(w io.Writer, m *kernel.Mesh, f Format) error {
	switch f {
	case FormatSTL:
		return WriteSTL(w, m)
	case Format3MF:
		return Write3MF(w, m)
	}
	return fmt.Errorf("unknown output format %q", f)
}

// WriteSTL writes m as a binary STL solid.
func WriteSTL(w io.Writer, m *kernel.Mesh) error {
	// Binary headers must not start with "solid" or readers take the
	// file for ASCII.
	header := make([]byte, 80)
	copy(header, "stackbox "+m.PartName)
	solid := stl.Solid{
		Name:         m.PartName,
		BinaryHeader: header,
		Triangles:    make([]stl.Triangle, 0, m.TriangleCount()),
	}
	for t := 0; t < m.TriangleCount(); t++ {
		var tri stl.Triangle
		for j := range 3 {
			tri.Vertices[j] = stl.Vec3(m.Vertex(m.Indices[3*t+j]))
		}
		tri.Normal = faceNormal(tri.Vertices)
		solid.Triangles = append(solid.Triangles, tri)
	}
	return solid.WriteAll(w)
}

// faceNormal is the unit normal of a counter-clockwise triangle. Slivers
// from marching cubes get a zero normal, which STL readers recompute.
func faceNormal(v [3]stl.Vec3) stl.Vec3 {
	var a, b [3]float64
	for i := range 3 {
		a[i] = float64(v[1][i] - v[0][i])
		b[i] = float64(v[2][i] - v[0][i])
	}
	n := [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
	l := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if l == 0 {
		return stl.Vec3{}
	}
	return stl.Vec3{float32(n[0] / l), float32(n[1] / l), float32(n[2] / l)}
}

// Write3MF writes m as a single-object 3MF package in millimeters.
// Coincident vertices are merged so the object is an indexed mesh.
func Write3MF(w io.Writer, m *kernel.Mesh) error {
	msh := new(go3mf.Mesh)
	index := make(map[[3]float32]uint32, m.VertexCount()/2)
	vertex := func(i uint32) uint32 {
		p := m.Vertex(i)
		if id, ok := index[p]; ok {
			return id
		}
		id := uint32(len(msh.Vertices.Vertex))
		msh.Vertices.Vertex = append(msh.Vertices.Vertex, go3mf.Point3D(p))
		index[p] = id
		return id
	}
	for t := 0; t < m.TriangleCount(); t++ {
		v1 := vertex(m.Indices[3*t])
		v2 := vertex(m.Indices[3*t+1])
		v3 := vertex(m.Indices[3*t+2])
		if v1 == v2 || v2 == v3 || v1 == v3 {
			// Collapsed by the merge.
			continue
		}
		msh.Triangles.Triangle = append(msh.Triangles.Triangle, go3mf.Triangle{V1: v1, V2: v2, V3: v3})
	}

	model := &go3mf.Model{Units: go3mf.UnitMillimeter}
	model.Resources.Objects = append(model.Resources.Objects, &go3mf.Object{
		ID:   1,
		Name: m.PartName,
		Mesh: msh,
	})
	model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: 1})
	return go3mf.NewEncoder(w).Encode(model)
}
