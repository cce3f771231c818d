// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/stackbox/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 200

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
//
// A solid that is still a single primitive keeps its prism description and
// a difference keeps its operands, so Fillet can rebuild them with rounded
// edges. Every other solid is opaque.
type sdfxSolid struct {
	s     sdf.SDF3
	prism *kernel.Prism
	cut   *cut
}

// cut is stock minus tool, with the cut edges blended by radius blend.
type cut struct {
	stock, tool *sdfxSolid
	blend       float64
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	meshCells int
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithMeshCells sets the marching cubes resolution along the longest axis.
func WithMeshCells(n int) Option {
	return func(k *SdfxKernel) {
		if n > 0 {
			k.meshCells = n
		}
	}
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{meshCells: DefaultMeshCells}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// unwrap extracts the underlying solid from a kernel.Solid.
func unwrap(s kernel.Solid) *sdfxSolid {
	return s.(*sdfxSolid)
}

// wrap creates an opaque kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) *sdfxSolid {
	return &sdfxSolid{s: s}
}

func newPrismSolid(p kernel.Prism) (*sdfxSolid, error) {
	s, err := prismSDF(p)
	if err != nil {
		return nil, err
	}
	return &sdfxSolid{s: s, prism: &p}, nil
}

func newCut(stock, tool *sdfxSolid, blend float64) *sdfxSolid {
	d := sdf.Difference3D(stock.s, tool.s)
	if blend > 0 {
		if ds, ok := d.(*sdf.DifferenceSDF3); ok {
			ds.SetMax(sdf.PolyMax(blend))
		}
	}
	return &sdfxSolid{s: d, cut: &cut{stock: stock, tool: tool, blend: blend}}
}

// Box creates a box with the given dimensions, centered at the origin.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	if x <= 0 || y <= 0 || z <= 0 {
		panic(fmt.Sprintf("sdfx.Box: non-positive size %.4fx%.4fx%.4f", x, y, z))
	}
	s, err := newPrismSolid(kernel.NewBoxPrism(x, y, z))
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box: %v", err))
	}
	return s
}

// Extrude extrudes a closed polyline on plane p along its normal.
func (k *SdfxKernel) Extrude(p kernel.Plane, pts [][2]float64, distance float64) (kernel.Solid, error) {
	pr, err := kernel.NewExtrudePrism(p, pts, distance)
	if err != nil {
		return nil, err
	}
	return newPrismSolid(pr)
}

// Fillet rounds the selected edges. Primitives are rebuilt with exact
// rounding; on a difference the stock is rounded and the cut edges are
// blended with the same radius.
func (k *SdfxKernel) Fillet(s kernel.Solid, sel kernel.EdgeSelector, radius float64) (kernel.Solid, error) {
	if radius == 0 {
		return s, nil
	}
	out, err := k.fillet(unwrap(s), sel, radius)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (k *SdfxKernel) fillet(s *sdfxSolid, sel kernel.EdgeSelector, radius float64) (*sdfxSolid, error) {
	switch {
	case s.prism != nil:
		p, err := s.prism.Fillet(sel, radius)
		if err != nil {
			return nil, err
		}
		return newPrismSolid(p)

	case s.cut != nil:
		stock, err := k.fillet(s.cut.stock, sel, radius)
		if errors.Is(err, kernel.ErrUnsupportedFillet) {
			stock = s.cut.stock
		} else if err != nil {
			return nil, err
		}
		return newCut(stock, s.cut.tool, radius), nil
	}
	return nil, kernel.ErrUnsupportedFillet
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a).s, unwrap(b).s))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return newCut(unwrap(a), unwrap(b), 0)
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a).s, unwrap(b).s))
}

// Mirror reflects a solid through plane p.
func (k *SdfxKernel) Mirror(s kernel.Solid, p kernel.Plane) kernel.Solid {
	var m sdf.M44
	switch p {
	case kernel.PlaneXZ:
		m = sdf.MirrorXZ()
	case kernel.PlaneYZ:
		m = sdf.MirrorYZ()
	default:
		m = sdf.MirrorXY()
	}
	return wrap(sdf.Transform3D(unwrap(s).s, m))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return translate(unwrap(s), [3]float64{x, y, z})
}

func translate(s *sdfxSolid, d [3]float64) *sdfxSolid {
	m := sdf.Translate3d(v3.Vec{X: d[0], Y: d[1], Z: d[2]})
	out := wrap(sdf.Transform3D(s.s, m))
	switch {
	case s.prism != nil:
		p := s.prism.Translate(d)
		out.prism = &p
	case s.cut != nil:
		out.cut = &cut{
			stock: translate(s.cut.stock, d),
			tool:  translate(s.cut.tool, d),
			blend: s.cut.blend,
		}
	}
	return out
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s).s, m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s).s

	renderer := render.NewMarchingCubesUniform(k.meshCells)
	triangles := render.ToTriangles(sdf3, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("sdfx: marching cubes produced no triangles at %d cells", k.meshCells)
	}

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
