// Package trace implements kernel.Kernel without building any geometry.
// Every solid carries an analytic bounding box and every call is appended
// to an ordered op log, which makes a dry run of the box builders cheap
// enough for tests and for printing the construction sequence.
package trace

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/chazu/stackbox/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// Op is one recorded kernel call.
type Op struct {
	Name   string
	Inputs []int // ids of the solids consumed
	Output int   // id of the solid produced, 0 for ToMesh
	Detail string
	Min    [3]float64
	Max    [3]float64
}

func (o Op) String() string {
	in := make([]string, len(o.Inputs))
	for i, id := range o.Inputs {
		in[i] = fmt.Sprintf("#%d", id)
	}
	args := strings.Join(in, ", ")
	if o.Detail != "" {
		if args != "" {
			args += ", "
		}
		args += o.Detail
	}
	return fmt.Sprintf("#%d = %s(%s) [%s .. %s]", o.Output, o.Name, args, fmtVec(o.Min), fmtVec(o.Max))
}

func fmtVec(v [3]float64) string {
	return fmt.Sprintf("%.2f,%.2f,%.2f", v[0], v[1], v[2])
}

// Solid is a bounding box standing in for real geometry.
type Solid struct {
	id       int
	min, max [3]float64
	prism    *kernel.Prism
	stock    *Solid // set on differences, see Fillet
}

// BoundingBox returns the analytic axis-aligned bounding box.
func (s *Solid) BoundingBox() (min, max [3]float64) {
	return s.min, s.max
}

// ID returns the solid's position in the op log.
func (s *Solid) ID() int {
	return s.id
}

// Kernel records operations and tracks bounds. It is safe for concurrent use.
type Kernel struct {
	mu     sync.Mutex
	nextID int
	ops    []Op
}

// New returns an empty trace kernel.
func New() *Kernel {
	return &Kernel{}
}

// Ops returns a copy of the op log.
func (k *Kernel) Ops() []Op {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]Op, len(k.ops))
	copy(out, k.ops)
	return out
}

// Count returns how many recorded ops have the given name.
func (k *Kernel) Count(name string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	n := 0
	for _, op := range k.ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Reset clears the op log.
func (k *Kernel) Reset() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.ops = nil
	k.nextID = 0
}

func (k *Kernel) record(name, detail string, out *Solid, inputs ...*Solid) *Solid {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.nextID++
	out.id = k.nextID
	ids := make([]int, len(inputs))
	for i, in := range inputs {
		ids[i] = in.id
	}
	k.ops = append(k.ops, Op{
		Name:   name,
		Inputs: ids,
		Output: out.id,
		Detail: detail,
		Min:    out.min,
		Max:    out.max,
	})
	return out
}

func unwrap(s kernel.Solid) *Solid {
	return s.(*Solid)
}

func fromPrism(p kernel.Prism) *Solid {
	min, max := p.Bounds()
	return &Solid{min: min, max: max, prism: &p}
}

// Box creates a box with the given dimensions, centered at the origin.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	if x <= 0 || y <= 0 || z <= 0 {
		panic(fmt.Sprintf("trace.Box: non-positive size %.4fx%.4fx%.4f", x, y, z))
	}
	return k.record("box", fmt.Sprintf("%.4g x %.4g x %.4g", x, y, z), fromPrism(kernel.NewBoxPrism(x, y, z)))
}

// Extrude extrudes a closed polyline on plane p along its normal.
func (k *Kernel) Extrude(p kernel.Plane, pts [][2]float64, distance float64) (kernel.Solid, error) {
	pr, err := kernel.NewExtrudePrism(p, pts, distance)
	if err != nil {
		return nil, err
	}
	return k.record("extrude", fmt.Sprintf("%s, %d points, %.4g", p, len(pts), distance), fromPrism(pr)), nil
}

// Fillet applies the same representability and radius rules as the sdfx
// kernel. Bounds are unchanged.
func (k *Kernel) Fillet(s kernel.Solid, sel kernel.EdgeSelector, radius float64) (kernel.Solid, error) {
	if radius == 0 {
		return s, nil
	}
	in := unwrap(s)
	out, err := fillet(in, sel, radius)
	if err != nil {
		return nil, err
	}
	return k.record("fillet", fmt.Sprintf("r=%.4g", radius), out, in), nil
}

func fillet(s *Solid, sel kernel.EdgeSelector, radius float64) (*Solid, error) {
	switch {
	case s.prism != nil:
		p, err := s.prism.Fillet(sel, radius)
		if err != nil {
			return nil, err
		}
		return fromPrism(p), nil

	case s.stock != nil:
		stock, err := fillet(s.stock, sel, radius)
		if errors.Is(err, kernel.ErrUnsupportedFillet) {
			stock = s.stock
		} else if err != nil {
			return nil, err
		}
		return &Solid{min: s.min, max: s.max, stock: stock}, nil
	}
	return nil, kernel.ErrUnsupportedFillet
}

// Union returns a solid bounding both inputs.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	out := &Solid{}
	for i := range 3 {
		out.min[i] = math.Min(sa.min[i], sb.min[i])
		out.max[i] = math.Max(sa.max[i], sb.max[i])
	}
	return k.record("union", "", out, sa, sb)
}

// Difference keeps the bounds of a.
func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	return k.record("cut", "", &Solid{min: sa.min, max: sa.max, stock: sa}, sa, sb)
}

// Intersection returns the overlap of both bounding boxes.
func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	out := &Solid{}
	for i := range 3 {
		out.min[i] = math.Max(sa.min[i], sb.min[i])
		out.max[i] = math.Min(sa.max[i], sb.max[i])
	}
	return k.record("intersect", "", out, sa, sb)
}

// Mirror reflects the bounding box through plane p.
func (k *Kernel) Mirror(s kernel.Solid, p kernel.Plane) kernel.Solid {
	in := unwrap(s)
	a := p.Normal()
	out := &Solid{min: in.min, max: in.max}
	out.min[a], out.max[a] = -in.max[a], -in.min[a]
	return k.record("mirror", p.String(), out, in)
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	in := unwrap(s)
	return k.record("translate", fmt.Sprintf("%.4g, %.4g, %.4g", x, y, z), translate(in, [3]float64{x, y, z}), in)
}

func translate(s *Solid, d [3]float64) *Solid {
	out := &Solid{min: s.min, max: s.max}
	for i := range 3 {
		out.min[i] += d[i]
		out.max[i] += d[i]
	}
	if s.prism != nil {
		p := s.prism.Translate(d)
		out.prism = &p
	}
	if s.stock != nil {
		out.stock = translate(s.stock, d)
	}
	return out
}

// Rotate rotates the bounding box corners by Euler angles (degrees) around
// the X, Y, Z axes, applied in that order, and re-bounds them.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	in := unwrap(s)
	m := rotation(x, y, z)
	out := &Solid{}
	for i := range 3 {
		out.min[i] = math.Inf(1)
		out.max[i] = math.Inf(-1)
	}
	for c := range 8 {
		corner := [3]float64{in.min[0], in.min[1], in.min[2]}
		for i := range 3 {
			if c&(1<<i) != 0 {
				corner[i] = in.max[i]
			}
		}
		for i := range 3 {
			v := snap(m[i][0]*corner[0] + m[i][1]*corner[1] + m[i][2]*corner[2])
			out.min[i] = math.Min(out.min[i], v)
			out.max[i] = math.Max(out.max[i], v)
		}
	}
	return k.record("rotate", fmt.Sprintf("%.4g, %.4g, %.4g", x, y, z), out, in)
}

// rotation returns Rz * Ry * Rx.
func rotation(x, y, z float64) [3][3]float64 {
	rad := func(d float64) (float64, float64) {
		r := d * math.Pi / 180
		return math.Sin(r), math.Cos(r)
	}
	sx, cx := rad(x)
	sy, cy := rad(y)
	sz, cz := rad(z)
	return [3][3]float64{
		{cz * cy, cz*sy*sx - sz*cx, cz*sy*cx + sz*sx},
		{sz * cy, sz*sy*sx + cz*cx, sz*sy*cx - cz*sx},
		{-sy, cy * sx, cy * cx},
	}
}

// snap removes the rounding noise sin/cos leave on right angles.
func snap(v float64) float64 {
	r := math.Round(v*1e9) / 1e9
	if r == 0 {
		return 0
	}
	return r
}

// ToMesh returns the 12 triangles of the solid's bounding box.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	in := unwrap(s)
	for i := range 3 {
		if in.max[i] <= in.min[i] {
			return nil, fmt.Errorf("trace: empty bounds on axis %d", i)
		}
	}
	k.mu.Lock()
	k.ops = append(k.ops, Op{Name: "mesh", Inputs: []int{in.id}, Min: in.min, Max: in.max})
	k.mu.Unlock()
	return boxMesh(in.min, in.max), nil
}

// boxMesh triangulates an axis-aligned box with outward winding.
func boxMesh(min, max [3]float64) *kernel.Mesh {
	corner := func(c int) [3]float32 {
		var p [3]float32
		for i := range 3 {
			if c&(1<<i) != 0 {
				p[i] = float32(max[i])
			} else {
				p[i] = float32(min[i])
			}
		}
		return p
	}
	// Corner index bits: 1 = +X, 2 = +Y, 4 = +Z.
	faces := []struct {
		quad   [4]int
		normal [3]float32
	}{
		{[4]int{0, 2, 3, 1}, [3]float32{0, 0, -1}},
		{[4]int{4, 5, 7, 6}, [3]float32{0, 0, 1}},
		{[4]int{0, 1, 5, 4}, [3]float32{0, -1, 0}},
		{[4]int{2, 6, 7, 3}, [3]float32{0, 1, 0}},
		{[4]int{0, 4, 6, 2}, [3]float32{-1, 0, 0}},
		{[4]int{1, 3, 7, 5}, [3]float32{1, 0, 0}},
	}
	m := &kernel.Mesh{}
	for _, f := range faces {
		for _, c := range []int{f.quad[0], f.quad[1], f.quad[2], f.quad[0], f.quad[2], f.quad[3]} {
			p := corner(c)
			m.Vertices = append(m.Vertices, p[0], p[1], p[2])
			m.Normals = append(m.Normals, f.normal[0], f.normal[1], f.normal[2])
			m.Indices = append(m.Indices, uint32(len(m.Indices)))
		}
	}
	return m
}
