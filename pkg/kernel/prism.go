package kernel

import (
	"errors"
	"fmt"
	"math"
)

const eps = 1e-9

// Prism is a straight extrusion of a closed polygon. Boxes and polyline
// extrusions stay prisms until they are combined with another solid, which
// lets a kernel round their edges exactly instead of approximating a fillet
// on an arbitrary boolean result.
//
// Profile coordinates are relative to Offset and expressed along the two
// axes returned by CrossAxes(Axis). The prism spans Offset[Axis] ± Length/2.
type Prism struct {
	Axis    Axis
	Profile [][2]float64
	Radii   []float64  // rounding of the edge through each profile vertex
	Length  float64    // extent along Axis
	Ends    [2]float64 // rounding of every edge on the low and high end face
	Offset  [3]float64
}

// CrossAxes returns the world axes spanning the plane across a.
func CrossAxes(a Axis) (u, v Axis) {
	switch a {
	case AxisX:
		return AxisY, AxisZ
	case AxisY:
		return AxisX, AxisZ
	default:
		return AxisX, AxisY
	}
}

// NewBoxPrism returns an x*y*z box centered at the origin.
func NewBoxPrism(x, y, z float64) Prism {
	return rectPrism(AxisZ, x, y, z)
}

// rectPrism builds a centered rectangle prism along axis a with extents
// du and dv across it.
func rectPrism(a Axis, du, dv, length float64) Prism {
	hu, hv := du/2, dv/2
	return Prism{
		Axis:    a,
		Profile: [][2]float64{{-hu, -hv}, {hu, -hv}, {hu, hv}, {-hu, hv}},
		Radii:   make([]float64, 4),
		Length:  length,
	}
}

// NewExtrudePrism extrudes a closed polyline drawn on plane p along the
// plane normal, from the plane out to distance.
func NewExtrudePrism(p Plane, pts [][2]float64, distance float64) (Prism, error) {
	if len(pts) < 3 {
		return Prism{}, fmt.Errorf("%w: polyline needs at least 3 points, got %d", ErrDegenerateProfile, len(pts))
	}
	if distance <= 0 {
		return Prism{}, fmt.Errorf("%w: extrusion distance %.4f", ErrDegenerateProfile, distance)
	}
	if math.Abs(polygonArea(pts)) < eps {
		return Prism{}, fmt.Errorf("%w: polyline encloses no area", ErrDegenerateProfile)
	}
	profile := make([][2]float64, len(pts))
	copy(profile, pts)
	pr := Prism{
		Axis:    p.Normal(),
		Profile: profile,
		Radii:   make([]float64, len(pts)),
		Length:  distance,
	}
	pr.Offset[pr.Axis] = distance / 2
	return pr, nil
}

func polygonArea(pts [][2]float64) float64 {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i][0]*pts[j][1] - pts[j][0]*pts[i][1]
	}
	return a / 2
}

// ProfileBounds returns the profile's extent across the prism axis.
func (p Prism) ProfileBounds() (min, max [2]float64) {
	min = [2]float64{math.Inf(1), math.Inf(1)}
	max = [2]float64{math.Inf(-1), math.Inf(-1)}
	for _, pt := range p.Profile {
		for i := range 2 {
			min[i] = math.Min(min[i], pt[i])
			max[i] = math.Max(max[i], pt[i])
		}
	}
	return min, max
}

// Bounds returns the world-space bounding box.
func (p Prism) Bounds() (min, max [3]float64) {
	u, v := CrossAxes(p.Axis)
	pmin, pmax := p.ProfileBounds()
	min[u], max[u] = pmin[0], pmax[0]
	min[v], max[v] = pmin[1], pmax[1]
	min[p.Axis], max[p.Axis] = -p.Length/2, p.Length/2
	for i := range 3 {
		min[i] += p.Offset[i]
		max[i] += p.Offset[i]
	}
	return min, max
}

// Translate returns the prism moved by d.
func (p Prism) Translate(d [3]float64) Prism {
	q := p.clone()
	for i := range 3 {
		q.Offset[i] += d[i]
	}
	return q
}

func (p Prism) clone() Prism {
	q := p
	q.Profile = make([][2]float64, len(p.Profile))
	copy(q.Profile, p.Profile)
	q.Radii = make([]float64, len(p.Radii))
	copy(q.Radii, p.Radii)
	return q
}

// IsRounded reports whether any edge of the prism has been filleted.
func (p Prism) IsRounded() bool {
	if p.Ends[0] > 0 || p.Ends[1] > 0 {
		return true
	}
	for _, r := range p.Radii {
		if r > 0 {
			return true
		}
	}
	return false
}

// rectExtents reports the extents of an axis-aligned rectangular profile.
func (p Prism) rectExtents() (du, dv float64, ok bool) {
	if len(p.Profile) != 4 {
		return 0, 0, false
	}
	min, max := p.ProfileBounds()
	for _, pt := range p.Profile {
		onU := math.Abs(pt[0]-min[0]) < eps || math.Abs(pt[0]-max[0]) < eps
		onV := math.Abs(pt[1]-min[1]) < eps || math.Abs(pt[1]-max[1]) < eps
		if !onU || !onV {
			return 0, 0, false
		}
	}
	return max[0] - min[0], max[1] - min[1], true
}

// UniformRect reports whether the profile is a rectangle centered on the
// prism axis with the same rounding at every corner, returning its extents
// and corner radius.
func (p Prism) UniformRect() (du, dv, radius float64, ok bool) {
	du, dv, ok = p.rectExtents()
	if !ok {
		return 0, 0, 0, false
	}
	min, max := p.ProfileBounds()
	if math.Abs(min[0]+max[0]) > eps || math.Abs(min[1]+max[1]) > eps {
		return 0, 0, 0, false
	}
	for _, r := range p.Radii[1:] {
		if math.Abs(r-p.Radii[0]) > eps {
			return 0, 0, 0, false
		}
	}
	return du, dv, p.Radii[0], true
}

// reaxis re-expresses an unrounded box as a prism along axis a.
func (p Prism) reaxis(a Axis) (Prism, bool) {
	if a == p.Axis || p.IsRounded() {
		return Prism{}, false
	}
	if _, _, ok := p.rectExtents(); !ok {
		return Prism{}, false
	}
	min, max := p.Bounds()
	u, v := CrossAxes(a)
	q := rectPrism(a, max[u]-min[u], max[v]-min[v], max[a]-min[a])
	for i := range 3 {
		q.Offset[i] = (min[i] + max[i]) / 2
	}
	return q, true
}

// edgeRef locates an edge within a prism: a vertex edge runs along the
// prism axis through Profile[index]; an end edge lies on end face `end`
// along the profile side starting at Profile[index].
type edgeRef struct {
	vertex bool
	end    int
	index  int
	edge   Edge
}

// edges enumerates every straight edge of the prism.
func (p Prism) edges() []edgeRef {
	u, v := CrossAxes(p.Axis)
	min, max := p.ProfileBounds()
	n := len(p.Profile)

	sideFaces := func(pt [2]float64) Face {
		var f Face
		if math.Abs(pt[0]-min[0]) < eps {
			f |= MinFace(u)
		}
		if math.Abs(pt[0]-max[0]) < eps {
			f |= MaxFace(u)
		}
		if math.Abs(pt[1]-min[1]) < eps {
			f |= MinFace(v)
		}
		if math.Abs(pt[1]-max[1]) < eps {
			f |= MaxFace(v)
		}
		return f
	}

	refs := make([]edgeRef, 0, 3*n)
	for i, pt := range p.Profile {
		refs = append(refs, edgeRef{
			vertex: true,
			index:  i,
			edge:   Edge{Axis: p.Axis, Faces: sideFaces(pt)},
		})
	}
	for end, endFace := range []Face{MinFace(p.Axis), MaxFace(p.Axis)} {
		for i := range n {
			a, b := p.Profile[i], p.Profile[(i+1)%n]
			dir := AxisNone
			switch {
			case math.Abs(a[1]-b[1]) < eps:
				dir = u
			case math.Abs(a[0]-b[0]) < eps:
				dir = v
			}
			refs = append(refs, edgeRef{
				end:   end,
				index: i,
				edge:  Edge{Axis: dir, Faces: endFace | (sideFaces(a) & sideFaces(b))},
			})
		}
	}
	return refs
}

// Fillet rounds the selected edges with radius. A zero radius is a no-op.
// The prism is re-expressed along another axis when that is the only way
// to represent the selection, which is possible while it is still an
// unrounded box.
func (p Prism) Fillet(sel EdgeSelector, radius float64) (Prism, error) {
	if radius < 0 {
		return Prism{}, fmt.Errorf("%w: negative radius %.4f", ErrFilletTooLarge, radius)
	}
	if radius == 0 {
		return p, nil
	}

	candidates := []Prism{p}
	for _, a := range []Axis{AxisZ, AxisY, AxisX} {
		if q, ok := p.reaxis(a); ok {
			candidates = append(candidates, q)
		}
	}

	// A radius error on any candidate beats "unsupported" on another.
	var firstErr error
	for _, c := range candidates {
		q, err := c.applyFillet(sel, radius)
		if err == nil {
			return q, nil
		}
		if firstErr == nil || (errors.Is(firstErr, ErrUnsupportedFillet) && !errors.Is(err, ErrUnsupportedFillet)) {
			firstErr = err
		}
	}
	return Prism{}, firstErr
}

func (p Prism) applyFillet(sel EdgeSelector, radius float64) (Prism, error) {
	n := len(p.Profile)
	var vertexHits []int
	endHits := [2]int{}
	matched := false
	for _, ref := range p.edges() {
		if !sel(ref.edge) {
			continue
		}
		matched = true
		if ref.vertex {
			vertexHits = append(vertexHits, ref.index)
		} else {
			endHits[ref.end]++
		}
	}
	if !matched {
		return Prism{}, fmt.Errorf("%w: selector matches no edges", ErrUnsupportedFillet)
	}
	for end := range 2 {
		if endHits[end] != 0 && endHits[end] != n {
			return Prism{}, fmt.Errorf("%w: partial end face on %s prism", ErrUnsupportedFillet, p.Axis)
		}
	}

	q := p.clone()
	for _, i := range vertexHits {
		if err := q.checkVertexRadius(i, radius); err != nil {
			return Prism{}, err
		}
		q.Radii[i] = radius
	}
	for end := range 2 {
		if endHits[end] == n {
			q.Ends[end] = radius
		}
	}
	if err := q.checkEnds(); err != nil {
		return Prism{}, err
	}
	return q, nil
}

func (p Prism) checkVertexRadius(i int, radius float64) error {
	n := len(p.Profile)
	prev, cur, next := p.Profile[(i+n-1)%n], p.Profile[i], p.Profile[(i+1)%n]
	limit := math.Min(math.Hypot(cur[0]-prev[0], cur[1]-prev[1]), math.Hypot(next[0]-cur[0], next[1]-cur[1])) / 2
	if radius > limit+eps {
		return fmt.Errorf("%w: radius %.4f at vertex %d exceeds %.4f", ErrFilletTooLarge, radius, i, limit)
	}
	return nil
}

func (p Prism) checkEnds() error {
	e0, e1 := p.Ends[0], p.Ends[1]
	if e0 > 0 && e1 > 0 && math.Abs(e0-e1) > eps {
		return fmt.Errorf("%w: end roundings %.4f and %.4f differ", ErrUnsupportedFillet, e0, e1)
	}
	if e0+e1 > p.Length+eps {
		return fmt.Errorf("%w: end roundings %.4f+%.4f exceed length %.4f", ErrFilletTooLarge, e0, e1, p.Length)
	}
	min, max := p.ProfileBounds()
	half := math.Min(max[0]-min[0], max[1]-min[1]) / 2
	if math.Max(e0, e1) > half+eps {
		return fmt.Errorf("%w: end rounding %.4f exceeds %.4f", ErrFilletTooLarge, math.Max(e0, e1), half)
	}
	return nil
}
