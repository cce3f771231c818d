package sdfx

import (
	"math"

	"github.com/chazu/stackbox/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// smoothFacets is the number of segments used for a rounded polygon corner.
const smoothFacets = 6

// bounded overrides the bounding box of an SDF3. Rounded extrusions of an
// inset profile report the inset bounds, which would clip the renderer.
type bounded struct {
	sdf.SDF3
	bb sdf.Box3
}

func (b bounded) BoundingBox() sdf.Box3 { return b.bb }

// prismSDF builds the signed distance field of a prism, including rounded
// profile corners and rounded end faces.
//
// End rounding dilates an inset profile, so sharp profile corners on a
// rounded end are also rounded by the end radius.
func prismSDF(p kernel.Prism) (sdf.SDF3, error) {
	profile, err := profileSDF(p)
	if err != nil {
		return nil, err
	}

	// Rotating Z onto Y reverses the extrusion direction.
	e0, e1 := p.Ends[0], p.Ends[1]
	if p.Axis == kernel.AxisY {
		e0, e1 = e1, e0
	}
	s, err := extrude(profile, p.Length, e0, e1)
	if err != nil {
		return nil, err
	}

	pmin, pmax := p.ProfileBounds()
	s = bounded{SDF3: s, bb: sdf.Box3{
		Min: v3.Vec{X: pmin[0], Y: pmin[1], Z: -p.Length / 2},
		Max: v3.Vec{X: pmax[0], Y: pmax[1], Z: p.Length / 2},
	}}

	m := sdf.Translate3d(v3.Vec{X: p.Offset[0], Y: p.Offset[1], Z: p.Offset[2]}).Mul(orient(p.Axis))
	return sdf.Transform3D(s, m), nil
}

// orient maps a Z extrusion with profile axes (u, v) onto axis a with the
// profile on CrossAxes(a).
func orient(a kernel.Axis) sdf.M44 {
	switch a {
	case kernel.AxisX:
		// (u, v, w) -> (w, u, v)
		return sdf.RotateZ(math.Pi / 2).Mul(sdf.RotateX(math.Pi / 2))
	case kernel.AxisY:
		// (u, v, w) -> (u, -w, v)
		return sdf.RotateX(math.Pi / 2)
	default:
		return sdf.Identity3d()
	}
}

func profileSDF(p kernel.Prism) (sdf.SDF2, error) {
	if du, dv, r, ok := p.UniformRect(); ok {
		return sdf.Box2D(v2.Vec{X: du, Y: dv}, r), nil
	}
	poly := sdf.NewPolygon()
	for i, pt := range p.Profile {
		v := poly.Add(pt[0], pt[1])
		if r := p.Radii[i]; r > 0 {
			v.Smooth(r, smoothFacets)
		}
	}
	poly.Close()
	return sdf.Polygon2D(poly.Vertices())
}

// extrude extrudes profile to length along Z, centered on the origin, with
// the low and high end edges rounded by e0 and e1.
func extrude(profile sdf.SDF2, length, e0, e1 float64) (sdf.SDF3, error) {
	switch {
	case e0 == 0 && e1 == 0:
		return sdf.Extrude3D(profile, length), nil
	case e0 == e1:
		return sdf.ExtrudeRounded3D(sdf.Offset2D(profile, -e0), length, e0)
	}

	// One rounded end: extend the rounded extrusion past the sharp end and
	// trim it back with a plain extrusion.
	e := math.Max(e0, e1)
	rounded, err := sdf.ExtrudeRounded3D(sdf.Offset2D(profile, -e), length+e, e)
	if err != nil {
		return nil, err
	}
	shift := e / 2
	if e1 > 0 {
		shift = -shift
	}
	rounded = sdf.Transform3D(rounded, sdf.Translate3d(v3.Vec{Z: shift}))
	return sdf.Intersect3D(rounded, sdf.Extrude3D(profile, length)), nil
}
