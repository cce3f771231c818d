// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx, trace) provide solid modeling and boolean
// operations behind this interface. The box builders only ever talk to
// a Kernel, so the same construction sequence can be rendered to a mesh
// or dry-run for its dimensions.
package kernel

import "errors"

var (
	// ErrFilletTooLarge is returned when a fillet radius exceeds half the
	// stock it rounds.
	ErrFilletTooLarge = errors.New("fillet radius too large for stock")

	// ErrUnsupportedFillet is returned when a kernel cannot round the
	// selected edges of a solid.
	ErrUnsupportedFillet = errors.New("fillet not supported on this solid")

	// ErrDegenerateProfile is returned for polylines that do not enclose
	// an area or extrusions with a non-positive distance.
	ErrDegenerateProfile = errors.New("degenerate profile")
)

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation. Solids are values:
// every kernel operation returns a new Solid and never mutates its inputs.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Plane names a construction plane through the origin.
type Plane int

const (
	PlaneXY Plane = iota // profile (x,y) -> (X,Y), normal +Z
	PlaneXZ              // profile (x,y) -> (X,Z), normal +Y
	PlaneYZ              // profile (x,y) -> (Y,Z), normal +X
)

func (p Plane) String() string {
	switch p {
	case PlaneXY:
		return "XY"
	case PlaneXZ:
		return "XZ"
	case PlaneYZ:
		return "YZ"
	default:
		return "unknown"
	}
}

// Normal returns the axis perpendicular to the plane.
func (p Plane) Normal() Axis {
	switch p {
	case PlaneXZ:
		return AxisY
	case PlaneYZ:
		return AxisX
	default:
		return AxisZ
	}
}

// Axes returns the world axes the profile's first and second coordinates
// map to.
func (p Plane) Axes() (u, v Axis) {
	switch p {
	case PlaneXZ:
		return AxisX, AxisZ
	case PlaneYZ:
		return AxisY, AxisZ
	default:
		return AxisX, AxisY
	}
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid // centered at the origin
	Extrude(p Plane, pts [][2]float64, distance float64) (Solid, error)

	// Edge rounding
	Fillet(s Solid, sel EdgeSelector, radius float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Mirror(s Solid, p Plane) Solid
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// Center returns the centre of a solid's bounding box.
func Center(s Solid) [3]float64 {
	min, max := s.BoundingBox()
	return [3]float64{
		(min[0] + max[0]) / 2,
		(min[1] + max[1]) / 2,
		(min[2] + max[2]) / 2,
	}
}

// Size returns the extent of a solid's bounding box along each axis.
func Size(s Solid) [3]float64 {
	min, max := s.BoundingBox()
	return [3]float64{max[0] - min[0], max[1] - min[1], max[2] - min[2]}
}
