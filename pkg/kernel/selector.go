package kernel

// Axis is a world coordinate axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisNone // edges that are not parallel to any axis
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "none"
	}
}

// MarshalText renders the axis by name in reports.
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Face is a bit set of bounding-box faces.
type Face uint8

const (
	FaceMinX Face = 1 << iota
	FaceMaxX
	FaceMinY
	FaceMaxY
	FaceMinZ
	FaceMaxZ
)

// MinFace returns the face at the low end of an axis.
func MinFace(a Axis) Face {
	switch a {
	case AxisX:
		return FaceMinX
	case AxisY:
		return FaceMinY
	case AxisZ:
		return FaceMinZ
	}
	return 0
}

// MaxFace returns the face at the high end of an axis.
func MaxFace(a Axis) Face {
	switch a {
	case AxisX:
		return FaceMaxX
	case AxisY:
		return FaceMaxY
	case AxisZ:
		return FaceMaxZ
	}
	return 0
}

// Edge describes one straight edge of a primitive in terms a selector can
// match: the axis it runs along and the bounding-box faces it lies on.
type Edge struct {
	Axis  Axis
	Faces Face
}

// EdgeSelector picks edges of a solid for rounding.
type EdgeSelector func(e Edge) bool

// Parallel selects edges running along axis a ("|Z").
func Parallel(a Axis) EdgeSelector {
	return func(e Edge) bool { return e.Axis == a }
}

// OnFace selects edges lying on any of the given faces ("<Z", ">Y").
func OnFace(f Face) EdgeSelector {
	return func(e Edge) bool { return e.Faces&f != 0 }
}

// Or selects edges matched by any of sels.
func Or(sels ...EdgeSelector) EdgeSelector {
	return func(e Edge) bool {
		for _, s := range sels {
			if s(e) {
				return true
			}
		}
		return false
	}
}

// And selects edges matched by all of sels.
func And(sels ...EdgeSelector) EdgeSelector {
	return func(e Edge) bool {
		for _, s := range sels {
			if !s(e) {
				return false
			}
		}
		return true
	}
}
