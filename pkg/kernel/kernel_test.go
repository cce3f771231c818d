package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			assert.Equal(t, tt.want, m.VertexCount())
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			assert.Equal(t, tt.want, m.TriangleCount())
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	assert.True(t, (&Mesh{}).IsEmpty())
	assert.False(t, (&Mesh{Vertices: []float32{1, 2, 3}}).IsEmpty())
}

func TestMeshBounds(t *testing.T) {
	m := &Mesh{Vertices: []float32{-1, 2, 3, 4, -5, 6, 0, 0, -7}}
	min, max := m.Bounds()
	assert.Equal(t, [3]float64{-1, -5, -7}, min)
	assert.Equal(t, [3]float64{4, 2, 6}, max)

	min, max = (&Mesh{}).Bounds()
	assert.Equal(t, [3]float64{}, min)
	assert.Equal(t, [3]float64{}, max)
}

func TestMeshNormalOutOfRange(t *testing.T) {
	m := &Mesh{Vertices: []float32{0, 0, 0}}
	assert.Equal(t, [3]float32{}, m.Normal(0))
}

// --- Selector tests ---

func TestSelectors(t *testing.T) {
	vertical := Edge{Axis: AxisZ, Faces: FaceMinX | FaceMinY}
	bottomX := Edge{Axis: AxisX, Faces: FaceMinY | FaceMinZ}
	topY := Edge{Axis: AxisY, Faces: FaceMaxX | FaceMaxZ}

	tests := []struct {
		name string
		sel  EdgeSelector
		edge Edge
		want bool
	}{
		{"|Z vertical", Parallel(AxisZ), vertical, true},
		{"|Z bottom", Parallel(AxisZ), bottomX, false},
		{"<Z bottom", OnFace(FaceMinZ), bottomX, true},
		{"<Z vertical", OnFace(FaceMinZ), vertical, false},
		{"|Z or <Z vertical", Or(Parallel(AxisZ), OnFace(FaceMinZ)), vertical, true},
		{"|Z or <Z bottom", Or(Parallel(AxisZ), OnFace(FaceMinZ)), bottomX, true},
		{"|Z or <Z top", Or(Parallel(AxisZ), OnFace(FaceMinZ)), topY, false},
		{"|Y and >Z top", And(Parallel(AxisY), OnFace(FaceMaxZ)), topY, true},
		{"|Y and >Z bottom", And(Parallel(AxisY), OnFace(FaceMaxZ)), bottomX, false},
		{"<Y or >Y", OnFace(FaceMinY | FaceMaxY), bottomX, true},
		{"empty or", Or(), vertical, false},
		{"empty and", And(), vertical, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sel(tt.edge))
		})
	}
}

func TestFaceHelpers(t *testing.T) {
	assert.Equal(t, FaceMinX, MinFace(AxisX))
	assert.Equal(t, FaceMaxZ, MaxFace(AxisZ))
	assert.Equal(t, Face(0), MinFace(AxisNone))
}

func TestPlaneAxes(t *testing.T) {
	tests := []struct {
		plane  Plane
		u, v   Axis
		normal Axis
	}{
		{PlaneXY, AxisX, AxisY, AxisZ},
		{PlaneXZ, AxisX, AxisZ, AxisY},
		{PlaneYZ, AxisY, AxisZ, AxisX},
	}
	for _, tt := range tests {
		t.Run(tt.plane.String(), func(t *testing.T) {
			u, v := tt.plane.Axes()
			assert.Equal(t, tt.u, u)
			assert.Equal(t, tt.v, v)
			assert.Equal(t, tt.normal, tt.plane.Normal())
		})
	}
}

type boundsOnly struct{ min, max [3]float64 }

func (b boundsOnly) BoundingBox() (min, max [3]float64) { return b.min, b.max }

func TestCenterAndSize(t *testing.T) {
	s := boundsOnly{min: [3]float64{-2, 0, 1}, max: [3]float64{4, 10, 3}}
	assert.Equal(t, [3]float64{1, 5, 2}, Center(s))
	assert.Equal(t, [3]float64{6, 10, 2}, Size(s))
}
