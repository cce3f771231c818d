package sdfx

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/stackbox/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// testCells keeps marching cubes fast in tests.
const testCells = 40

func vec(x, y, z float64) v3.Vec {
	return v3.Vec{X: x, Y: y, Z: z}
}

func assertBounds(t *testing.T, s kernel.Solid, expectMin, expectMax [3]float64, tol float64) {
	t.Helper()
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestBox(t *testing.T) {
	if testing.Short() {
		t.Skip("meshing in short mode")
	}
	k := New(WithMeshCells(testCells))
	box := k.Box(100, 50, 25)
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	triCount := mesh.TriangleCount()
	if triCount == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	// Verify vertex and index array sizes are consistent.
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != triCount*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), triCount*3)
	}

	// The mesh must stay within the solid's bounds.
	min, max := mesh.Bounds()
	for i, want := range [3]float64{50, 25, 12.5} {
		if max[i] > want+1 || min[i] < -want-1 {
			t.Errorf("axis %d: mesh spans [%f, %f], expected within ±%f", i, min[i], max[i], want)
		}
	}
}

func TestBoxPanicsOnNonPositiveSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New().Box(10, 0, 10)
}

func TestBoundingBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	assertBounds(t, box, [3]float64{-50, -25, -12.5}, [3]float64{50, 25, 12.5}, 0.01)
}

func TestTranslate(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	translated := k.Translate(box, 100, 200, 300)

	// Translated box(10,10,10) by (100,200,300) should be centered at (100,200,300).
	assertBounds(t, translated, [3]float64{95, 195, 295}, [3]float64{105, 205, 305}, 0.01)
}

func TestExtrudePlanes(t *testing.T) {
	k := New()
	tri := [][2]float64{{0, 0}, {10, 0}, {0, 5}}

	tests := []struct {
		plane    kernel.Plane
		min, max [3]float64
	}{
		{kernel.PlaneXY, [3]float64{0, 0, 0}, [3]float64{10, 5, 3}},
		{kernel.PlaneXZ, [3]float64{0, 0, 0}, [3]float64{10, 3, 5}},
		{kernel.PlaneYZ, [3]float64{0, 0, 0}, [3]float64{3, 10, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.plane.String(), func(t *testing.T) {
			s, err := k.Extrude(tt.plane, tri, 3)
			if err != nil {
				t.Fatalf("Extrude failed: %v", err)
			}
			assertBounds(t, s, tt.min, tt.max, 0.01)
		})
	}
}

func TestExtrudeDegenerate(t *testing.T) {
	k := New()
	_, err := k.Extrude(kernel.PlaneXZ, [][2]float64{{0, 0}, {1, 1}}, 5)
	if !errors.Is(err, kernel.ErrDegenerateProfile) {
		t.Fatalf("expected ErrDegenerateProfile, got %v", err)
	}
	_, err = k.Extrude(kernel.PlaneXZ, [][2]float64{{0, 0}, {1, 1}, {2, 2}}, 5)
	if !errors.Is(err, kernel.ErrDegenerateProfile) {
		t.Fatalf("expected ErrDegenerateProfile for collinear points, got %v", err)
	}
}

func TestFilletKeepsBounds(t *testing.T) {
	k := New()
	box := k.Translate(k.Box(40, 20, 10), 1, 2, 3)

	rounded, err := k.Fillet(box, kernel.Or(kernel.Parallel(kernel.AxisZ), kernel.OnFace(kernel.FaceMinZ)), 4)
	if err != nil {
		t.Fatalf("Fillet failed: %v", err)
	}
	assertBounds(t, rounded, [3]float64{-19, -8, -2}, [3]float64{21, 12, 8}, 0.01)

	// Corners are cut away, edge midpoints are not.
	s := unwrap(rounded).s
	if d := s.Evaluate(vec(20.9, 11.9, 3)); d <= 0 {
		t.Errorf("rounded corner should be outside, distance %f", d)
	}
	if d := s.Evaluate(vec(1, 11.9, 3)); d >= 0 {
		t.Errorf("edge midpoint should be inside, distance %f", d)
	}
	if d := s.Evaluate(vec(1, 2, -1.9)); d >= 0 {
		t.Errorf("bottom center should be inside, distance %f", d)
	}
}

func TestFilletReaxis(t *testing.T) {
	k := New()
	box := k.Box(10, 30, 10)

	// Edges along Y are rounded by re-expressing the box as a Y prism.
	rounded, err := k.Fillet(box, kernel.Parallel(kernel.AxisY), 2)
	if err != nil {
		t.Fatalf("Fillet failed: %v", err)
	}
	s := unwrap(rounded).s
	if d := s.Evaluate(vec(4.9, 0, 4.9)); d <= 0 {
		t.Errorf("corner along Y should be rounded, distance %f", d)
	}
	if d := s.Evaluate(vec(4.9, 14.9, 0)); d >= 0 {
		t.Errorf("Y end face should stay sharp, distance %f", d)
	}
}

func TestFilletTooLarge(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	_, err := k.Fillet(box, kernel.Parallel(kernel.AxisZ), 6)
	if !errors.Is(err, kernel.ErrFilletTooLarge) {
		t.Fatalf("expected ErrFilletTooLarge, got %v", err)
	}
}

func TestFilletZeroIsNoop(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	out, err := k.Fillet(box, kernel.Parallel(kernel.AxisZ), 0)
	if err != nil {
		t.Fatalf("Fillet failed: %v", err)
	}
	if out != box {
		t.Fatal("zero radius fillet should return its input")
	}
}

func TestFilletOpaqueSolid(t *testing.T) {
	k := New()
	u := k.Union(k.Box(10, 10, 10), k.Translate(k.Box(10, 10, 10), 5, 0, 0))
	_, err := k.Fillet(u, kernel.Parallel(kernel.AxisZ), 1)
	if !errors.Is(err, kernel.ErrUnsupportedFillet) {
		t.Fatalf("expected ErrUnsupportedFillet, got %v", err)
	}
}

func TestFilletDifference(t *testing.T) {
	k := New()
	ring := k.Difference(k.Box(20, 20, 4), k.Box(16, 16, 6))
	rounded, err := k.Fillet(ring, kernel.Or(kernel.OnFace(kernel.FaceMaxZ), kernel.OnFace(kernel.FaceMinZ)), 0.5)
	if err != nil {
		t.Fatalf("Fillet failed: %v", err)
	}
	assertBounds(t, rounded, [3]float64{-10, -10, -2}, [3]float64{10, 10, 2}, 0.01)

	s := unwrap(rounded).s
	if d := s.Evaluate(vec(9.95, 0, 1.95)); d <= 0 {
		t.Errorf("outer top edge should be rounded, distance %f", d)
	}
	if d := s.Evaluate(vec(9, 0, 0)); d >= 0 {
		t.Errorf("wall should stay solid, distance %f", d)
	}
	if d := s.Evaluate(vec(0, 0, 0)); d <= 0 {
		t.Errorf("hole should stay open, distance %f", d)
	}
}

func TestFilletTranslatedDifference(t *testing.T) {
	k := New()
	ring := k.Translate(k.Difference(k.Box(20, 20, 4), k.Box(16, 16, 6)), 0, 0, 10)
	rounded, err := k.Fillet(ring, kernel.OnFace(kernel.FaceMaxZ), 0.5)
	if err != nil {
		t.Fatalf("Fillet failed: %v", err)
	}
	assertBounds(t, rounded, [3]float64{-10, -10, 8}, [3]float64{10, 10, 12}, 0.01)
}

func TestMirror(t *testing.T) {
	k := New()
	box := k.Translate(k.Box(2, 2, 2), 5, 6, 7)

	tests := []struct {
		plane    kernel.Plane
		min, max [3]float64
	}{
		{kernel.PlaneXY, [3]float64{4, 5, -8}, [3]float64{6, 7, -6}},
		{kernel.PlaneXZ, [3]float64{4, -7, 6}, [3]float64{6, -5, 8}},
		{kernel.PlaneYZ, [3]float64{-6, 5, 6}, [3]float64{-4, 7, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.plane.String(), func(t *testing.T) {
			assertBounds(t, k.Mirror(box, tt.plane), tt.min, tt.max, 0.01)
		})
	}
}

func TestRotate(t *testing.T) {
	k := New()
	box := k.Box(40, 20, 10)
	rotated := k.Rotate(box, 0, 0, 90)
	assertBounds(t, rotated, [3]float64{-10, -20, -5}, [3]float64{10, 20, 5}, 0.01)
}

func TestDifference(t *testing.T) {
	if testing.Short() {
		t.Skip("meshing in short mode")
	}
	k := New(WithMeshCells(testCells))

	box := k.Box(100, 100, 100)
	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}

	hole := k.Box(20, 20, 120)
	diff := k.Difference(box, hole)
	diffMesh, err := k.ToMesh(diff)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	if diffMesh.IsEmpty() {
		t.Fatal("difference mesh is empty")
	}
	// A box with a hole should have more triangles than a plain box.
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
}

func TestUnion(t *testing.T) {
	k := New()
	box1 := k.Box(50, 50, 50)
	box2 := k.Translate(k.Box(50, 50, 50), 30, 0, 0)
	u := k.Union(box1, box2)
	assertBounds(t, u, [3]float64{-25, -25, -25}, [3]float64{55, 25, 25}, 0.01)
}

func TestIntersection(t *testing.T) {
	k := New()
	box1 := k.Box(100, 100, 100)
	box2 := k.Translate(k.Box(100, 100, 100), 50, 0, 0)
	inter := k.Intersection(box1, box2)
	s := unwrap(inter).s
	if d := s.Evaluate(vec(25, 0, 0)); d >= 0 {
		t.Errorf("overlap should be inside, distance %f", d)
	}
	if d := s.Evaluate(vec(-25, 0, 0)); d <= 0 {
		t.Errorf("box1 only region should be outside, distance %f", d)
	}
}
