package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hschendel/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chazu/stackbox/pkg/box"
	"github.com/chazu/stackbox/pkg/kernel"
	"github.com/chazu/stackbox/pkg/kernel/trace"
	"github.com/chazu/stackbox/pkg/params"
)

func buildParts(t *testing.T, k kernel.Kernel, p params.Params) *box.Parts {
	t.Helper()
	parts, err := box.Build(k, p)
	require.NoError(t, err)
	return parts
}

// cubeMesh is a unit cube from the trace kernel, 12 unindexed triangles.
func cubeMesh(t *testing.T) *kernel.Mesh {
	t.Helper()
	k := trace.New()
	m, err := k.ToMesh(k.Box(2, 2, 2))
	require.NoError(t, err)
	m.PartName = "cube"
	return m
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"stl", FormatSTL, false},
		{"STL", FormatSTL, false},
		{" 3mf ", Format3MF, false},
		{"obj", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "bottom_40x25x30.stl", FileName(PartBottom, "40x25x30", FormatSTL))
	assert.Equal(t, "top_40x25x30.3mf", FileName(PartTop, "40x25x30", Format3MF))
}

func TestWriteSTL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSTL(&buf, cubeMesh(t)))

	solid, err := stl.ReadAll(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, solid.Triangles, 12)
	// The first face is the bottom.
	assert.Equal(t, stl.Vec3{0, 0, -1}, solid.Triangles[0].Normal)
	for _, tri := range solid.Triangles {
		for _, v := range tri.Vertices {
			for _, c := range v {
				assert.InDelta(t, 1, abs(c), 1e-6)
			}
		}
	}
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func TestFaceNormalDegenerate(t *testing.T) {
	v := [3]stl.Vec3{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}}
	assert.Equal(t, stl.Vec3{}, faceNormal(v))
}

func read3MFModel(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, ".model") {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			b, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(b)
		}
	}
	require.Fail(t, "no model part in 3MF package")
	return ""
}

func TestWrite3MFMergesVertices(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write3MF(&buf, cubeMesh(t)))

	model := read3MFModel(t, buf.Bytes())
	assert.Equal(t, 8, strings.Count(model, "<vertex "))
	assert.Equal(t, 12, strings.Count(model, "<triangle "))
	assert.Contains(t, model, "cube")
}

func TestTessellate(t *testing.T) {
	k := trace.New()
	parts := buildParts(t, k, params.Default())

	meshes, err := Tessellate(context.Background(), k, parts)
	require.NoError(t, err)
	require.Len(t, meshes, 2)
	assert.Equal(t, "bottom_40x25x30", meshes[0].PartName)
	assert.Equal(t, "top_40x25x30", meshes[1].PartName)

	min, _ := meshes[1].Bounds()
	assert.InDelta(t, 30, min[0], 1e-4, "lid laid out beside the bottom")
}

func TestTessellateNil(t *testing.T) {
	meshes, err := Tessellate(context.Background(), trace.New(), nil)
	assert.NoError(t, err)
	assert.Nil(t, meshes)
}

func TestExport(t *testing.T) {
	for _, f := range []Format{FormatSTL, Format3MF} {
		t.Run(string(f), func(t *testing.T) {
			dir := t.TempDir()
			k := trace.New()
			parts := buildParts(t, k, params.Default())

			core, logs := observer.New(zap.InfoLevel)
			e := New(dir, WithFormat(f), WithLogger(zap.New(core)))
			paths, err := e.Export(context.Background(), k, parts)
			require.NoError(t, err)

			assert.Equal(t, []string{
				filepath.Join(dir, "bottom_40x25x30."+string(f)),
				filepath.Join(dir, "top_40x25x30."+string(f)),
			}, paths)
			assert.ElementsMatch(t, []string{
				"bottom_40x25x30." + string(f),
				"top_40x25x30." + string(f),
			}, listDir(t, dir))
			assert.Equal(t, 2, logs.FilterMessage("wrote part").Len())
			assert.Equal(t, 1, logs.FilterMessage("export complete").Len())
		})
	}
}

func TestExportScenarioB(t *testing.T) {
	dir := t.TempDir()
	k := trace.New()
	p := params.Default()
	p.Width, p.Depth = 25, 40

	paths, err := New(dir).Export(context.Background(), k, buildParts(t, k, p))
	require.NoError(t, err)
	assert.Equal(t, "bottom_25x40x30.stl", filepath.Base(paths[0]))
	assert.Equal(t, "top_25x40x30.stl", filepath.Base(paths[1]))
}

// lidFailKernel cannot mesh anything laid out right of the origin, which
// is where the lid goes.
type lidFailKernel struct {
	*trace.Kernel
}

var errMesh = errors.New("mesh failed")

func (k lidFailKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	if min, _ := s.BoundingBox(); min[0] > 0 {
		return nil, errMesh
	}
	return k.Kernel.ToMesh(s)
}

func TestExportAllOrNothing(t *testing.T) {
	dir := t.TempDir()
	k := lidFailKernel{trace.New()}
	parts := buildParts(t, k, params.Default())

	paths, err := New(dir).Export(context.Background(), k, parts)
	require.Error(t, err)
	assert.ErrorIs(t, err, errMesh)
	assert.Contains(t, err.Error(), "tessellate top")
	assert.Nil(t, paths)
	assert.Empty(t, listDir(t, dir), "no part and no temporary file may remain")
}

func TestExportMissingDir(t *testing.T) {
	k := trace.New()
	dir := filepath.Join(t.TempDir(), "missing")

	_, err := New(dir).Export(context.Background(), k, buildParts(t, k, params.Default()))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExportCancelled(t *testing.T) {
	dir := t.TempDir()
	k := trace.New()
	parts := buildParts(t, k, params.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(dir).Export(ctx, k, parts)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, listDir(t, dir))
}

func TestExportNilParts(t *testing.T) {
	dir := t.TempDir()
	_, err := New(dir).Export(context.Background(), trace.New(), nil)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
