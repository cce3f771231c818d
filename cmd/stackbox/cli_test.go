package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/chazu/stackbox/pkg/config"
	"github.com/chazu/stackbox/pkg/kernel/trace"
	"github.com/chazu/stackbox/pkg/params"
)

func TestWriteDims(t *testing.T) {
	logger = zap.NewNop()

	var buf bytes.Buffer
	require.NoError(t, writeDims(&buf, params.Default(), false))

	var report map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &report))
	assert.Contains(t, report, "params")
	assert.Contains(t, report, "derived")
	assert.NotContains(t, report, "errors")

	derived, ok := report["derived"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 30.0, toFloat(derived["footprint_w"]))
	assert.Equal(t, 15.0, toFloat(derived["footprint_d"]))
	assert.NotContains(t, buf.String(), "---", "no trace unless asked")
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	}
	return -1
}

func TestWriteDimsInvalid(t *testing.T) {
	logger = zap.NewNop()

	p := params.Default()
	p.BaseFillet = 13

	var buf bytes.Buffer
	err := writeDims(&buf, p, true)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "errors:")
	assert.Contains(t, buf.String(), "footprint_d")
	assert.NotContains(t, buf.String(), "---", "no dry run for invalid parameters")
}

func TestWriteDimsTrace(t *testing.T) {
	logger = zap.NewNop()

	var buf bytes.Buffer
	require.NoError(t, writeDims(&buf, params.Default(), true))

	_, ops, found := strings.Cut(buf.String(), "---\n")
	require.True(t, found)
	lines := strings.Split(strings.TrimSpace(ops), "\n")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "= box(")
	assert.Contains(t, ops, "fillet(")
	assert.Contains(t, ops, "cut(")
	assert.Contains(t, lines[len(lines)-1], "translate(")
}

func TestBuildAndExport(t *testing.T) {
	logger = zap.NewNop()

	tests := []struct {
		format string
		want   []string
	}{
		{"stl", []string{"bottom_40x25x30.stl", "top_40x25x30.stl"}},
		{"3mf", []string{"bottom_40x25x30.3mf", "top_40x25x30.3mf"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := t.TempDir()
			v := config.New()
			v.Set(config.KeyOutputDir, dir)
			v.Set(config.KeyFormat, tt.format)
			c, err := config.Decode(v)
			require.NoError(t, err)

			files, err := buildAndExport(context.Background(), trace.New(), c)
			require.NoError(t, err)
			require.Len(t, files, len(tt.want))
			for i, f := range files {
				assert.Equal(t, dir, filepath.Dir(f))
				assert.Equal(t, tt.want[i], filepath.Base(f))
			}
		})
	}
}

func TestBuildAndExportInvalid(t *testing.T) {
	logger = zap.NewNop()

	v := config.New()
	v.Set(config.KeyOutputDir, t.TempDir())
	v.Set("clearance", -1)
	c, err := config.Decode(v)
	require.NoError(t, err)

	_, err = buildAndExport(context.Background(), trace.New(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clearance")
}

func TestVersionCmd(t *testing.T) {
	t.Cleanup(func() { logger = zap.NewNop() })

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "stackbox "+version+"\n", buf.String())
}
