package main

import (
	"context"
	"fmt"
	"io"

	"github.com/chazu/stackbox/pkg/box"
	"github.com/chazu/stackbox/pkg/config"
	"github.com/chazu/stackbox/pkg/export"
	"github.com/chazu/stackbox/pkg/kernel"
	"github.com/chazu/stackbox/pkg/kernel/sdfx"
)

// loadConfig reads every configuration layer.
func loadConfig() (config.Config, error) {
	return config.Load(settings, configFile)
}

func newKernel(c config.Config) kernel.Kernel {
	return sdfx.New(sdfx.WithMeshCells(c.MeshCells))
}

// buildAndExport builds both parts with k and writes them to the output
// directory. It returns the files written.
func buildAndExport(ctx context.Context, k kernel.Kernel, c config.Config) ([]string, error) {
	parts, err := box.Build(k, c.Params,
		box.WithLogger(logger),
		box.WithLayoutGap(c.LayoutGap),
	)
	if err != nil {
		return nil, err
	}
	exp := export.New(c.OutputDir,
		export.WithFormat(c.FormatValue()),
		export.WithLogger(logger),
	)
	return exp.Export(ctx, k, parts)
}

func printFiles(w io.Writer, files []string) {
	for _, f := range files {
		fmt.Fprintln(w, f)
	}
}
