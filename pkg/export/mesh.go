// Package export turns the finished parts into printable files. Both parts
// are meshed and encoded concurrently into temporary files, which are
// renamed into place only once both have been written.
package export

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/chazu/stackbox/pkg/box"
	"github.com/chazu/stackbox/pkg/kernel"
)

// Part names used as file name prefixes.
const (
	PartBottom = "bottom"
	PartTop    = "top"
)

// namedSolid pairs a finished solid with its file name prefix.
type namedSolid struct {
	part  string
	solid kernel.Solid
}

func partsOf(p *box.Parts) []namedSolid {
	return []namedSolid{
		{PartBottom, p.Bottom},
		{PartTop, p.Top},
	}
}

// Tessellate meshes both parts concurrently. Each mesh is named after its
// part and the shared base name, e.g. "bottom_40x25x30".
func Tessellate(ctx context.Context, k kernel.Kernel, p *box.Parts) ([]*kernel.Mesh, error) {
	if p == nil {
		return nil, nil
	}

	solids := partsOf(p)
	meshes := make([]*kernel.Mesh, len(solids))
	g, ctx := errgroup.WithContext(ctx)
	for i, ns := range solids {
		g.Go(func() error {
			m, err := tessellate(ctx, k, ns, p.BaseName)
			if err != nil {
				return err
			}
			meshes[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

func tessellate(ctx context.Context, k kernel.Kernel, ns namedSolid, base string) (*kernel.Mesh, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := k.ToMesh(ns.solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate %s: %w", ns.part, err)
	}
	m.PartName = ns.part + "_" + base
	return m, nil
}
