package export

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/stackbox/pkg/box"
	"github.com/chazu/stackbox/pkg/kernel"
)

// Exporter writes finished parts into a directory.
type Exporter struct {
	dir    string
	format Format
	log    *zap.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithFormat sets the output format. The default is STL.
func WithFormat(f Format) Option {
	return func(e *Exporter) {
		e.format = f
	}
}

// WithLogger sets the logger used to report written files.
func WithLogger(log *zap.Logger) Option {
	return func(e *Exporter) {
		if log != nil {
			e.log = log
		}
	}
}

// New returns an Exporter writing into dir.
func New(dir string, opts ...Option) *Exporter {
	e := &Exporter{
		dir:    dir,
		format: FormatSTL,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// staged is a part encoded into a temporary file, waiting to be renamed.
type staged struct {
	tmp  string
	path string
	size int64
}

// Export meshes and writes both parts. Either both files are in place
// when it returns nil, or neither is and no temporary file remains.
// It returns the written paths, bottom first.
func (e *Exporter) Export(ctx context.Context, k kernel.Kernel, p *box.Parts) ([]string, error) {
	if p == nil {
		return nil, errors.New("export: no parts")
	}
	start := time.Now()
	solids := partsOf(p)
	out := make([]staged, len(solids))

	g, gctx := errgroup.WithContext(ctx)
	for i, ns := range solids {
		g.Go(func() error {
			m, err := tessellate(gctx, k, ns, p.BaseName)
			if err != nil {
				return err
			}
			s, err := e.stage(gctx, ns.part, p.BaseName, m)
			out[i] = s
			return err
		})
	}
	if err := g.Wait(); err != nil {
		discard(out)
		return nil, err
	}

	paths := make([]string, 0, len(out))
	for i, s := range out {
		if err := os.Rename(s.tmp, s.path); err != nil {
			discard(out[i:])
			for _, done := range paths {
				os.Remove(done)
			}
			return nil, fmt.Errorf("export %s: %w", s.path, err)
		}
		paths = append(paths, s.path)
		e.log.Info("wrote part",
			zap.String("path", s.path),
			zap.String("format", string(e.format)),
			zap.String("size", humanize.Bytes(uint64(s.size))))
	}
	e.log.Info("export complete",
		zap.Int("files", len(paths)),
		zap.Duration("elapsed", time.Since(start)))
	return paths, nil
}

// stage encodes m into a temporary file next to its final path.
func (e *Exporter) stage(ctx context.Context, part, base string, m *kernel.Mesh) (staged, error) {
	s := staged{path: filepath.Join(e.dir, FileName(part, base, e.format))}
	if err := ctx.Err(); err != nil {
		return s, err
	}

	f, err := os.CreateTemp(e.dir, "."+part+"-*.tmp")
	if err != nil {
		return s, fmt.Errorf("export %s: %w", part, err)
	}
	s.tmp = f.Name()

	e.log.Debug("encoding part",
		zap.String("part", part),
		zap.Int("triangles", m.TriangleCount()))

	w := bufio.NewWriter(f)
	err = Encode(w, m, e.format)
	if err == nil {
		err = w.Flush()
	}
	if err == nil {
		var fi os.FileInfo
		if fi, err = f.Stat(); err == nil {
			s.size = fi.Size()
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return s, fmt.Errorf("export %s to %s: %w", part, s.path, err)
	}
	return s, nil
}

// discard removes every temporary file that was created.
func discard(files []staged) {
	for _, s := range files {
		if s.tmp != "" {
			os.Remove(s.tmp)
		}
	}
}
