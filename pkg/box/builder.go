// Package box builds the two printable parts of a stackable storage box,
// the bottom and the lid, from a validated parameter set. Builders only
// talk to a kernel.Kernel and never touch the filesystem.
package box

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chazu/stackbox/pkg/kernel"
	"github.com/chazu/stackbox/pkg/params"
)

// StageError identifies the builder stage where construction failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("build stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Option configures a build.
type Option func(*builder)

// WithLogger sets the logger used for per-stage debug output.
func WithLogger(log *zap.Logger) Option {
	return func(b *builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithLayoutGap sets the gap left between the bottom and the lid when they
// are laid out side by side.
func WithLayoutGap(gap float64) Option {
	return func(b *builder) {
		b.gap = gap
	}
}

// DefaultLayoutGap is the default distance between the parts.
const DefaultLayoutGap = 10.0

// builder carries the kernel, the parameters and their derived dimensions
// through one construction, and remembers the current stage for errors.
type builder struct {
	k     kernel.Kernel
	p     params.Params
	d     params.Derived
	log   *zap.Logger
	gap   float64
	stage string
}

func newBuilder(k kernel.Kernel, p params.Params, opts ...Option) *builder {
	b := &builder{
		k:   k,
		p:   p,
		d:   p.Derive(),
		log: zap.NewNop(),
		gap: DefaultLayoutGap,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// enter marks the start of a named stage.
func (b *builder) enter(stage string, fields ...zap.Field) {
	b.stage = stage
	b.log.Debug("build stage", append([]zap.Field{zap.String("stage", stage)}, fields...)...)
}

func (b *builder) fail(err error) error {
	return &StageError{Stage: b.stage, Err: err}
}

// run invokes fn and converts a kernel panic into a StageError for the
// stage that was running.
func (b *builder) run(fn func() (kernel.Solid, error)) (s kernel.Solid, err error) {
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = b.fail(fmt.Errorf("kernel panic: %v", r))
		}
	}()
	return fn()
}

// roundedBox is a centered box with its vertical edges rounded.
func (b *builder) roundedBox(x, y, z, radius float64) (kernel.Solid, error) {
	s, err := b.k.Fillet(b.k.Box(x, y, z), kernel.Parallel(kernel.AxisZ), radius)
	if err != nil {
		return nil, b.fail(err)
	}
	return s, nil
}

// boxAcross returns a centered box of size along on axis a, size across
// on the other horizontal axis and height h.
func (b *builder) boxAcross(a kernel.Axis, along, across, h float64) kernel.Solid {
	if a == kernel.AxisY {
		return b.k.Box(across, along, h)
	}
	return b.k.Box(along, across, h)
}

// shift moves s by v along axis a.
func (b *builder) shift(s kernel.Solid, a kernel.Axis, v float64) kernel.Solid {
	switch a {
	case kernel.AxisX:
		return b.k.Translate(s, v, 0, 0)
	case kernel.AxisY:
		return b.k.Translate(s, 0, v, 0)
	default:
		return b.k.Translate(s, 0, 0, v)
	}
}

// mirrorAcross reflects s through the plane perpendicular to axis a.
func (b *builder) mirrorAcross(s kernel.Solid, a kernel.Axis) kernel.Solid {
	switch a {
	case kernel.AxisX:
		return b.k.Mirror(s, kernel.PlaneYZ)
	case kernel.AxisY:
		return b.k.Mirror(s, kernel.PlaneXZ)
	default:
		return b.k.Mirror(s, kernel.PlaneXY)
	}
}

// rotateAboutCenter rotates s by Euler degrees about its bounding-box
// centre instead of the origin.
func (b *builder) rotateAboutCenter(s kernel.Solid, x, y, z float64) kernel.Solid {
	c := kernel.Center(s)
	s = b.k.Translate(s, -c[0], -c[1], -c[2])
	s = b.k.Rotate(s, x, y, z)
	return b.k.Translate(s, c[0], c[1], c[2])
}
