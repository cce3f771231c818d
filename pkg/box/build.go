package box

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chazu/stackbox/pkg/kernel"
	"github.com/chazu/stackbox/pkg/params"
)

// Parts is the result of a build: both finished solids, laid out side by
// side, and the name suffix their files share.
type Parts struct {
	Bottom   kernel.Solid
	Top      kernel.Solid
	BaseName string
	Params   params.Params
	Derived  params.Derived
}

// Build validates p, then builds the bottom and the lid and moves the lid
// beside the bottom along X. Construction is all-or-nothing: any failure
// returns an error and no parts.
func Build(k kernel.Kernel, p params.Params, opts ...Option) (*Parts, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	b := newBuilder(k, p, opts...)
	start := time.Now()
	b.log.Info("building box",
		zap.Float64("width", p.Width),
		zap.Float64("depth", p.Depth),
		zap.Float64("height", p.Height))

	bottom, err := b.run(b.bottom)
	if err != nil {
		return nil, err
	}
	top, err := b.run(b.top)
	if err != nil {
		return nil, err
	}

	b.enter("layout", zap.Float64("gap", b.gap))
	top = k.Translate(top, p.Width+b.gap, 0, 0)

	b.log.Info("box built",
		zap.String("name", p.BaseName()),
		zap.Duration("elapsed", time.Since(start)))

	return &Parts{
		Bottom:   bottom,
		Top:      top,
		BaseName: p.BaseName(),
		Params:   p,
		Derived:  b.d,
	}, nil
}
