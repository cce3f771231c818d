package box

import (
	"go.uber.org/zap"

	"github.com/chazu/stackbox/pkg/kernel"
	"github.com/chazu/stackbox/pkg/params"
)

// Ring builds a rounded rectangular annulus centered on the origin.
func Ring(k kernel.Kernel, r params.Ring, opts ...Option) (kernel.Solid, error) {
	b := newBuilder(k, params.Params{}, opts...)
	b.enter("ring")
	return b.run(func() (kernel.Solid, error) { return b.ring(r) })
}

// ring subtracts an inner rounded box, inset by the wall thickness and
// twice as tall so the cut pierces cleanly, from the outer rounded box.
// A zero inner radius leaves the inner corners square.
func (b *builder) ring(r params.Ring) (kernel.Solid, error) {
	b.log.Debug("ring",
		zap.Float64("width", r.Width),
		zap.Float64("depth", r.Depth),
		zap.Float64("height", r.Height),
		zap.Float64("thick", r.Thick))

	outer, err := b.roundedBox(r.Width, r.Depth, r.Height, params.RingCornerRadius)
	if err != nil {
		return nil, err
	}
	inner, err := b.roundedBox(r.Width-2*r.Thick, r.Depth-2*r.Thick, 2*r.Height, r.InnerRadius())
	if err != nil {
		return nil, err
	}
	return b.k.Difference(outer, inner), nil
}
