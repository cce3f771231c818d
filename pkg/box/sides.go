package box

import (
	"go.uber.org/zap"

	"github.com/chazu/stackbox/pkg/kernel"
	"github.com/chazu/stackbox/pkg/params"
)

// sides builds the four-wall lattice: the width-facing panel, the
// depth-facing panel turned a quarter turn, and two reinforcing rings
// bounding the window band.
func (b *builder) sides() (kernel.Solid, error) {
	k := b.k
	d := b.d

	b.enter("sides.panel_a")
	panelA, err := b.sidePanel(d.PanelA)
	if err != nil {
		return nil, err
	}

	b.enter("sides.panel_b")
	panelB, err := b.sidePanel(d.PanelB)
	if err != nil {
		return nil, err
	}
	panelB = b.rotateAboutCenter(panelB, 0, 0, 90)

	s := k.Union(panelA, panelB)

	b.enter("sides.rings",
		zap.Float64("ring_offset", d.RingOffset),
		zap.Float64("low_z", d.ReinforceLowZ),
		zap.Float64("high_z", d.ReinforceHighZ))
	ring, err := b.ring(d.Reinforce)
	if err != nil {
		return nil, err
	}
	ring, err = k.Fillet(ring, kernel.OnFace(kernel.FaceMinZ|kernel.FaceMaxZ), params.ReinforceFillet)
	if err != nil {
		return nil, b.fail(err)
	}

	half := params.ReinforceHeight / 2
	high := k.Translate(ring, 0, 0, d.ReinforceHighZ+half)
	low := k.Translate(ring, 0, 0, d.ReinforceLowZ+half)

	s = k.Union(s, high)
	s = k.Union(s, low)
	return s, nil
}
