package box

import (
	"go.uber.org/zap"

	"github.com/chazu/stackbox/pkg/kernel"
	"github.com/chazu/stackbox/pkg/params"
)

// Bottom builds the bottom part standing on Z = 0. The parameters are
// assumed to be valid; Build validates them first.
func Bottom(k kernel.Kernel, p params.Params, opts ...Option) (kernel.Solid, error) {
	b := newBuilder(k, p, opts...)
	return b.run(b.bottom)
}

func (b *builder) bottom() (kernel.Solid, error) {
	k := b.k

	basin, err := b.basin()
	if err != nil {
		return nil, err
	}

	s, err := b.sides()
	if err != nil {
		return nil, err
	}

	b.enter("bottom.assemble")
	part := k.Union(basin, s)

	cavity, err := b.cavity()
	if err != nil {
		return nil, err
	}
	interlock, err := b.interlock()
	if err != nil {
		return nil, err
	}
	socket, err := b.socket()
	if err != nil {
		return nil, err
	}
	slot := b.slot()

	// The interlock is fused before the cavity is cut so the cavity floor
	// keeps its wall thickness where the two overlap.
	b.enter("bottom.cut")
	part = k.Union(part, interlock)
	part = k.Difference(part, cavity)
	part = k.Difference(part, socket)
	part = k.Difference(part, slot)
	return part, nil
}

// basin is the rounded outer shell, lifted so its floor sits at the lip.
func (b *builder) basin() (kernel.Solid, error) {
	d := b.d
	b.enter("bottom.basin",
		zap.Float64("height", d.BasinH),
		zap.Float64("fillet", b.p.BaseFillet))

	s, err := b.k.Fillet(
		b.k.Box(b.p.Width, b.p.Depth, d.BasinH),
		kernel.Or(kernel.Parallel(kernel.AxisZ), kernel.OnFace(kernel.FaceMinZ)),
		b.p.BaseFillet)
	if err != nil {
		return nil, b.fail(err)
	}
	return b.k.Translate(s, 0, 0, d.BasinZ), nil
}

// cavity is the storage hollow, a wall thickness inside the basin on every
// side and twice as tall so it opens through the top.
func (b *builder) cavity() (kernel.Solid, error) {
	d := b.d
	b.enter("bottom.cavity",
		zap.Float64("width", d.CavityW),
		zap.Float64("depth", d.CavityD),
		zap.Float64("floor", d.CavityFloor))

	s, err := b.k.Fillet(
		b.k.Box(d.CavityW, d.CavityD, d.CavityH),
		kernel.Or(kernel.Parallel(kernel.AxisZ), kernel.OnFace(kernel.FaceMinZ)),
		d.CavityFillet)
	if err != nil {
		return nil, b.fail(err)
	}
	return b.k.Translate(s, 0, 0, d.CavityFloor+d.CavityH/2), nil
}

// interlock is the stacking boss stock under the basin.
func (b *builder) interlock() (kernel.Solid, error) {
	d := b.d
	b.enter("bottom.interlock",
		zap.Float64("width", d.InterlockW),
		zap.Float64("depth", d.InterlockD))

	s, err := b.roundedBox(d.InterlockW, d.InterlockD, d.InterlockH, params.RingCornerRadius)
	if err != nil {
		return nil, err
	}
	return b.k.Translate(s, 0, 0, d.InterlockH/2), nil
}

// socket hollows the interlock into the groove that receives the lid boss
// of the box below. It is centered on Z = 0, so only its upper half cuts.
func (b *builder) socket() (kernel.Solid, error) {
	d := b.d
	b.enter("bottom.socket",
		zap.Float64("width", d.SocketW),
		zap.Float64("depth", d.SocketD))
	return b.roundedBox(d.SocketW, d.SocketD, d.InterlockH, d.SocketRadius)
}

// slot is the lid engagement channel at the top of the basin, widened
// through the walls along the shorter axis.
func (b *builder) slot() kernel.Solid {
	d := b.d
	b.enter("bottom.slot",
		zap.Stringer("axis", d.SlotAxis),
		zap.Float64("width", d.SlotW),
		zap.Float64("depth", d.SlotD))
	return b.k.Translate(b.k.Box(d.SlotW, d.SlotD, d.SlotH), 0, 0, d.SlotZ)
}
