package box

import (
	"go.uber.org/zap"

	"github.com/chazu/stackbox/pkg/kernel"
	"github.com/chazu/stackbox/pkg/params"
)

// Top builds the lid standing on Z = 0, with its boss facing up so it
// plugs into the socket of a box stacked on it.
func Top(k kernel.Kernel, p params.Params, opts ...Option) (kernel.Solid, error) {
	b := newBuilder(k, p, opts...)
	return b.run(b.top)
}

// Collar builds the lid's interlock collar ring, centered where it would
// sit in the lid frame. The lid itself does not fuse it; it is exposed for
// checking the stacking fit against the bottom's interlock.
func Collar(k kernel.Kernel, p params.Params, opts ...Option) (kernel.Solid, error) {
	b := newBuilder(k, p, opts...)
	return b.run(b.collar)
}

func (b *builder) top() (kernel.Solid, error) {
	k := b.k

	shell, err := b.shell()
	if err != nil {
		return nil, err
	}
	recess, err := b.recess()
	if err != nil {
		return nil, err
	}
	boss, err := b.boss()
	if err != nil {
		return nil, err
	}
	divots, err := b.divots()
	if err != nil {
		return nil, err
	}
	trim := b.innerTrims()

	b.enter("top.assemble")
	part := k.Union(shell, boss)
	recess = k.Difference(recess, trim)
	part = k.Difference(part, recess)
	part = k.Difference(part, divots)
	return k.Translate(part, 0, 0, b.d.TopHeight/2), nil
}

// shell is the lid stock, rounded on its vertical and top edges.
func (b *builder) shell() (kernel.Solid, error) {
	d := b.d
	b.enter("top.shell", zap.Float64("height", d.TopHeight))
	s, err := b.k.Fillet(
		b.k.Box(d.ShellW, d.ShellD, d.TopHeight),
		kernel.Or(kernel.Parallel(kernel.AxisZ), kernel.OnFace(kernel.FaceMaxZ)),
		b.p.BaseFillet)
	if err != nil {
		return nil, b.fail(err)
	}
	return s, nil
}

// recess is the underside relief that seats on the basin, dropped by a
// wall thickness so it leaves the lid top solid.
func (b *builder) recess() (kernel.Solid, error) {
	d := b.d
	b.enter("top.recess",
		zap.Float64("width", d.RecessW),
		zap.Float64("depth", d.RecessD))
	s, err := b.k.Fillet(
		b.k.Box(d.RecessW, d.RecessD, d.TopHeight),
		kernel.Or(kernel.Parallel(kernel.AxisZ), kernel.OnFace(kernel.FaceMaxZ)),
		d.RecessFillet)
	if err != nil {
		return nil, b.fail(err)
	}
	return b.k.Translate(s, 0, 0, -params.Wall), nil
}

// boss is the plug on the lid top, clearance-smaller than the socket.
func (b *builder) boss() (kernel.Solid, error) {
	d := b.d
	b.enter("top.boss",
		zap.Float64("width", d.BossW),
		zap.Float64("depth", d.BossD),
		zap.Float64("clearance", b.p.Clearance))
	s, err := b.roundedBox(d.BossW, d.BossD, d.BossH, d.BossFillet)
	if err != nil {
		return nil, err
	}
	s, err = b.k.Fillet(s, kernel.OnFace(kernel.FaceMaxZ), params.BossTopFillet)
	if err != nil {
		return nil, b.fail(err)
	}
	return b.k.Translate(s, 0, 0, d.BossZ), nil
}

// divot is the alignment notch on the positive face across the longer
// axis, with its inner vertical edges beveled.
func (b *builder) divot() (kernel.Solid, error) {
	d := b.d
	a := d.DivotAxis
	b.enter("top.divots",
		zap.Stringer("axis", a),
		zap.Float64("span", d.DivotSpan),
		zap.Float64("inset", d.DivotInset))

	s := b.boxAcross(a, params.DivotThick, d.DivotSpan, b.p.Height)
	center := b.p.Envelope(a)/2 + params.DivotOffset - d.DivotInset
	s = b.shift(s, a, center)
	s, err := b.k.Fillet(s, kernel.And(kernel.Parallel(kernel.AxisZ), kernel.OnFace(kernel.MinFace(a))), params.DivotBevel)
	if err != nil {
		return nil, b.fail(err)
	}
	return s, nil
}

// divots is the notch pair on both faces across the longer axis.
func (b *builder) divots() (kernel.Solid, error) {
	s, err := b.divot()
	if err != nil {
		return nil, err
	}
	return b.k.Union(s, b.mirrorAcross(s, b.d.DivotAxis)), nil
}

// innerTrims removes recess material behind each divot so the notch does
// not leave a wall thinner than the recess inset.
func (b *builder) innerTrims() kernel.Solid {
	d := b.d
	a := d.DivotAxis
	b.enter("top.trims", zap.Float64("inset", d.TrimInset))

	across := kernel.AxisX
	if a == kernel.AxisX {
		across = kernel.AxisY
	}
	s := b.boxAcross(a, params.DivotThick, 2*b.p.Envelope(across), b.p.Height)
	center := b.p.Envelope(a)/2 + params.DivotOffset - d.TrimInset
	s = b.shift(s, a, center)
	return b.k.Union(s, b.mirrorAcross(s, a))
}

// collar is the interlock ring at the lid footprint, dropped below the
// shell midplane.
func (b *builder) collar() (kernel.Solid, error) {
	d := b.d
	b.enter("top.collar", zap.Float64("thick", d.Collar.Thick))
	r, err := b.ring(d.Collar)
	if err != nil {
		return nil, err
	}
	return b.k.Translate(r, 0, 0, d.CollarZ), nil
}
