package params

import (
	"math"

	"github.com/chazu/stackbox/pkg/kernel"
)

// Ring is an annulus: an outer box rounded by RingCornerRadius minus an
// inner box inset by Thick on every side.
type Ring struct {
	Width  float64 `yaml:"width"`
	Depth  float64 `yaml:"depth"`
	Height float64 `yaml:"height"`
	Thick  float64 `yaml:"thick"`
}

// InnerRadius is the inner corner radius, concentric with the outer one.
func (r Ring) InnerRadius() float64 {
	return RingCornerRadius - r.Thick
}

// Panel holds the dimensions of one side panel before it is placed.
// Width runs along X, Depth along Y and Height along Z.
type Panel struct {
	Width   float64 `yaml:"width"`
	Depth   float64 `yaml:"depth"`
	Height  float64 `yaml:"height"`
	WindowW float64 `yaml:"window_w"`
	WindowH float64 `yaml:"window_h"`

	handleW, handleH float64
}

// HandleProfile returns the handle slot outline on the XZ plane, with the
// panel centered on the origin. The slot opens through the top edge.
func (p Panel) HandleProfile() [][2]float64 {
	top := p.Height/2 + HandleOvershoot
	bottom := p.Height/2 - p.handleH
	half := p.handleW / 2
	return [][2]float64{
		{-half, top},
		{half, top},
		{half * HandleTaper, bottom},
		{-half * HandleTaper, bottom},
	}
}

// Derived holds every dimension computed from Params. Z positions are
// given in the part's own frame before its final lift unless noted.
type Derived struct {
	TopHeight  float64 `yaml:"top_height"`
	FootprintW float64 `yaml:"footprint_w"` // width less both base fillets
	FootprintD float64 `yaml:"footprint_d"`
	BasinH     float64 `yaml:"basin_h"`
	BasinZ     float64 `yaml:"basin_z"` // basin centre

	// Side assembly.
	PanelA         Panel   `yaml:"panel_a"` // faces the width
	PanelB         Panel   `yaml:"panel_b"` // faces the depth, rotated 90°
	RingOffset     float64 `yaml:"ring_offset"`
	Reinforce      Ring    `yaml:"reinforcing_ring"`
	ReinforceLowZ  float64 `yaml:"reinforcing_low_z"` // ring floor
	ReinforceHighZ float64 `yaml:"reinforcing_high_z"`

	// Bottom.
	CavityW      float64     `yaml:"cavity_w"`
	CavityD      float64     `yaml:"cavity_d"`
	CavityH      float64     `yaml:"cavity_h"`
	CavityFillet float64     `yaml:"cavity_fillet"`
	CavityFloor  float64     `yaml:"cavity_floor"` // absolute Z of the cavity floor
	InterlockW   float64     `yaml:"interlock_w"`
	InterlockD   float64     `yaml:"interlock_d"`
	InterlockH   float64     `yaml:"interlock_h"`
	SocketW      float64     `yaml:"socket_w"`
	SocketD      float64     `yaml:"socket_d"`
	SocketRadius float64     `yaml:"socket_radius"`
	SlotW        float64     `yaml:"slot_w"`
	SlotD        float64     `yaml:"slot_d"`
	SlotH        float64     `yaml:"slot_h"`
	SlotZ        float64     `yaml:"slot_z"`    // slot centre
	SlotAxis     kernel.Axis `yaml:"slot_axis"` // axis the slot is widened along

	// Lid.
	ShellW       float64     `yaml:"shell_w"`
	ShellD       float64     `yaml:"shell_d"`
	RecessW      float64     `yaml:"recess_w"`
	RecessD      float64     `yaml:"recess_d"`
	RecessFillet float64     `yaml:"recess_fillet"`
	Collar       Ring        `yaml:"collar"`
	CollarZ      float64     `yaml:"collar_z"`    // collar centre
	BossW        float64     `yaml:"boss_w"`
	BossD        float64     `yaml:"boss_d"`
	BossH        float64     `yaml:"boss_h"`
	BossFillet   float64     `yaml:"boss_fillet"`
	BossZ        float64     `yaml:"boss_z"`      // boss centre
	DivotAxis    kernel.Axis `yaml:"divot_axis"`  // divots sit on the faces across this axis
	DivotSpan    float64     `yaml:"divot_span"`  // notch length along the face
	DivotInset   float64     `yaml:"divot_inset"` // notch depth into the face
	TrimInset    float64     `yaml:"trim_inset"`  // recess trim depth from the face
}

// Panel returns the dimensions of a panel built from a footprint of
// startWidth by startDepth.
func (p Params) Panel(startWidth, startDepth float64) Panel {
	w := startWidth - 2*p.BaseFillet
	h := p.Height - p.TopHeight() + p.Lip
	return Panel{
		Width:   w,
		Depth:   startDepth + 2*p.SidePanelThick,
		Height:  h,
		WindowW: w - WindowMarginW,
		WindowH: h - 2*p.HandleH - WindowMarginH,
		handleW: p.HandleW,
		handleH: p.HandleH,
	}
}

// Derive computes every dependent dimension. It performs no validation;
// see Check.
func (p Params) Derive() Derived {
	f := p.BaseFillet
	c := p.Clearance
	th := p.TopHeight()

	d := Derived{
		TopHeight:  th,
		FootprintW: p.Width - 2*f,
		FootprintD: p.Depth - 2*f,
		BasinH:     p.Height - th - p.Lip,
		PanelA:     p.Panel(p.Width, p.Depth),
		PanelB:     p.Panel(p.Depth, p.Width),
	}
	d.BasinZ = d.BasinH/2 + p.Lip

	d.RingOffset = d.PanelA.WindowH / 2
	d.Reinforce = Ring{
		Width:  p.Width + 2*p.SidePanelThick + ReinforceGrow,
		Depth:  p.Depth + 2*p.SidePanelThick + ReinforceGrow,
		Height: ReinforceHeight,
		Thick:  p.SidePanelThick,
	}
	d.ReinforceLowZ = d.PanelA.Height/2 - d.RingOffset - ReinforceHeight
	d.ReinforceHighZ = d.PanelA.Height/2 + d.RingOffset

	d.CavityW = p.Width - 2*Wall
	d.CavityD = p.Depth - 2*Wall
	d.CavityH = 2 * d.BasinH
	d.CavityFillet = f - Wall
	d.CavityFloor = p.Lip + Wall

	d.InterlockW = d.FootprintW + f
	d.InterlockD = d.FootprintD + f
	d.InterlockH = 2 * p.Lip
	d.SocketW = d.InterlockW - Wall // ring wall is Wall/2 per side
	d.SocketD = d.InterlockD - Wall
	d.SocketRadius = RingCornerRadius - Wall/2

	d.SlotAxis = p.ShorterAxis()
	d.SlotW = p.Width - 2*Wall
	d.SlotD = p.Depth - 2*Wall
	if d.SlotAxis == kernel.AxisX {
		d.SlotW += 4 * Wall
	} else {
		d.SlotD += 4 * Wall
	}
	d.SlotH = th
	d.SlotZ = d.BasinH + th/2 + p.Lip

	d.ShellW = d.FootprintW + 2*f
	d.ShellD = d.FootprintD + 2*f
	d.RecessW = d.ShellW - RecessInset
	d.RecessD = d.ShellD - RecessInset
	d.RecessFillet = f - Wall
	d.Collar = Ring{Width: d.InterlockW, Depth: d.InterlockD, Height: th, Thick: InterlockThick}
	d.CollarZ = -RecessInset

	d.BossW = d.InterlockW - Wall - 4*c
	d.BossD = d.InterlockD - Wall - 4*c
	d.BossH = 2*p.Lip + BossOvershoot
	d.BossFillet = f / 2
	d.BossZ = th/2 - BossOvershoot

	d.DivotAxis = p.LongerAxis()
	if d.DivotAxis == kernel.AxisX {
		d.DivotSpan = d.FootprintD + 2*c
	} else {
		d.DivotSpan = d.FootprintW + 2*c
	}
	d.DivotInset = Wall + c
	d.TrimInset = RecessInset + c
	return d
}

// Envelope returns the box envelope along a horizontal axis.
func (p Params) Envelope(a kernel.Axis) float64 {
	if a == kernel.AxisY {
		return p.Depth
	}
	return p.Width
}

// filletLimit is the largest radius that rounds stock of the given
// extents: half the smallest one.
func filletLimit(extents ...float64) float64 {
	limit := math.Inf(1)
	for _, e := range extents {
		limit = math.Min(limit, e/2)
	}
	return limit
}
