// Package params holds the box parameters, the constants that tie wall
// thickness to fillet radius, and every dimension derived from them.
// Builders never compute a dimension themselves: they read it from
// Derive so that the dimension report and the geometry cannot disagree.
package params

import (
	"fmt"
	"math"

	"github.com/chazu/stackbox/pkg/kernel"
)

// Fixed construction constants, in millimeters.
const (
	RingCornerRadius = 4.0 // outer corner radius of every ring
	Wall             = 1.6 // basin wall and floor thickness
	RecessInset      = 2 * Wall
	InterlockThick   = 1.2 // stacking ring wall
	LidExtra         = 1.0 // lid stock height above the base fillet

	ReinforceHeight = 1.6 // reinforcing ring height
	ReinforceFillet = 0.4 // reinforcing ring top/bottom rounding
	ReinforceGrow   = 1.6 // reinforcing ring oversize beyond the panels

	HandleTaper     = 0.8 // bottom edge of the handle slot relative to its top
	HandleOvershoot = 0.1 // handle slot pierces past the panel edge
	CutoutFillet    = 1.0 // handle slot and window corner rounding
	WindowMarginW   = 6.4
	WindowMarginH   = 3.2
	PanelEdgeFillet = 0.8 // outward vertical edges
	PanelFaceFillet = 0.6 // edges on both panel faces

	BossOvershoot = 0.1 // boss overlaps the shell so the union fuses
	BossTopFillet = 1.0

	DivotThick  = 10.0 // divot stock thickness across the face
	DivotOffset = 5.0
	DivotBevel  = 0.4
)

// Params is the immutable parameter set for one box. All lengths are in
// millimeters.
type Params struct {
	Width          float64 `mapstructure:"width" yaml:"width"`
	Depth          float64 `mapstructure:"depth" yaml:"depth"`
	Height         float64 `mapstructure:"height" yaml:"height"`
	BaseFillet     float64 `mapstructure:"base_fillet" yaml:"base_fillet"`
	Lip            float64 `mapstructure:"lip" yaml:"lip"`
	HandleW        float64 `mapstructure:"handle_w" yaml:"handle_w"`
	HandleH        float64 `mapstructure:"handle_h" yaml:"handle_h"`
	SidePanelThick float64 `mapstructure:"side_panel_thick" yaml:"side_panel_thick"`
	Clearance      float64 `mapstructure:"clearance" yaml:"clearance"`
}

// Default returns the parameters of the reference 40x25x30 box.
func Default() Params {
	return Params{
		Width:          40,
		Depth:          25,
		Height:         30,
		BaseFillet:     5,
		Lip:            2.6,
		HandleW:        10,
		HandleH:        5,
		SidePanelThick: 1.2,
		Clearance:      0.4,
	}
}

// TopHeight is the lid stock height.
func (p Params) TopHeight() float64 {
	return p.BaseFillet + LidExtra
}

// LongerAxis returns the horizontal axis along the longer of width and
// depth. Ties go to X.
func (p Params) LongerAxis() kernel.Axis {
	if p.Width < p.Depth {
		return kernel.AxisY
	}
	return kernel.AxisX
}

// ShorterAxis returns the horizontal axis that is not LongerAxis.
func (p Params) ShorterAxis() kernel.Axis {
	if p.LongerAxis() == kernel.AxisX {
		return kernel.AxisY
	}
	return kernel.AxisX
}

// BaseName returns the file name suffix shared by both parts, built from
// the floored envelope dimensions, e.g. "40x25x30".
func (p Params) BaseName() string {
	return fmt.Sprintf("%dx%dx%d", int64(math.Floor(p.Width)), int64(math.Floor(p.Depth)), int64(math.Floor(p.Height)))
}

// Names lists the parameter names in declaration order. Config files,
// scripts and command-line flags all use them.
var Names = []string{
	"width",
	"depth",
	"height",
	"base_fillet",
	"lip",
	"handle_w",
	"handle_h",
	"side_panel_thick",
	"clearance",
}

func (p *Params) field(name string) *float64 {
	switch name {
	case "width":
		return &p.Width
	case "depth":
		return &p.Depth
	case "height":
		return &p.Height
	case "base_fillet":
		return &p.BaseFillet
	case "lip":
		return &p.Lip
	case "handle_w":
		return &p.HandleW
	case "handle_h":
		return &p.HandleH
	case "side_panel_thick":
		return &p.SidePanelThick
	case "clearance":
		return &p.Clearance
	}
	return nil
}

// Set assigns the named parameter.
func (p *Params) Set(name string, v float64) error {
	f := p.field(name)
	if f == nil {
		return fmt.Errorf("unknown parameter %q", name)
	}
	*f = v
	return nil
}

// Get returns the named parameter.
func (p Params) Get(name string) (float64, bool) {
	f := p.field(name)
	if f == nil {
		return 0, false
	}
	return *f, true
}
