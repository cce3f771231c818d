package params

import (
	"errors"
	"fmt"
	"math"
)

// ValidationSeverity indicates whether a validation finding blocks the build
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks the build
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Field    string             // parameter or derived dimension at fault
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Field, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Field   string `yaml:"field"`
	Message string `yaml:"message"`
}

func (w ValidationWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Field, w.Message)
}

// ValidationResult bundles errors (blocking) and warnings (advisory).
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// Err joins every blocking finding, or returns nil.
func (r ValidationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Validate returns an error naming every derived quantity that violates
// its bound, or nil if the box can be built.
func (p Params) Validate() error {
	return p.Check().Err()
}

// Check runs every validation tier: input ranges, derived dimensions,
// fillet radii, and advisory checks.
func (p Params) Check() ValidationResult {
	var result ValidationResult
	result.Errors = append(result.Errors, p.checkInputs()...)
	if len(result.Errors) > 0 {
		// Derived checks would only repeat the same problem.
		return result
	}
	d := p.Derive()
	result.Errors = append(result.Errors, checkDimensions(d)...)
	if len(result.Errors) == 0 {
		result.Errors = append(result.Errors, checkFillets(p, d)...)
	}
	result.Warnings = append(result.Warnings, p.advise(d)...)
	return result
}

func positive(field string, v float64) []ValidationError {
	if v > 0 && !math.IsInf(v, 0) {
		return nil
	}
	return []ValidationError{{
		Field:    field,
		Message:  fmt.Sprintf("is %.4f, must be positive", v),
		Severity: SeverityError,
	}}
}

// checkInputs is tier 1: every parameter is a finite number in range.
func (p Params) checkInputs() []ValidationError {
	var errs []ValidationError
	errs = append(errs, positive("width", p.Width)...)
	errs = append(errs, positive("depth", p.Depth)...)
	errs = append(errs, positive("height", p.Height)...)
	errs = append(errs, positive("base_fillet", p.BaseFillet)...)
	errs = append(errs, positive("lip", p.Lip)...)
	errs = append(errs, positive("handle_w", p.HandleW)...)
	errs = append(errs, positive("handle_h", p.HandleH)...)
	errs = append(errs, positive("side_panel_thick", p.SidePanelThick)...)
	if p.Clearance < 0 || math.IsNaN(p.Clearance) || math.IsInf(p.Clearance, 0) {
		errs = append(errs, ValidationError{
			Field:    "clearance",
			Message:  fmt.Sprintf("is %.4f, must not be negative", p.Clearance),
			Severity: SeverityError,
		})
	}
	if p.SidePanelThick > RingCornerRadius {
		errs = append(errs, ValidationError{
			Field:    "side_panel_thick",
			Message:  fmt.Sprintf("is %.4f, reinforcing ring inner radius %.4f would be negative", p.SidePanelThick, RingCornerRadius-p.SidePanelThick),
			Severity: SeverityError,
		})
	}
	return errs
}

// checkDimensions is tier 2: every derived dimension stays positive.
func checkDimensions(d Derived) []ValidationError {
	var errs []ValidationError
	errs = append(errs, positive("footprint_w", d.FootprintW)...)
	errs = append(errs, positive("footprint_d", d.FootprintD)...)
	errs = append(errs, positive("basin_h", d.BasinH)...)
	errs = append(errs, positive("panel_a.window_w", d.PanelA.WindowW)...)
	errs = append(errs, positive("panel_b.window_w", d.PanelB.WindowW)...)
	errs = append(errs, positive("panel_a.window_h", d.PanelA.WindowH)...)
	errs = append(errs, positive("cavity_w", d.CavityW)...)
	errs = append(errs, positive("cavity_d", d.CavityD)...)
	errs = append(errs, positive("socket_w", d.SocketW)...)
	errs = append(errs, positive("socket_d", d.SocketD)...)
	errs = append(errs, positive("recess_w", d.RecessW)...)
	errs = append(errs, positive("recess_d", d.RecessD)...)
	errs = append(errs, positive("boss_w", d.BossW)...)
	errs = append(errs, positive("boss_d", d.BossD)...)
	errs = append(errs, positive("divot_span", d.DivotSpan)...)
	for _, pn := range []struct {
		field string
		panel Panel
	}{{"panel_a", d.PanelA}, {"panel_b", d.PanelB}} {
		if pn.panel.handleW >= pn.panel.Width {
			errs = append(errs, ValidationError{
				Field:    pn.field + ".width",
				Message:  fmt.Sprintf("%.4f leaves no material beside a %.4f handle slot", pn.panel.Width, pn.panel.handleW),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// checkFillets is tier 3: no radius exceeds half the stock it rounds.
// The limits mirror the ones the kernels enforce, so a box that passes
// never fails in a fillet.
func checkFillets(p Params, d Derived) []ValidationError {
	type rule struct {
		field   string
		radius  float64
		extents []float64
	}
	f := p.BaseFillet
	rules := []rule{
		{"base_fillet", f, []float64{p.Width, p.Depth, 2 * d.BasinH}},
		{"base_fillet", f, []float64{d.ShellW, d.ShellD, 2 * d.TopHeight}},
		{"cavity_fillet", d.CavityFillet, []float64{d.CavityW, d.CavityD, 2 * d.CavityH}},
		{"recess_fillet", d.RecessFillet, []float64{d.RecessW, d.RecessD, 2 * d.TopHeight}},
		{"interlock_w", RingCornerRadius, []float64{d.InterlockW, d.InterlockD}},
		{"socket_radius", d.SocketRadius, []float64{d.SocketW, d.SocketD}},
		{"collar", d.Collar.InnerRadius(), []float64{d.Collar.Width - 2*d.Collar.Thick, d.Collar.Depth - 2*d.Collar.Thick}},
		{"boss_fillet", d.BossFillet, []float64{d.BossW, d.BossD}},
		{"boss_top_fillet", BossTopFillet, []float64{d.BossW, d.BossD, 2 * d.BossH}},
		{"reinforcing_ring", ReinforceFillet, []float64{d.Reinforce.Height}},
		{"divot_bevel", DivotBevel, []float64{d.DivotSpan, DivotThick}},
	}
	for _, pn := range []struct {
		field string
		panel Panel
	}{{"panel_a", d.PanelA}, {"panel_b", d.PanelB}} {
		prof := pn.panel.HandleProfile()
		rules = append(rules,
			rule{pn.field + ".window", CutoutFillet, []float64{pn.panel.WindowW, pn.panel.WindowH}},
			rule{pn.field + ".handle", CutoutFillet, []float64{dist(prof[1], prof[2]), dist(prof[2], prof[3])}},
			rule{pn.field + ".edges", PanelEdgeFillet, []float64{pn.panel.Width, pn.panel.Height}},
			rule{pn.field + ".faces", PanelFaceFillet, []float64{pn.panel.Depth}},
		)
	}

	var errs []ValidationError
	for _, r := range rules {
		if r.radius < 0 {
			errs = append(errs, ValidationError{
				Field:    r.field,
				Message:  fmt.Sprintf("fillet radius %.4f is negative", r.radius),
				Severity: SeverityError,
			})
			continue
		}
		if limit := filletLimit(r.extents...); r.radius > limit+1e-9 {
			errs = append(errs, ValidationError{
				Field:    r.field,
				Message:  fmt.Sprintf("fillet radius %.4f exceeds half its stock (%.4f)", r.radius, limit),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func dist(a, b [2]float64) float64 {
	return math.Hypot(b[0]-a[0], b[1]-a[1])
}

// advise collects non-blocking findings.
func (p Params) advise(d Derived) []ValidationWarning {
	var warnings []ValidationWarning
	if p.Clearance == 0 {
		warnings = append(warnings, ValidationWarning{
			Field:   "clearance",
			Message: "is zero, the lid boss will bind in the socket",
		})
	}
	for _, pn := range []struct {
		field string
		panel Panel
	}{{"panel_a", d.PanelA}, {"panel_b", d.PanelB}} {
		if pn.panel.WindowW < p.HandleW {
			warnings = append(warnings, ValidationWarning{
				Field:   pn.field + ".window_w",
				Message: fmt.Sprintf("%.4f is narrower than the %.4f handle slot", pn.panel.WindowW, p.HandleW),
			})
		}
	}
	return warnings
}
