package box

import (
	"go.uber.org/zap"

	"github.com/chazu/stackbox/pkg/kernel"
	"github.com/chazu/stackbox/pkg/params"
)

// sidePanel builds one wall block with a handle slot through its top and
// bottom edges and a window between them. The block stands on Z = 0.
func (b *builder) sidePanel(pn params.Panel) (kernel.Solid, error) {
	b.log.Debug("side panel",
		zap.Float64("width", pn.Width),
		zap.Float64("depth", pn.Depth),
		zap.Float64("height", pn.Height),
		zap.Float64("window_w", pn.WindowW),
		zap.Float64("window_h", pn.WindowH))

	k := b.k
	stock := k.Box(pn.Width, pn.Depth, pn.Height)

	upper, lower, err := b.handleSlots(pn)
	if err != nil {
		return nil, err
	}

	window, err := k.Fillet(k.Box(pn.WindowW, 2*pn.Depth, pn.WindowH), kernel.Parallel(kernel.AxisY), params.CutoutFillet)
	if err != nil {
		return nil, b.fail(err)
	}

	panel := k.Difference(stock, upper)
	panel = k.Difference(panel, lower)
	panel = k.Difference(panel, window)

	panel, err = k.Fillet(panel, kernel.And(kernel.Parallel(kernel.AxisY), kernel.OnFace(kernel.FaceMaxZ)), params.PanelEdgeFillet)
	if err != nil {
		return nil, b.fail(err)
	}
	panel, err = k.Fillet(panel, kernel.OnFace(kernel.FaceMinY|kernel.FaceMaxY), params.PanelFaceFillet)
	if err != nil {
		return nil, b.fail(err)
	}

	return k.Translate(panel, 0, 0, pn.Height/2), nil
}

// handleSlots returns the handle slot through the top edge of a centered
// panel and its reflection through the mid-height plane.
func (b *builder) handleSlots(pn params.Panel) (upper, lower kernel.Solid, err error) {
	slot, err := b.k.Extrude(kernel.PlaneXZ, pn.HandleProfile(), 2*pn.Depth)
	if err != nil {
		return nil, nil, b.fail(err)
	}
	slot, err = b.k.Fillet(slot, kernel.And(kernel.Parallel(kernel.AxisY), kernel.OnFace(kernel.FaceMinZ)), params.CutoutFillet)
	if err != nil {
		return nil, nil, b.fail(err)
	}
	// Extrusion runs from Y = 0; center it on the panel.
	upper = b.k.Translate(slot, 0, -pn.Depth, 0)
	lower = b.k.Mirror(upper, kernel.PlaneXY)
	return upper, lower, nil
}
