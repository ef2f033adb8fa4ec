package render

import (
	"github.com/fogleman/gg"
)

// GGRasterizer draws the display list with a gg context. Rectangles are
// clipped and snapped to whole pixels exactly as the built-in rasterizer does,
// so opaque output is identical. Translucent colors are composited
// source-over instead of overwriting.
type GGRasterizer struct{}

// Rasterize implements Rasterizer.
func (GGRasterizer) Rasterize(list DisplayList, width, height int) *Canvas {
	width, height = max(width, 0), max(height, 0)
	if width == 0 || height == 0 {
		return NewCanvas(width, height)
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, cmd := range list {
		solid, ok := cmd.(*SolidColorCommand)
		if !ok {
			continue
		}
		x0, y0, x1, y1 := clipRect(solid.Rect, width, height)
		if x1 <= x0 || y1 <= y0 {
			continue
		}
		dc.SetColor(solid.Color)
		dc.DrawRectangle(float64(x0), float64(y0), float64(x1-x0), float64(y1-y0))
		dc.Fill()
	}
	return CanvasFromImage(dc.Image())
}
