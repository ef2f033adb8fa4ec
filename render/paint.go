package render

import (
	"fmt"
	"strings"

	"github.com/chrisuehlinger/tinyrender/layout"
)

// Rasterizer turns a display list into pixels.
type Rasterizer interface {
	Rasterize(list DisplayList, width, height int) *Canvas
}

// RasterizerFunc adapts a function to the Rasterizer interface.
type RasterizerFunc func(list DisplayList, width, height int) *Canvas

// Rasterize calls f.
func (f RasterizerFunc) Rasterize(list DisplayList, width, height int) *Canvas {
	return f(list, width, height)
}

// Backend names a rasterizer implementation.
type Backend string

const (
	// BackendRaster is the built-in overwrite rasterizer.
	BackendRaster Backend = "raster"
	// BackendGG draws through a github.com/fogleman/gg context.
	BackendGG Backend = "gg"
)

// ParseBackend validates a backend name.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(name)); b {
	case BackendRaster, BackendGG:
		return b, nil
	}
	return "", fmt.Errorf("unknown render backend %q", name)
}

// NewRasterizer returns the rasterizer for a backend.
func NewRasterizer(b Backend) (Rasterizer, error) {
	switch b {
	case BackendRaster:
		return RasterizerFunc(Rasterize), nil
	case BackendGG:
		return GGRasterizer{}, nil
	}
	return nil, fmt.Errorf("unknown render backend %q", b)
}

// Rasterize executes the display list in order on a fresh white canvas.
func Rasterize(list DisplayList, width, height int) *Canvas {
	canvas := NewCanvas(width, height)
	for _, cmd := range list {
		cmd.Execute(canvas)
	}
	return canvas
}

// Paint builds the display list for root and rasterizes it into a canvas the
// size of bounds.
func Paint(root *layout.LayoutBox, bounds layout.Rect) *Canvas {
	return PaintWith(RasterizerFunc(Rasterize), root, bounds)
}

// PaintWith is Paint with a chosen rasterizer.
func PaintWith(r Rasterizer, root *layout.LayoutBox, bounds layout.Rect) *Canvas {
	return r.Rasterize(BuildDisplayList(root), int(bounds.Width), int(bounds.Height))
}
