// Package render turns a laid-out box tree into a display list and rasterizes
// it into a pixel canvas.
package render

import (
	"image"
	"image/color"

	"github.com/chrisuehlinger/tinyrender/layout"
)

// Canvas represents the rendering surface: a row-major grid of RGBA pixels
// with straight (non-premultiplied) alpha.
type Canvas struct {
	Pixels []color.NRGBA
	Width  int
	Height int
}

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// NewCanvas creates an opaque white canvas. Negative sizes are treated as 0.
func NewCanvas(width, height int) *Canvas {
	width, height = max(width, 0), max(height, 0)
	pixels := make([]color.NRGBA, width*height)
	for i := range pixels {
		pixels[i] = white
	}
	return &Canvas{
		Pixels: pixels,
		Width:  width,
		Height: height,
	}
}

// SetPixel sets a single pixel. Out of bounds writes are ignored.
func (c *Canvas) SetPixel(x, y int, col color.NRGBA) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.Pixels[y*c.Width+x] = col
}

// GetPixel returns the pixel at (x, y), or transparent black when out of
// bounds.
func (c *Canvas) GetPixel(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return color.NRGBA{}
	}
	return c.Pixels[y*c.Width+x]
}

// clipRect clamps a rectangle to a width x height surface and returns the
// covered pixel range as half-open intervals [x0, x1) and [y0, y1).
func clipRect(rect layout.Rect, width, height int) (x0, y0, x1, y1 int) {
	x0 = int(clamp(rect.X, 0, float64(width)))
	y0 = int(clamp(rect.Y, 0, float64(height)))
	x1 = int(clamp(rect.X+rect.Width, 0, float64(width)))
	y1 = int(clamp(rect.Y+rect.Height, 0, float64(height)))
	return x0, y0, x1, y1
}

// FillRect overwrites every pixel covered by rect with col. The rectangle is
// clipped to the canvas; no blending takes place.
func (c *Canvas) FillRect(rect layout.Rect, col color.NRGBA) {
	x0, y0, x1, y1 := clipRect(rect, c.Width, c.Height)
	for y := y0; y < y1; y++ {
		row := c.Pixels[y*c.Width : (y+1)*c.Width]
		for x := x0; x < x1; x++ {
			row[x] = col
		}
	}
}

// ToImage converts the canvas to a Go image. Pixels are stored with straight
// alpha, so the result is an NRGBA image.
func (c *Canvas) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))
	for i, p := range c.Pixels {
		img.Pix[i*4+0] = p.R
		img.Pix[i*4+1] = p.G
		img.Pix[i*4+2] = p.B
		img.Pix[i*4+3] = p.A
	}
	return img
}

// CanvasFromImage copies an image into a new canvas.
func CanvasFromImage(img image.Image) *Canvas {
	b := img.Bounds()
	c := &Canvas{
		Pixels: make([]color.NRGBA, b.Dx()*b.Dy()),
		Width:  b.Dx(),
		Height: b.Dy(),
	}
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			c.Pixels[y*c.Width+x] = color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
		}
	}
	return c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
