// Package ui shows rendered canvases in a Fyne window.
package ui

import (
	"context"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/tinyrender/render"
)

// RenderFunc produces the canvas to display. It is called on every reload.
type RenderFunc func(ctx context.Context) (*render.Canvas, error)

// Viewer is a window holding one rendered canvas and a reload button.
type Viewer struct {
	app    fyne.App
	window fyne.Window
	render RenderFunc
	logger *zap.Logger

	content   *fyne.Container
	status    *widget.Label
	reloadBtn *widget.Button

	mu     sync.Mutex
	image  *canvas.Image
	canvas *render.Canvas
}

// NewViewer creates the window on app. width and height size the window to
// the viewport.
func NewViewer(app fyne.App, title string, width, height int, fn RenderFunc, logger *zap.Logger) *Viewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := &Viewer{
		app:    app,
		window: app.NewWindow(title),
		render: fn,
		logger: logger.Named("ui"),
	}
	v.setupUI()
	v.setupKeyboardShortcuts()
	v.window.Resize(fyne.NewSize(float32(width), float32(height)))
	return v
}

func (v *Viewer) setupUI() {
	v.status = widget.NewLabel("")
	v.reloadBtn = widget.NewButtonWithIcon("Reload", theme.ViewRefreshIcon(), func() {
		v.Reload(context.Background())
	})
	v.content = container.NewStack()

	toolbar := container.NewBorder(nil, nil, v.reloadBtn, nil, v.status)
	v.window.SetContent(container.NewBorder(toolbar, nil, nil, nil, container.NewScroll(v.content)))
}

func (v *Viewer) setupKeyboardShortcuts() {
	v.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyR,
		Modifier: fyne.KeyModifierControl,
	}, func(_ fyne.Shortcut) {
		v.Reload(context.Background())
	})
	v.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyQ,
		Modifier: fyne.KeyModifierControl,
	}, func(_ fyne.Shortcut) {
		v.window.Close()
	})
}

// Reload runs the render function and shows its canvas, or the error.
func (v *Viewer) Reload(ctx context.Context) error {
	c, err := v.render(ctx)
	if err != nil {
		v.logger.Warn("Render failed.", zap.Error(err))
		v.showError(err)
		return err
	}
	v.displayCanvas(c)
	return nil
}

func (v *Viewer) displayCanvas(c *render.Canvas) {
	img := canvas.NewImageFromImage(c.ToImage())
	img.FillMode = canvas.ImageFillOriginal
	img.ScaleMode = canvas.ImageScalePixels

	v.mu.Lock()
	v.canvas = c
	v.image = img
	v.mu.Unlock()

	v.status.SetText(fmt.Sprintf("%d×%d", c.Width, c.Height))
	v.content.Objects = []fyne.CanvasObject{img}
	v.content.Refresh()
}

func (v *Viewer) showError(err error) {
	v.mu.Lock()
	v.canvas = nil
	v.image = nil
	v.mu.Unlock()

	label := widget.NewLabel(err.Error())
	label.Wrapping = fyne.TextWrapWord
	label.Alignment = fyne.TextAlignCenter

	v.status.SetText("Error")
	v.content.Objects = []fyne.CanvasObject{container.NewCenter(container.NewVBox(widget.NewLabel("Render failed"), label))}
	v.content.Refresh()
}

// Canvas returns the canvas on screen, or nil after a failed render.
func (v *Viewer) Canvas() *render.Canvas {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.canvas
}

// Window returns the underlying Fyne window.
func (v *Viewer) Window() fyne.Window {
	return v.window
}

// Run renders once and blocks until the window is closed. A failed first
// render is shown in the window rather than returned.
func (v *Viewer) Run(ctx context.Context) {
	v.Reload(ctx)
	v.window.ShowAndRun()
}
