package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/chrisuehlinger/tinyrender/css"
	"github.com/chrisuehlinger/tinyrender/layout"
)

// DisplayCommand represents a single painting operation.
type DisplayCommand interface {
	Execute(c *Canvas)
}

// DisplayList is the ordered list of commands produced from a box tree.
// Later commands paint over earlier ones.
type DisplayList []DisplayCommand

// SolidColorCommand paints a solid color rectangle.
type SolidColorCommand struct {
	Color color.NRGBA
	Rect  layout.Rect
}

// Execute paints the solid color rectangle.
func (cmd *SolidColorCommand) Execute(c *Canvas) {
	c.FillRect(cmd.Rect, cmd.Color)
}

func (cmd *SolidColorCommand) String() string {
	r := cmd.Rect
	return fmt.Sprintf("solid #%02x%02x%02x%02x (%g, %g, %g, %g)",
		cmd.Color.R, cmd.Color.G, cmd.Color.B, cmd.Color.A, r.X, r.Y, r.Width, r.Height)
}

// String lists the commands one per line.
func (dl DisplayList) String() string {
	var sb strings.Builder
	for _, cmd := range dl {
		fmt.Fprintln(&sb, cmd)
	}
	return sb.String()
}

// BuildDisplayList walks the box tree in pre-order. Each box contributes its
// background, then its four border strips, then its children's commands.
func BuildDisplayList(root *layout.LayoutBox) DisplayList {
	var list DisplayList
	if root != nil {
		renderLayoutBox(&list, root)
	}
	return list
}

func renderLayoutBox(list *DisplayList, box *layout.LayoutBox) {
	renderBackground(list, box)
	renderBorders(list, box)
	for _, child := range box.Children {
		renderLayoutBox(list, child)
	}
}

func renderBackground(list *DisplayList, box *layout.LayoutBox) {
	col, ok := getColor(box, "background-color")
	if !ok {
		return
	}
	*list = append(*list, &SolidColorCommand{Color: col, Rect: box.Dimensions.BorderBox()})
}

func renderBorders(list *DisplayList, box *layout.LayoutBox) {
	col, ok := getColor(box, "border-color")
	if !ok {
		return
	}

	d := box.Dimensions
	bb := d.BorderBox()

	// Left border
	*list = append(*list, &SolidColorCommand{Color: col, Rect: layout.Rect{
		X: bb.X, Y: bb.Y, Width: d.Border.Left, Height: bb.Height,
	}})
	// Right border
	*list = append(*list, &SolidColorCommand{Color: col, Rect: layout.Rect{
		X: bb.X + bb.Width - d.Border.Right, Y: bb.Y, Width: d.Border.Right, Height: bb.Height,
	}})
	// Top border
	*list = append(*list, &SolidColorCommand{Color: col, Rect: layout.Rect{
		X: bb.X, Y: bb.Y, Width: bb.Width, Height: d.Border.Top,
	}})
	// Bottom border
	*list = append(*list, &SolidColorCommand{Color: col, Rect: layout.Rect{
		X: bb.X, Y: bb.Y + bb.Height - d.Border.Bottom, Width: bb.Width, Height: d.Border.Bottom,
	}})
}

// getColor returns the color value of a property. Anonymous boxes have no
// style and never paint.
func getColor(box *layout.LayoutBox, property string) (color.NRGBA, bool) {
	if !box.HasStyle() {
		return color.NRGBA{}, false
	}
	c, ok := box.StyleNode().Color(property)
	if !ok {
		return color.NRGBA{}, false
	}
	return toNRGBA(c), true
}

func toNRGBA(c css.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
