// Package layout builds the box tree from a style tree and computes the
// geometry of every box with the CSS block formatting model.
package layout

import (
	"fmt"
	"strings"

	"github.com/chrisuehlinger/tinyrender/css"
)

// Dimensions represents the dimensions of a layout box.
type Dimensions struct {
	// Position of the content area relative to the document origin.
	Content Rect

	Padding EdgeSizes
	Border  EdgeSizes
	Margin  EdgeSizes
}

// Rect represents a rectangular area.
type Rect struct {
	X, Y, Width, Height float64
}

// EdgeSizes represents the sizes of edges (top, right, bottom, left).
type EdgeSizes struct {
	Top, Right, Bottom, Left float64
}

// BoxType represents the type of layout box.
type BoxType int

const (
	BlockBox BoxType = iota
	InlineBox
	AnonymousBox
)

func (t BoxType) String() string {
	switch t {
	case BlockBox:
		return "block"
	case InlineBox:
		return "inline"
	case AnonymousBox:
		return "anonymous"
	default:
		return "unknown"
	}
}

// LayoutBox is a node of the box tree. Its kind and children are fixed at
// construction; only Dimensions change, during Layout.
type LayoutBox struct {
	Dimensions Dimensions
	BoxType    BoxType
	Children   []*LayoutBox

	styledNode *css.StyledNode
}

// NewLayoutBox creates a block or inline box for a styled node.
func NewLayoutBox(boxType BoxType, sn *css.StyledNode) *LayoutBox {
	return &LayoutBox{BoxType: boxType, styledNode: sn}
}

// NewAnonymousBox creates a box with no style that wraps inline children.
func NewAnonymousBox() *LayoutBox {
	return &LayoutBox{BoxType: AnonymousBox}
}

// StyleNode returns the style node behind a block or inline box. Calling it
// on an anonymous box is a programming error and panics.
func (b *LayoutBox) StyleNode() *css.StyledNode {
	if b.BoxType == AnonymousBox {
		panic("layout: anonymous box has no style node")
	}
	return b.styledNode
}

// HasStyle reports whether the box is backed by a style node.
func (b *LayoutBox) HasStyle() bool {
	return b.BoxType != AnonymousBox && b.styledNode != nil
}

// PaddingBox returns the area covered by content and padding.
func (d *Dimensions) PaddingBox() Rect {
	return d.Content.ExpandedBy(d.Padding)
}

// BorderBox returns the area covered by content, padding, and border.
func (d *Dimensions) BorderBox() Rect {
	return d.PaddingBox().ExpandedBy(d.Border)
}

// MarginBox returns the area covered by content, padding, border, and margin.
func (d *Dimensions) MarginBox() Rect {
	return d.BorderBox().ExpandedBy(d.Margin)
}

// ExpandedBy returns a rectangle grown by the edge sizes on every side.
func (r Rect) ExpandedBy(edge EdgeSizes) Rect {
	return Rect{
		X:      r.X - edge.Left,
		Y:      r.Y - edge.Top,
		Width:  r.Width + edge.Left + edge.Right,
		Height: r.Height + edge.Top + edge.Bottom,
	}
}

// Dump renders the box tree with kinds, source tags and border boxes, one
// box per line.
func (b *LayoutBox) Dump() string {
	var sb strings.Builder
	b.dump(&sb, 0)
	return sb.String()
}

func (b *LayoutBox) dump(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(b.BoxType.String())
	if b.HasStyle() {
		if n := b.styledNode.Node; n.IsElement() {
			fmt.Fprintf(sb, " <%s>", n.TagName)
		} else if n != nil {
			fmt.Fprintf(sb, " %q", n.Text)
		}
	}
	r := b.Dimensions.BorderBox()
	fmt.Fprintf(sb, " (%g, %g, %g, %g)\n", r.X, r.Y, r.Width, r.Height)
	for _, c := range b.Children {
		c.dump(sb, depth+1)
	}
}
