package layout

import "github.com/chrisuehlinger/tinyrender/css"

var (
	auto = css.Keyword("auto")
	zero = css.Length(0, css.Px)

	// anonymousStyle is what anonymous boxes are sized with: every property
	// takes its default.
	anonymousStyle = &css.StyledNode{Values: css.PropertyMap{}}
)

// Layout computes the geometry of every box under root in place. Only the
// content x, y and width of containingBlock are used; its height is the
// stacking cursor and starts at zero.
//
// The root is always sized with the block algorithm, whatever its box type.
// Nested inline boxes are not laid out: they get zero size at their parent's
// stacking cursor and their subtrees are left alone.
func Layout(root *LayoutBox, containingBlock Dimensions) {
	containingBlock.Content.Height = 0
	root.layoutBlock(containingBlock)
}

func (b *LayoutBox) style() *css.StyledNode {
	if b.HasStyle() {
		return b.styledNode
	}
	return anonymousStyle
}

func (b *LayoutBox) layout(containingBlock Dimensions) {
	switch b.BoxType {
	case BlockBox, AnonymousBox:
		b.layoutBlock(containingBlock)
	case InlineBox:
		b.Dimensions = Dimensions{Content: Rect{
			X: containingBlock.Content.X,
			Y: containingBlock.Content.Y + containingBlock.Content.Height,
		}}
	}
}

func (b *LayoutBox) layoutBlock(containingBlock Dimensions) {
	// Width depends on the parent, so it is resolved on the way down.
	b.calculateBlockWidth(containingBlock)
	b.calculateBlockPosition(containingBlock)

	b.layoutBlockChildren()

	// Height depends on the children, so it is resolved on the way up.
	b.calculateBlockHeight()
}

// calculateBlockWidth resolves width, horizontal padding, border and margin
// following CSS 2.1 section 10.3.3.
func (b *LayoutBox) calculateBlockWidth(containingBlock Dimensions) {
	style := b.style()

	width := style.Lookup("width", "width", auto)
	marginLeft := style.Lookup("margin-left", "margin", zero)
	marginRight := style.Lookup("margin-right", "margin", zero)
	borderLeft := style.Lookup("border-left-width", "border-width", zero)
	borderRight := style.Lookup("border-right-width", "border-width", zero)
	paddingLeft := style.Lookup("padding-left", "padding", zero)
	paddingRight := style.Lookup("padding-right", "padding", zero)

	total := sumPx(marginLeft, marginRight, borderLeft, borderRight, paddingLeft, paddingRight, width)

	// Too wide: auto margins collapse to zero before anything else.
	if !width.IsKeyword("auto") && total > containingBlock.Content.Width {
		if marginLeft.IsKeyword("auto") {
			marginLeft = zero
		}
		if marginRight.IsKeyword("auto") {
			marginRight = zero
		}
	}

	underflow := containingBlock.Content.Width - total

	widthAuto := width.IsKeyword("auto")
	marginLeftAuto := marginLeft.IsKeyword("auto")
	marginRightAuto := marginRight.IsKeyword("auto")

	switch {
	case !widthAuto && !marginLeftAuto && !marginRightAuto:
		// Over-constrained: the right margin gives way.
		marginRight = css.Length(marginRight.ToPx()+underflow, css.Px)

	case !widthAuto && !marginLeftAuto && marginRightAuto:
		marginRight = css.Length(underflow, css.Px)

	case !widthAuto && marginLeftAuto && !marginRightAuto:
		marginLeft = css.Length(underflow, css.Px)

	case widthAuto:
		if marginLeftAuto {
			marginLeft = zero
		}
		if marginRightAuto {
			marginRight = zero
		}
		if underflow >= 0 {
			width = css.Length(underflow, css.Px)
		} else {
			// Width can't be negative; the right margin absorbs the overflow.
			width = zero
			marginRight = css.Length(marginRight.ToPx()+underflow, css.Px)
		}

	default:
		// Both margins auto: center the box.
		marginLeft = css.Length(underflow/2, css.Px)
		marginRight = css.Length(underflow/2, css.Px)
	}

	d := &b.Dimensions
	d.Content.Width = width.ToPx()

	d.Padding.Left = paddingLeft.ToPx()
	d.Padding.Right = paddingRight.ToPx()

	d.Border.Left = borderLeft.ToPx()
	d.Border.Right = borderRight.ToPx()

	d.Margin.Left = marginLeft.ToPx()
	d.Margin.Right = marginRight.ToPx()
}

// calculateBlockPosition resolves the vertical edges and places the content
// box just below the content already stacked in the containing block.
func (b *LayoutBox) calculateBlockPosition(containingBlock Dimensions) {
	style := b.style()
	d := &b.Dimensions

	// Vertical margins, borders and padding have no auto handling.
	d.Margin.Top = style.Lookup("margin-top", "margin", zero).ToPx()
	d.Margin.Bottom = style.Lookup("margin-bottom", "margin", zero).ToPx()

	d.Border.Top = style.Lookup("border-top-width", "border-width", zero).ToPx()
	d.Border.Bottom = style.Lookup("border-bottom-width", "border-width", zero).ToPx()

	d.Padding.Top = style.Lookup("padding-top", "padding", zero).ToPx()
	d.Padding.Bottom = style.Lookup("padding-bottom", "padding", zero).ToPx()

	d.Content.X = containingBlock.Content.X + d.Margin.Left + d.Border.Left + d.Padding.Left
	d.Content.Y = containingBlock.Content.Y + containingBlock.Content.Height +
		d.Margin.Top + d.Border.Top + d.Padding.Top
}

// layoutBlockChildren lays out the children top to bottom. The box's own
// content height serves as the cursor while they are placed.
func (b *LayoutBox) layoutBlockChildren() {
	d := &b.Dimensions
	d.Content.Height = 0
	for _, child := range b.Children {
		child.layout(*d)
		d.Content.Height += child.Dimensions.MarginBox().Height
	}
}

// calculateBlockHeight applies an explicit pixel height, if any. Otherwise
// the height accumulated from the children stands.
func (b *LayoutBox) calculateBlockHeight() {
	if h, ok := b.style().Value("height"); ok && h.Type == css.LengthValue {
		b.Dimensions.Content.Height = h.ToPx()
	}
}

func sumPx(values ...css.Value) float64 {
	var total float64
	for _, v := range values {
		total += v.ToPx()
	}
	return total
}
