package layout

import (
	"errors"
	"fmt"

	"github.com/chrisuehlinger/tinyrender/css"
)

// ErrorKind classifies layout failures.
type ErrorKind int

const (
	// EmptyDocument means the root element is display: none.
	EmptyDocument ErrorKind = iota + 1
)

// LayoutError is returned when the box tree cannot be built.
type LayoutError struct {
	Kind ErrorKind
	Tag  string
}

// ErrEmptyDocument matches any LayoutError of kind EmptyDocument via errors.Is.
var ErrEmptyDocument = &LayoutError{Kind: EmptyDocument}

func (e *LayoutError) Error() string {
	switch e.Kind {
	case EmptyDocument:
		if e.Tag != "" {
			return fmt.Sprintf("layout: empty document: root <%s> has display: none", e.Tag)
		}
		return "layout: empty document"
	default:
		return "layout: unknown error"
	}
}

// Is compares by kind so errors.Is(err, ErrEmptyDocument) holds for any
// EmptyDocument error.
func (e *LayoutError) Is(target error) bool {
	var t *LayoutError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// BuildLayoutTree builds the box tree for a style tree. Children with
// display: none are dropped with their subtrees. Runs of inline children of a
// block box are wrapped in anonymous boxes.
func BuildLayoutTree(root *css.StyledNode) (*LayoutBox, error) {
	if root.Display() == css.DisplayNone {
		err := &LayoutError{Kind: EmptyDocument}
		if root.Node.IsElement() {
			err.Tag = root.Node.TagName
		}
		return nil, err
	}
	return buildBox(root), nil
}

func buildBox(sn *css.StyledNode) *LayoutBox {
	boxType := InlineBox
	if sn.Display() == css.DisplayBlock {
		boxType = BlockBox
	}
	box := NewLayoutBox(boxType, sn)

	for _, child := range sn.Children {
		switch child.Display() {
		case css.DisplayBlock:
			box.Children = append(box.Children, buildBox(child))
		case css.DisplayInline:
			container := box.inlineContainer()
			container.Children = append(container.Children, buildBox(child))
		case css.DisplayNone:
		}
	}
	return box
}

// inlineContainer returns the box that receives a new inline child. Inline
// and anonymous boxes hold inline children themselves. A block box reuses a
// trailing anonymous child or appends a fresh one.
func (b *LayoutBox) inlineContainer() *LayoutBox {
	switch b.BoxType {
	case InlineBox, AnonymousBox:
		return b
	default:
		if n := len(b.Children); n > 0 && b.Children[n-1].BoxType == AnonymousBox {
			return b.Children[n-1]
		}
		anon := NewAnonymousBox()
		b.Children = append(b.Children, anon)
		return anon
	}
}
