package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/chrisuehlinger/tinyrender/css"
	"github.com/chrisuehlinger/tinyrender/dom"
	"github.com/google/go-cmp/cmp"
)

func inlineNode() *css.StyledNode {
	return &css.StyledNode{Node: dom.Elem("span", nil), Values: css.PropertyMap{}}
}

func noneNode(children ...*css.StyledNode) *css.StyledNode {
	return &css.StyledNode{
		Node:     dom.Elem("script", nil),
		Values:   css.PropertyMap{"display": css.Keyword("none")},
		Children: children,
	}
}

// shape describes a box tree by kind only.
type shape struct {
	Type     BoxType
	Children []shape
}

func shapeOf(b *LayoutBox) shape {
	s := shape{Type: b.BoxType}
	for _, c := range b.Children {
		s.Children = append(s.Children, shapeOf(c))
	}
	return s
}

func TestAnonymousWrapping(t *testing.T) {
	root := styled(nil, inlineNode(), inlineNode(), styled(nil), inlineNode())
	box, err := BuildLayoutTree(root)
	if err != nil {
		t.Fatalf("BuildLayoutTree failed: %v", err)
	}
	want := shape{Type: BlockBox, Children: []shape{
		{Type: AnonymousBox, Children: []shape{{Type: InlineBox}, {Type: InlineBox}}},
		{Type: BlockBox},
		{Type: AnonymousBox, Children: []shape{{Type: InlineBox}}},
	}}
	if diff := cmp.Diff(want, shapeOf(box)); diff != "" {
		t.Errorf("box tree mismatch (-want +got):\n%s", diff)
	}
}

func TestInlineParentHoldsInlineChildren(t *testing.T) {
	parent := inlineNode()
	parent.Children = []*css.StyledNode{inlineNode(), styled(nil), inlineNode()}
	box, err := BuildLayoutTree(parent)
	if err != nil {
		t.Fatalf("BuildLayoutTree failed: %v", err)
	}
	want := shape{Type: InlineBox, Children: []shape{
		{Type: InlineBox}, {Type: BlockBox}, {Type: InlineBox},
	}}
	if diff := cmp.Diff(want, shapeOf(box)); diff != "" {
		t.Errorf("box tree mismatch (-want +got):\n%s", diff)
	}
}

func TestDisplayNoneSkipsSubtree(t *testing.T) {
	root := styled(nil, noneNode(styled(nil)), inlineNode(), noneNode(), inlineNode())
	box, err := BuildLayoutTree(root)
	if err != nil {
		t.Fatalf("BuildLayoutTree failed: %v", err)
	}
	// The hidden node between the inline runs does not split them.
	want := shape{Type: BlockBox, Children: []shape{
		{Type: AnonymousBox, Children: []shape{{Type: InlineBox}, {Type: InlineBox}}},
	}}
	if diff := cmp.Diff(want, shapeOf(box)); diff != "" {
		t.Errorf("box tree mismatch (-want +got):\n%s", diff)
	}
}

func TestRootDisplayNone(t *testing.T) {
	_, err := BuildLayoutTree(noneNode())
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	var lerr *LayoutError
	if !errors.As(err, &lerr) || lerr.Tag != "script" {
		t.Errorf("expected LayoutError for <script>, got %#v", err)
	}
	if !strings.Contains(err.Error(), "empty document") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestStyleNodeOnAnonymousPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	NewAnonymousBox().StyleNode()
}

func TestDump(t *testing.T) {
	root := styled(css.PropertyMap{"height": px(10)}, inlineNode())
	box, _ := BuildLayoutTree(root)
	Layout(box, viewport(50))
	out := box.Dump()
	for _, want := range []string{"block <div> (0, 0, 50, 10)", "  anonymous (0, 0, 50, 0)", "    inline <span> (0, 0, 0, 0)"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}
