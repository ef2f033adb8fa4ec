package css

import (
	"testing"

	"github.com/chrisuehlinger/tinyrender/dom"
)

func mustParse(t *testing.T, src string) *Stylesheet {
	t.Helper()
	ss, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	return ss
}

func TestSpecificityOrdering(t *testing.T) {
	id := SimpleSelector{ID: "a"}.Specificity()
	class := SimpleSelector{Classes: []string{"b"}}.Specificity()
	tag := SimpleSelector{TagName: "div"}.Specificity()
	tagClass := SimpleSelector{TagName: "div", Classes: []string{"b"}}.Specificity()

	if !class.Less(id) {
		t.Errorf("expected .b %v < #a %v", class, id)
	}
	if !tag.Less(class) {
		t.Errorf("expected div %v < .b %v", tag, class)
	}
	if !class.Less(tagClass) {
		t.Errorf("expected .b %v < div.b %v", class, tagClass)
	}
	if tagClass.Compare(Specificity{B: 1, C: 1}) != 0 {
		t.Errorf("div.b should be (0,1,1), got %v", tagClass)
	}
	// Many classes never outweigh an id.
	if !(Specificity{B: 10, C: 10}).Less(id) {
		t.Error("expected (0,10,10) < (1,0,0)")
	}
}

func TestSelectorMatching(t *testing.T) {
	el := dom.Elem("div", map[string]string{"id": "x", "class": "a b"})
	tests := []struct {
		sel  SimpleSelector
		want bool
	}{
		{SimpleSelector{}, true},
		{SimpleSelector{TagName: "div"}, true},
		{SimpleSelector{TagName: "p"}, false},
		{SimpleSelector{ID: "x"}, true},
		{SimpleSelector{ID: "y"}, false},
		{SimpleSelector{Classes: []string{"a", "b"}}, true},
		{SimpleSelector{Classes: []string{"a", "c"}}, false},
		{SimpleSelector{TagName: "div", ID: "x", Classes: []string{"b"}}, true},
		{SimpleSelector{TagName: "span", ID: "x", Classes: []string{"b"}}, false},
	}
	for _, tt := range tests {
		if got := tt.sel.Matches(el); got != tt.want {
			t.Errorf("%s.Matches: got %v, expected %v", tt.sel, got, tt.want)
		}
	}
	if (SimpleSelector{}).Matches(dom.Text("x")) {
		t.Error("text nodes should never match")
	}
}

func TestCascade_HigherSpecificityWins(t *testing.T) {
	ss := mustParse(t, `
#x { width: 1px; }
div { width: 2px; height: 5px; }
.c { width: 3px; }
`)
	el := dom.Elem("div", map[string]string{"id": "x", "class": "c"})
	values := SpecifiedValues(el, ss)
	if got := values["width"]; got != Length(1, Px) {
		t.Errorf("width: got %v, expected 1px", got)
	}
	if got := values["height"]; got != Length(5, Px) {
		t.Errorf("height: got %v, expected 5px", got)
	}
}

func TestCascade_LaterRuleWinsTies(t *testing.T) {
	ss := mustParse(t, `
.a { color: red; margin: 1px; }
.b { color: blue; }
`)
	el := dom.Elem("p", map[string]string{"class": "a b"})
	values := SpecifiedValues(el, ss)
	if got := values["color"]; got != ColorVal(NamedColors["blue"]) {
		t.Errorf("color: got %v, expected blue", got)
	}
	if got := values["margin"]; got != Length(1, Px) {
		t.Errorf("margin: got %v, expected 1px", got)
	}
}

func TestCascade_RuleUsesBestMatchingSelector(t *testing.T) {
	// The first rule matches through #x, so it beats the later .c rule even
	// though it also lists a plain tag selector.
	ss := mustParse(t, `
div, #x { width: 1px; }
.c { width: 2px; }
`)
	el := dom.Elem("div", map[string]string{"id": "x", "class": "c"})
	matched := MatchingRules(el, ss)
	if len(matched) != 2 {
		t.Fatalf("expected 2 matching rules, got %d", len(matched))
	}
	if matched[1].Specificity != (Specificity{A: 1}) {
		t.Errorf("expected highest rule to carry (1,0,0), got %v", matched[1].Specificity)
	}
	if got := SpecifiedValues(el, ss)["width"]; got != Length(1, Px) {
		t.Errorf("width: got %v, expected 1px", got)
	}
}

func TestResolve_MirrorsTree(t *testing.T) {
	root := dom.Elem("div", map[string]string{"id": "x"},
		dom.Text("hello"),
		dom.Elem("p", map[string]string{"class": "c"}, dom.Text("t")),
	)
	ss := mustParse(t, `* { display: block; } .c { height: 20px; }`)
	st := Resolve(root, ss)

	if st.Node != root {
		t.Error("root style node should reference the root element")
	}
	if len(st.Children) != len(root.Children) {
		t.Fatalf("expected %d children, got %d", len(root.Children), len(st.Children))
	}
	if text := st.Children[0]; len(text.Values) != 0 || text.Node != root.Children[0] {
		t.Errorf("text node should have an empty property map, got %v", text.Values)
	}
	p := st.Children[1]
	if p.Node != root.Children[1] {
		t.Error("child order not preserved")
	}
	if got, _ := p.Value("height"); got != Length(20, Px) {
		t.Errorf("height: got %v, expected 20px", got)
	}
	if len(p.Children) != 1 || len(p.Children[0].Values) != 0 {
		t.Error("text grandchild should be present with no values")
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		values PropertyMap
		want   Display
	}{
		{PropertyMap{}, DisplayInline},
		{PropertyMap{"display": Keyword("block")}, DisplayBlock},
		{PropertyMap{"display": Keyword("none")}, DisplayNone},
		{PropertyMap{"display": Keyword("inline-block")}, DisplayInline},
		{PropertyMap{"display": Length(1, Px)}, DisplayInline},
	}
	for _, tt := range tests {
		sn := &StyledNode{Values: tt.values}
		if got := sn.Display(); got != tt.want {
			t.Errorf("Display(%v): got %v, expected %v", tt.values, got, tt.want)
		}
	}
}

func TestLookupFallsBackToShorthand(t *testing.T) {
	sn := &StyledNode{Values: PropertyMap{
		"margin":      Length(4, Px),
		"margin-left": Length(9, Px),
	}}
	zero := Length(0, Px)
	if got := sn.Lookup("margin-left", "margin", zero); got != Length(9, Px) {
		t.Errorf("margin-left: got %v, expected 9px", got)
	}
	if got := sn.Lookup("margin-top", "margin", zero); got != Length(4, Px) {
		t.Errorf("margin-top: got %v, expected 4px", got)
	}
	if got := sn.Lookup("padding-top", "padding", zero); got != zero {
		t.Errorf("padding-top: got %v, expected default", got)
	}
}
