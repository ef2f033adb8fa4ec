package css

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse_Rules(t *testing.T) {
	src := `
/* page */
h1, h2.title, #main { margin: 10px; color: #cc0000; }
div.note {
	display: block;
	padding-left: 4.5px;
	width: auto;
	background-color: rgb(17, 34, 51);
	border-color: red
}
* { margin: 0 }
`
	ss, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := &Stylesheet{Rules: []Rule{
		{
			Selectors: []SimpleSelector{
				{ID: "main"},
				{TagName: "h2", Classes: []string{"title"}},
				{TagName: "h1"},
			},
			Declarations: []Declaration{
				{Name: "margin", Value: Length(10, Px)},
				{Name: "color", Value: ColorVal(Color{R: 0xcc, A: 255})},
			},
		},
		{
			Selectors: []SimpleSelector{{TagName: "div", Classes: []string{"note"}}},
			Declarations: []Declaration{
				{Name: "display", Value: Keyword("block")},
				{Name: "padding-left", Value: Length(4.5, Px)},
				{Name: "width", Value: Keyword("auto")},
				{Name: "background-color", Value: ColorVal(Color{R: 17, G: 34, B: 51, A: 255})},
				{Name: "border-color", Value: ColorVal(Color{R: 255, A: 255})},
			},
		},
		{
			Selectors:    []SimpleSelector{{}},
			Declarations: []Declaration{{Name: "margin", Value: Length(0, Px)}},
		},
	}}

	if diff := cmp.Diff(want, ss); diff != "" {
		t.Errorf("stylesheet mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_SelectorsSortedBySpecificity(t *testing.T) {
	ss, err := Parse("a, .b, #c, a.b, * { x: y; }")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var got []string
	for _, s := range ss.Rules[0].Selectors {
		got = append(got, s.String())
	}
	want := []string{"#c", "a.b", ".b", "a", "*"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("selector order mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Values(t *testing.T) {
	tests := []struct {
		input string
		want  Value
	}{
		{"12px", Length(12, Px)},
		{"-3.5px", Length(-3.5, Px)},
		{"0", Length(0, Px)},
		{"AUTO", Keyword("auto")},
		{"#abc", ColorVal(Color{R: 0xaa, G: 0xbb, B: 0xcc, A: 255})},
		{"#11223380", ColorVal(Color{R: 0x11, G: 0x22, B: 0x33, A: 0x80})},
		{"rgba(1, 2, 3, 0.5)", ColorVal(Color{R: 1, G: 2, B: 3, A: 128})},
		{"transparent", ColorVal(Color{})},
		{"inline-block", Keyword("inline-block")},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ss, err := Parse("p { x: " + tt.input + "; }")
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			got := ss.Rules[0].Declarations[0].Value
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		column  int
		message string
	}{
		{"unsupported unit", "div { color: 12em; }", 1, 16, "unsupported unit"},
		{"missing unit", "div { width: 12; }", 1, 16, "missing unit"},
		{"unterminated block", "div { width: 12px;", 1, 19, "expected '}'"},
		{"missing colon", "div {\n  width 12px; }", 2, 9, "expected ':'"},
		{"bad color", "p { color: #12; }", 1, 12, "invalid color"},
		{"nan channel", "div { color: rgb(nan, 0, 0); }", 1, 14, "invalid color"},
		{"infinite alpha", "div { color: rgba(1, 2, 3, inf); }", 1, 14, "invalid color"},
		{"descendant selector", "div p { x: y; }", 1, 5, "in selector list"},
		{"empty selector", "{ x: y; }", 1, 1, "expected selector"},
		{"unterminated comment", "p { } /* x", 1, 7, "unterminated comment"},
		{"missing semicolon", "p { a: b c: d; }", 1, 10, "expected ';'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if perr.Line != tt.line || perr.Column != tt.column {
				t.Errorf("position: got %d:%d, expected %d:%d (%s)", perr.Line, perr.Column, tt.line, tt.column, perr.Msg)
			}
			if !strings.Contains(perr.Msg, tt.message) {
				t.Errorf("message %q should contain %q", perr.Msg, tt.message)
			}
		})
	}
}

func TestParseSelector(t *testing.T) {
	sel, err := ParseSelector(" div#a.b.c ")
	if err != nil {
		t.Fatalf("ParseSelector failed: %v", err)
	}
	want := SimpleSelector{TagName: "div", ID: "a", Classes: []string{"b", "c"}}
	if diff := cmp.Diff(want, sel); diff != "" {
		t.Errorf("selector mismatch (-want +got):\n%s", diff)
	}
	if _, err := ParseSelector("div > p"); err == nil {
		t.Error("expected an error for a combinator")
	}
}

func TestUserAgentStylesheet(t *testing.T) {
	ss := GetUserAgentStylesheet()
	if len(ss.Rules) != 2 {
		t.Fatalf("expected 2 user agent rules, got %d", len(ss.Rules))
	}
	if ss != GetUserAgentStylesheet() {
		t.Error("user agent stylesheet should be parsed once")
	}
}
