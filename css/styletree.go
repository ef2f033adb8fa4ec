package css

import "github.com/chrisuehlinger/tinyrender/dom"

// PropertyMap holds the winning value of each property for one node.
type PropertyMap map[string]Value

// Display is the resolved display type of a styled node.
type Display int

const (
	DisplayInline Display = iota
	DisplayBlock
	DisplayNone
)

func (d Display) String() string {
	switch d {
	case DisplayBlock:
		return "block"
	case DisplayNone:
		return "none"
	default:
		return "inline"
	}
}

// StyledNode pairs a source node with its resolved properties. It refers to
// the element tree without owning it.
type StyledNode struct {
	Node     *dom.Node
	Values   PropertyMap
	Children []*StyledNode
}

// Value returns the resolved value of a property.
func (sn *StyledNode) Value(name string) (Value, bool) {
	v, ok := sn.Values[name]
	return v, ok
}

// Lookup returns the value of name, falling back to fallbackName and then to
// def. It is how per-side properties fall back to their shorthand.
func (sn *StyledNode) Lookup(name, fallbackName string, def Value) Value {
	if v, ok := sn.Value(name); ok {
		return v
	}
	if v, ok := sn.Value(fallbackName); ok {
		return v
	}
	return def
}

// Color returns the property as a color if it holds one.
func (sn *StyledNode) Color(name string) (Color, bool) {
	v, ok := sn.Value(name)
	if !ok || v.Type != ColorValue {
		return Color{}, false
	}
	return v.Color, true
}

// Display resolves the display property. Anything other than "block" or
// "none", including no value at all, is inline.
func (sn *StyledNode) Display() Display {
	v, ok := sn.Value("display")
	if !ok || v.Type != KeywordValue {
		return DisplayInline
	}
	switch v.Keyword {
	case "block":
		return DisplayBlock
	case "none":
		return DisplayNone
	default:
		return DisplayInline
	}
}
