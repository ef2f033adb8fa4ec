// Package css models stylesheets, parses them, and resolves the cascade into
// a style tree that mirrors the element tree.
package css

import (
	"fmt"
	"strconv"
	"strings"
)

// Stylesheet is an ordered list of rules. Rule order is the document order
// used to break specificity ties.
type Stylesheet struct {
	Rules []Rule
}

// Rule pairs a selector list with the declarations it applies.
// Selectors are kept sorted by specificity, highest first.
type Rule struct {
	Selectors    []SimpleSelector
	Declarations []Declaration
}

// Declaration is a single property: value pair.
type Declaration struct {
	Name  string
	Value Value
}

// SimpleSelector matches an element by optional tag name, optional id and a
// set of classes. An empty selector (or "*") matches every element.
type SimpleSelector struct {
	TagName string
	ID      string
	Classes []string
}

// Specificity returns the (id, class, tag) weight of the selector.
func (s SimpleSelector) Specificity() Specificity {
	var sp Specificity
	if s.ID != "" {
		sp.A = 1
	}
	sp.B = len(s.Classes)
	if s.TagName != "" {
		sp.C = 1
	}
	return sp
}

func (s SimpleSelector) String() string {
	var sb strings.Builder
	sb.WriteString(s.TagName)
	if s.ID != "" {
		sb.WriteString("#" + s.ID)
	}
	for _, c := range s.Classes {
		sb.WriteString("." + c)
	}
	if sb.Len() == 0 {
		return "*"
	}
	return sb.String()
}

// Unit is a length unit. Only pixels are supported.
type Unit int

const (
	Px Unit = iota
)

func (u Unit) String() string {
	if u == Px {
		return "px"
	}
	return "unknown"
}

// ValueType identifies which field of a Value is meaningful.
type ValueType int

const (
	KeywordValue ValueType = iota
	LengthValue
	ColorValue
)

// Value is a declared value: a keyword, a length or a color.
type Value struct {
	Type    ValueType
	Keyword string
	Length  float64
	Unit    Unit
	Color   Color
}

// Keyword builds a keyword value.
func Keyword(k string) Value {
	return Value{Type: KeywordValue, Keyword: k}
}

// Length builds a length value.
func Length(v float64, unit Unit) Value {
	return Value{Type: LengthValue, Length: v, Unit: unit}
}

// ColorVal builds a color value.
func ColorVal(c Color) Value {
	return Value{Type: ColorValue, Color: c}
}

// IsKeyword reports whether v is the given keyword.
func (v Value) IsKeyword(k string) bool {
	return v.Type == KeywordValue && v.Keyword == k
}

// ToPx returns the value in pixels. Anything that is not a length is zero,
// which is how "auto" takes part in width sums.
func (v Value) ToPx() float64 {
	if v.Type == LengthValue && v.Unit == Px {
		return v.Length
	}
	return 0
}

func (v Value) String() string {
	switch v.Type {
	case LengthValue:
		return strconv.FormatFloat(v.Length, 'f', -1, 64) + v.Unit.String()
	case ColorValue:
		return v.Color.String()
	default:
		return v.Keyword
	}
}

func (r Rule) String() string {
	sels := make([]string, len(r.Selectors))
	for i, s := range r.Selectors {
		sels[i] = s.String()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s {", strings.Join(sels, ", "))
	for _, d := range r.Declarations {
		fmt.Fprintf(&sb, " %s: %s;", d.Name, d.Value)
	}
	sb.WriteString(" }")
	return sb.String()
}

// Append returns a stylesheet holding the rules of s followed by other's.
func (s *Stylesheet) Append(other *Stylesheet) *Stylesheet {
	out := &Stylesheet{}
	if s != nil {
		out.Rules = append(out.Rules, s.Rules...)
	}
	if other != nil {
		out.Rules = append(out.Rules, other.Rules...)
	}
	return out
}
