package css

import (
	"sort"

	"github.com/chrisuehlinger/tinyrender/dom"
)

// MatchedRule is a rule that applies to an element, with the specificity of
// the selector that matched and the rule's position in the stylesheet.
type MatchedRule struct {
	Rule        *Rule
	Specificity Specificity
	Order       int
}

// Matches reports whether the selector applies to the element. Every
// constraint present on the selector must hold; text nodes never match.
func (s SimpleSelector) Matches(el *dom.Node) bool {
	if !el.IsElement() {
		return false
	}
	if s.TagName != "" && s.TagName != el.TagName {
		return false
	}
	if s.ID != "" {
		if id, ok := el.ID(); !ok || id != s.ID {
			return false
		}
	}
	if len(s.Classes) > 0 {
		classes := el.Classes()
		for _, c := range s.Classes {
			if _, ok := classes[c]; !ok {
				return false
			}
		}
	}
	return true
}

// matchRule returns the specificity contributed by the rule for el. The
// selectors are sorted highest first, so the first match is the maximum.
func matchRule(rule *Rule, el *dom.Node) (Specificity, bool) {
	for _, sel := range rule.Selectors {
		if sel.Matches(el) {
			return sel.Specificity(), true
		}
	}
	return Specificity{}, false
}

// MatchingRules collects every rule of the stylesheet that applies to el,
// ordered from lowest to highest precedence.
func MatchingRules(el *dom.Node, ss *Stylesheet) []MatchedRule {
	if ss == nil || !el.IsElement() {
		return nil
	}
	var matched []MatchedRule
	for i := range ss.Rules {
		rule := &ss.Rules[i]
		if sp, ok := matchRule(rule, el); ok {
			matched = append(matched, MatchedRule{Rule: rule, Specificity: sp, Order: i})
		}
	}
	sortByPrecedence(matched)
	return matched
}

// sortByPrecedence orders rules ascending by specificity. The sort is stable
// so equal specificities keep stylesheet order and the later rule wins.
func sortByPrecedence(rules []MatchedRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Specificity.Less(rules[j].Specificity)
	})
}

// SpecifiedValues computes the cascaded property map for a single node.
func SpecifiedValues(el *dom.Node, ss *Stylesheet) PropertyMap {
	values := make(PropertyMap)
	for _, m := range MatchingRules(el, ss) {
		for _, decl := range m.Rule.Declarations {
			values[decl.Name] = decl.Value
		}
	}
	return values
}

// Resolve builds the style tree for the element tree rooted at root.
// The returned tree has one node per source node, in the same order.
func Resolve(root *dom.Node, ss *Stylesheet) *StyledNode {
	sn := &StyledNode{
		Node:   root,
		Values: SpecifiedValues(root, ss),
	}
	sn.Children = make([]*StyledNode, 0, len(root.Children))
	for _, child := range root.Children {
		sn.Children = append(sn.Children, Resolve(child, ss))
	}
	return sn
}
