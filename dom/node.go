package dom

import (
	"fmt"
	"sort"
	"strings"
)

// Node is a single node of the element tree. Element nodes use TagName,
// Attributes and Children; text nodes use Text only.
//
// The tree is built once by a parser (and optionally touched by inline
// scripts) before styling. Every later stage treats it as read-only.
type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Children   []*Node
	Text       string
}

// Elem creates an element node. A nil attrs map is replaced with an empty one.
func Elem(tagName string, attrs map[string]string, children ...*Node) *Node {
	if attrs == nil {
		attrs = make(map[string]string)
	}
	return &Node{
		Type:       ElementNode,
		TagName:    strings.ToLower(tagName),
		Attributes: attrs,
		Children:   children,
	}
}

// Text creates a text node.
func Text(data string) *Node {
	return &Node{Type: TextNode, Text: data}
}

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool {
	return n != nil && n.Type == ElementNode
}

// Attr returns the attribute value and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	if !n.IsElement() {
		return "", false
	}
	v, ok := n.Attributes[strings.ToLower(name)]
	return v, ok
}

// SetAttr sets an attribute on an element node. It is a no-op on text nodes.
func (n *Node) SetAttr(name, value string) {
	if !n.IsElement() {
		return
	}
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[strings.ToLower(name)] = value
}

// RemoveAttr deletes an attribute from an element node.
func (n *Node) RemoveAttr(name string) {
	if !n.IsElement() {
		return
	}
	delete(n.Attributes, strings.ToLower(name))
}

// ID returns the element's id attribute.
func (n *Node) ID() (string, bool) {
	return n.Attr("id")
}

// Classes returns the set of class names from the class attribute.
func (n *Node) Classes() map[string]struct{} {
	classes := make(map[string]struct{})
	v, ok := n.Attr("class")
	if !ok {
		return classes
	}
	for _, c := range strings.Fields(v) {
		classes[c] = struct{}{}
	}
	return classes
}

// HasClass reports whether the element carries the given class.
func (n *Node) HasClass(name string) bool {
	_, ok := n.Classes()[name]
	return ok
}

// AppendChild adds child as the last child of n.
func (n *Node) AppendChild(child *Node) {
	if !n.IsElement() || child == nil {
		return
	}
	n.Children = append(n.Children, child)
}

// RemoveChild detaches child from n. It reports whether child was found.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	found := false
	n.Walk(func(c *Node) bool {
		if c == other {
			found = true
		}
		return !found
	})
	return found
}

// ParentOf returns the parent of child within the subtree rooted at n.
func (n *Node) ParentOf(child *Node) *Node {
	var parent *Node
	n.Walk(func(c *Node) bool {
		if parent != nil {
			return false
		}
		for _, cc := range c.Children {
			if cc == child {
				parent = c
				return false
			}
		}
		return true
	})
	return parent
}

// TextContent concatenates the text of all descendant text nodes.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// SetTextContent replaces all children with a single text node.
func (n *Node) SetTextContent(text string) {
	if n == nil {
		return
	}
	if n.Type == TextNode {
		n.Text = text
		return
	}
	n.Children = nil
	if text != "" {
		n.Children = []*Node{Text(text)}
	}
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// GetElementByID returns the first element in document order with the id.
func (n *Node) GetElementByID(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if v, ok := c.ID(); ok && v == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// GetElementsByTagName returns all elements with the tag in document order.
// The tag "*" matches every element.
func (n *Node) GetElementsByTagName(tag string) []*Node {
	tag = strings.ToLower(tag)
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.IsElement() && (tag == "*" || c.TagName == tag) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// String renders the subtree in an indented debug form.
func (n *Node) String() string {
	var sb strings.Builder
	n.dump(&sb, 0)
	return sb.String()
}

func (n *Node) dump(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Type {
	case TextNode:
		fmt.Fprintf(sb, "%s%q\n", indent, n.Text)
	case ElementNode:
		fmt.Fprintf(sb, "%s<%s", indent, n.TagName)
		keys := make([]string, 0, len(n.Attributes))
		for k := range n.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(sb, " %s=%q", k, n.Attributes[k])
		}
		sb.WriteString(">\n")
		for _, c := range n.Children {
			c.dump(sb, depth+1)
		}
	}
}
