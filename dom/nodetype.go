// Package dom holds the element tree produced by the markup parser and
// consumed by style resolution.
package dom

// NodeType distinguishes element nodes from text leaves.
type NodeType uint8

const (
	// ElementNode is a tagged node with attributes and children.
	ElementNode NodeType = iota + 1
	// TextNode carries raw character data and never has children.
	TextNode
)

// String returns the string representation of the NodeType.
func (nt NodeType) String() string {
	switch nt {
	case ElementNode:
		return "ELEMENT_NODE"
	case TextNode:
		return "TEXT_NODE"
	default:
		return "UNKNOWN_NODE"
	}
}
