// Package html builds the element tree from markup using the tokenizer from
// golang.org/x/net/html.
//
// Unlike a full HTML5 tree builder it is strict about nesting: a closing tag
// that does not match the open element, or an element left open at the end
// of input, is reported as a *ParseError carrying the source position.
package html

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chrisuehlinger/tinyrender/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseError describes malformed markup. Line and Column are 1-based.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("html: line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// voidElements never have content and therefore never need a closing tag.
var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// Parse parses markup and returns the root element.
//
// A document with exactly one top-level node uses that node as the root.
// Otherwise the top-level nodes are wrapped in a synthetic html element.
// Comments, doctypes and whitespace-only text are dropped.
func Parse(src string) (*dom.Node, error) {
	p := &parser{src: src, z: html.NewTokenizer(strings.NewReader(src))}
	nodes, err := p.parse()
	if err != nil {
		return nil, err
	}
	if len(nodes) == 1 {
		return nodes[0], nil
	}
	return dom.Elem("html", nil, nodes...), nil
}

// ParseReader reads all of r and parses it.
func ParseReader(r io.Reader) (*dom.Node, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read markup: %w", err)
	}
	return Parse(string(b))
}

type openElement struct {
	node   *dom.Node
	offset int
}

type parser struct {
	src    string
	z      *html.Tokenizer
	offset int
	stack  []openElement
	top    []*dom.Node
}

func (p *parser) parse() ([]*dom.Node, error) {
	for {
		start := p.offset
		tt := p.z.Next()
		p.offset += len(p.z.Raw())

		switch tt {
		case html.ErrorToken:
			if err := p.z.Err(); !errors.Is(err, io.EOF) {
				return nil, p.errorAt(start, err.Error())
			}
			if n := len(p.stack); n > 0 {
				open := p.stack[n-1]
				return nil, p.errorAt(open.offset, fmt.Sprintf("unclosed element <%s>", open.node.TagName))
			}
			return p.top, nil

		case html.TextToken:
			text := string(p.z.Text())
			if strings.TrimSpace(text) == "" {
				continue
			}
			p.append(dom.Text(text))

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := p.z.Token()
			el := dom.Elem(tok.Data, convertAttributes(tok.Attr))
			p.append(el)
			if tt == html.StartTagToken && !voidElements[tok.DataAtom] {
				p.stack = append(p.stack, openElement{node: el, offset: start})
			}

		case html.EndTagToken:
			tok := p.z.Token()
			if voidElements[tok.DataAtom] {
				continue
			}
			n := len(p.stack)
			if n == 0 {
				return nil, p.errorAt(start, fmt.Sprintf("unexpected closing tag </%s>", tok.Data))
			}
			if open := p.stack[n-1].node; open.TagName != tok.Data {
				return nil, p.errorAt(start, fmt.Sprintf("closing tag </%s> does not match <%s>", tok.Data, open.TagName))
			}
			p.stack = p.stack[:n-1]

		case html.CommentToken, html.DoctypeToken:
		}
	}
}

func (p *parser) append(n *dom.Node) {
	if len(p.stack) == 0 {
		p.top = append(p.top, n)
		return
	}
	parent := p.stack[len(p.stack)-1].node
	parent.AppendChild(n)
}

func (p *parser) errorAt(offset int, msg string) *ParseError {
	line, col := position(p.src, offset)
	return &ParseError{Line: line, Column: col, Msg: msg}
}

// position converts a byte offset into a 1-based line and column.
func position(src string, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	before := src[:offset]
	line = strings.Count(before, "\n") + 1
	col = offset - strings.LastIndex(before, "\n")
	return line, col
}

// convertAttributes keeps the first occurrence of each attribute key.
func convertAttributes(attrs []html.Attribute) map[string]string {
	result := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if _, seen := result[a.Key]; seen {
			continue
		}
		result[a.Key] = a.Val
	}
	return result
}
