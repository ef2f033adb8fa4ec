package css

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseError describes malformed stylesheet text. Line and Column are 1-based.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("css: line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Parse parses a stylesheet made of simple-selector rules:
//
//	div.note, #main { margin: 10px; background-color: #112233; }
//
// Lengths must be in px. The selectors of every rule come back sorted by
// specificity, highest first.
func Parse(src string) (*Stylesheet, error) {
	p := &parser{src: src}
	var ss Stylesheet
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.eof() {
			return &ss, nil
		}
		rule, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		ss.Rules = append(ss.Rules, rule)
	}
}

// ParseSelector parses a single simple selector such as "div#a.b".
func ParseSelector(src string) (SimpleSelector, error) {
	p := &parser{src: strings.TrimSpace(src)}
	sel, err := p.parseSimpleSelector()
	if err != nil {
		return SimpleSelector{}, err
	}
	if !p.eof() {
		return SimpleSelector{}, p.errorf("unexpected %q after selector", p.peek())
	}
	return sel, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) startsWith(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return p.errorAt(p.pos, format, args...)
}

func (p *parser) errorAt(offset int, format string, args ...any) *ParseError {
	before := p.src[:offset]
	return &ParseError{
		Line:   strings.Count(before, "\n") + 1,
		Column: offset - strings.LastIndex(before, "\n"),
		Msg:    fmt.Sprintf(format, args...),
	}
}

func (p *parser) expect(c byte) error {
	if p.eof() {
		return p.errorf("expected %q, found end of input", c)
	}
	if p.peek() != c {
		return p.errorf("expected %q, found %q", c, p.peek())
	}
	p.pos++
	return nil
}

// skipSpace consumes whitespace and comments.
func (p *parser) skipSpace() error {
	for !p.eof() {
		switch {
		case isSpace(p.peek()):
			p.pos++
		case p.startsWith("/*"):
			start := p.pos
			end := strings.Index(p.src[p.pos+2:], "*/")
			if end < 0 {
				return p.errorAt(start, "unterminated comment")
			}
			p.pos += end + 4
		default:
			return nil
		}
	}
	return nil
}

func (p *parser) parseRule() (Rule, error) {
	selectors, err := p.parseSelectors()
	if err != nil {
		return Rule{}, err
	}
	decls, err := p.parseDeclarations()
	if err != nil {
		return Rule{}, err
	}
	return Rule{Selectors: selectors, Declarations: decls}, nil
}

func (p *parser) parseSelectors() ([]SimpleSelector, error) {
	var selectors []SimpleSelector
	for {
		sel, err := p.parseSimpleSelector()
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		switch {
		case p.eof():
			return nil, p.errorf("unexpected end of input in selector list")
		case p.peek() == ',':
			p.pos++
			if err := p.skipSpace(); err != nil {
				return nil, err
			}
		case p.peek() == '{':
			p.pos++
			sort.SliceStable(selectors, func(i, j int) bool {
				return selectors[j].Specificity().Less(selectors[i].Specificity())
			})
			return selectors, nil
		default:
			return nil, p.errorf("unexpected %q in selector list", p.peek())
		}
	}
}

func (p *parser) parseSimpleSelector() (SimpleSelector, error) {
	var sel SimpleSelector
	start := p.pos
	for !p.eof() {
		c := p.peek()
		switch {
		case c == '#':
			p.pos++
			id, err := p.parseIdentifier()
			if err != nil {
				return sel, err
			}
			sel.ID = id
		case c == '.':
			p.pos++
			class, err := p.parseIdentifier()
			if err != nil {
				return sel, err
			}
			sel.Classes = append(sel.Classes, class)
		case c == '*' && p.pos == start:
			p.pos++
		case isIdentStart(c) && p.pos == start:
			tag, _ := p.parseIdentifier()
			sel.TagName = strings.ToLower(tag)
		default:
			if p.pos == start {
				return sel, p.errorf("expected selector, found %q", c)
			}
			return sel, nil
		}
	}
	if p.pos == start {
		return sel, p.errorf("expected selector, found end of input")
	}
	return sel, nil
}

func (p *parser) parseIdentifier() (string, error) {
	start := p.pos
	if p.eof() || !isIdentStart(p.peek()) {
		if p.eof() {
			return "", p.errorf("expected identifier, found end of input")
		}
		return "", p.errorf("expected identifier, found %q", p.peek())
	}
	for !p.eof() && isIdentChar(p.peek()) {
		p.pos++
	}
	return p.src[start:p.pos], nil
}

func (p *parser) parseDeclarations() ([]Declaration, error) {
	var decls []Declaration
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, p.errorf("unexpected end of input, expected '}'")
		}
		if p.peek() == '}' {
			p.pos++
			return decls, nil
		}
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
}

func (p *parser) parseDeclaration() (Declaration, error) {
	name, err := p.parseIdentifier()
	if err != nil {
		return Declaration{}, err
	}
	if err := p.skipSpace(); err != nil {
		return Declaration{}, err
	}
	if err := p.expect(':'); err != nil {
		return Declaration{}, err
	}
	if err := p.skipSpace(); err != nil {
		return Declaration{}, err
	}
	value, err := p.parseValue()
	if err != nil {
		return Declaration{}, err
	}
	if err := p.skipSpace(); err != nil {
		return Declaration{}, err
	}
	// The final declaration of a block may omit its semicolon.
	if p.peek() != '}' {
		if err := p.expect(';'); err != nil {
			return Declaration{}, err
		}
	}
	return Declaration{Name: strings.ToLower(name), Value: value}, nil
}

func (p *parser) parseValue() (Value, error) {
	if p.eof() {
		return Value{}, p.errorf("expected value, found end of input")
	}
	c := p.peek()
	switch {
	case isDigit(c) || c == '.' || ((c == '-' || c == '+') && p.pos+1 < len(p.src) && (isDigit(p.src[p.pos+1]) || p.src[p.pos+1] == '.')):
		return p.parseLength()
	case c == '#':
		return p.parseHashColor()
	case isIdentStart(c):
		return p.parseKeywordOrColor()
	}
	return Value{}, p.errorf("unexpected %q in value", c)
}

func (p *parser) parseLength() (Value, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	for !p.eof() && (isDigit(p.peek()) || p.peek() == '.') {
		p.pos++
	}
	n, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return Value{}, p.errorAt(start, "invalid number %q", p.src[start:p.pos])
	}

	unitStart := p.pos
	if p.eof() || !isIdentStart(p.peek()) {
		if n == 0 {
			return Length(0, Px), nil
		}
		return Value{}, p.errorAt(unitStart, "missing unit after %q", p.src[start:p.pos])
	}
	unit, _ := p.parseIdentifier()
	if strings.ToLower(unit) != "px" {
		return Value{}, p.errorAt(unitStart, "unsupported unit %q", unit)
	}
	return Length(n, Px), nil
}

func (p *parser) parseHashColor() (Value, error) {
	start := p.pos
	p.pos++
	for !p.eof() && isIdentChar(p.peek()) {
		p.pos++
	}
	c, ok := parseHexColor(p.src[start+1 : p.pos])
	if !ok {
		return Value{}, p.errorAt(start, "invalid color %q", p.src[start:p.pos])
	}
	return ColorVal(c), nil
}

func (p *parser) parseKeywordOrColor() (Value, error) {
	start := p.pos
	ident, _ := p.parseIdentifier()
	kw := strings.ToLower(ident)

	if p.peek() == '(' {
		end := strings.IndexByte(p.src[p.pos:], ')')
		if end < 0 {
			return Value{}, p.errorAt(start, "unterminated function %s()", ident)
		}
		p.pos += end + 1
		if c, ok := ParseColor(p.src[start:p.pos]); ok {
			return ColorVal(c), nil
		}
		if kw == "rgb" || kw == "rgba" {
			return Value{}, p.errorAt(start, "invalid color %q", p.src[start:p.pos])
		}
		return Value{}, p.errorAt(start, "unsupported function %q", p.src[start:p.pos])
	}
	if c, ok := NamedColors[kw]; ok {
		return ColorVal(c), nil
	}
	return Keyword(kw), nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '-' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
