// Package querylang parses the textual surface syntax for pattern queries
// described in §6 and §12: a comma-separated match list of triplet
// patterns, each slot tagged by the kind sigil it binds (entity `#`,
// attribute `:`, value `?`), or a bare quoted literal as value-constant
// shorthand. original_source expresses this as a `query!` macro; Go has
// no macros, so this is a small hand-written recursive-descent parser in
// the style of the teacher's own internal/sparql/parser.
package querylang

import (
	"fmt"

	"github.com/tilfirn/firn/pkg/query"
	"github.com/tilfirn/firn/pkg/triplestore"
)

// Parser turns a query-language program into a []query.Rule ready for
// query.Query.
type Parser struct {
	input  string
	pos    int
	length int
}

// NewParser constructs a Parser over input.
func NewParser(input string) *Parser {
	return &Parser{input: input, length: len(input)}
}

// Parse parses a full program: a comma-separated sequence of triplet
// patterns, each written `{slot, slot, slot}`.
func Parse(input string) ([]query.Rule, error) {
	return NewParser(input).Parse()
}

// Parse runs the parser to completion.
func (p *Parser) Parse() ([]query.Rule, error) {
	var rules []query.Rule

	p.skipWhitespace()
	for p.pos < p.length {
		rule, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)

		p.skipWhitespace()
		if p.peek() == ',' {
			p.advance()
			p.skipWhitespace()
			continue
		}
		break
	}

	p.skipWhitespace()
	if p.pos != p.length {
		return nil, fmt.Errorf("querylang: unexpected trailing input at offset %d", p.pos)
	}
	return rules, nil
}

func (p *Parser) parsePattern() (query.Rule, error) {
	if err := p.expect('{'); err != nil {
		return query.Rule{}, err
	}

	entitySlot, err := p.parseEntitySlot()
	if err != nil {
		return query.Rule{}, fmt.Errorf("querylang: entity slot: %w", err)
	}

	if err := p.expectComma(); err != nil {
		return query.Rule{}, err
	}

	attributeSlot, err := p.parseAttributeSlot()
	if err != nil {
		return query.Rule{}, fmt.Errorf("querylang: attribute slot: %w", err)
	}

	if err := p.expectComma(); err != nil {
		return query.Rule{}, err
	}

	valueSlot, err := p.parseValueSlot()
	if err != nil {
		return query.Rule{}, fmt.Errorf("querylang: value slot: %w", err)
	}

	p.skipWhitespace()
	if err := p.expect('}'); err != nil {
		return query.Rule{}, err
	}

	return query.NewRule(entitySlot, attributeSlot, valueSlot), nil
}

func (p *Parser) parseEntitySlot() (query.EntitySlot, error) {
	p.skipWhitespace()
	if err := p.expect('#'); err != nil {
		return query.EntitySlot{}, err
	}
	if p.peek() == '"' {
		lit, err := p.parseQuoted()
		if err != nil {
			return query.EntitySlot{}, err
		}
		return query.EntityConst(triplestore.Entity(lit)), nil
	}
	name, err := p.parseIdentifier()
	if err != nil {
		return query.EntitySlot{}, err
	}
	return query.EntityVarSlot(query.EntityVar(name)), nil
}

func (p *Parser) parseAttributeSlot() (query.AttributeSlot, error) {
	p.skipWhitespace()
	if err := p.expect(':'); err != nil {
		return query.AttributeSlot{}, err
	}
	if p.peek() == '"' {
		lit, err := p.parseQuoted()
		if err != nil {
			return query.AttributeSlot{}, err
		}
		return query.AttributeConst(triplestore.Attribute(lit)), nil
	}
	name, err := p.parseIdentifier()
	if err != nil {
		return query.AttributeSlot{}, err
	}
	return query.AttributeVarSlot(query.AttributeVar(name)), nil
}

// parseValueSlot accepts the value-position grammar: `?name` (value
// variable), `?"literal"` (value constant), `#name` (entity variable used
// via the §4.3 coercion rule), or a bare `"literal"` (value-constant
// shorthand, no sigil required since Data constants are the common case
// in the object position).
func (p *Parser) parseValueSlot() (query.ValueSlot, error) {
	p.skipWhitespace()
	switch p.peek() {
	case '?':
		p.advance()
		if p.peek() == '"' {
			lit, err := p.parseQuoted()
			if err != nil {
				return query.ValueSlot{}, err
			}
			return query.ValueConst(triplestore.Data(lit)), nil
		}
		name, err := p.parseIdentifier()
		if err != nil {
			return query.ValueSlot{}, err
		}
		return query.ValueVarSlot(query.ValueVar(name)), nil

	case '#':
		p.advance()
		name, err := p.parseIdentifier()
		if err != nil {
			return query.ValueSlot{}, err
		}
		return query.ValueEntityVarSlot(query.EntityVar(name)), nil

	case '"':
		lit, err := p.parseQuoted()
		if err != nil {
			return query.ValueSlot{}, err
		}
		return query.ValueConst(triplestore.Data(lit)), nil

	default:
		return query.ValueSlot{}, fmt.Errorf("querylang: expected '?', '#' or a quoted literal at offset %d", p.pos)
	}
}

func (p *Parser) expectComma() error {
	p.skipWhitespace()
	return p.expect(',')
}

func (p *Parser) expect(ch byte) error {
	if p.peek() != ch {
		return fmt.Errorf("querylang: expected %q at offset %d", ch, p.pos)
	}
	p.advance()
	return nil
}

func (p *Parser) parseIdentifier() (string, error) {
	start := p.pos
	for p.pos < p.length && isIdentByte(p.input[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", fmt.Errorf("querylang: expected identifier at offset %d", start)
	}
	return p.input[start:p.pos], nil
}

func (p *Parser) parseQuoted() (string, error) {
	if err := p.expect('"'); err != nil {
		return "", err
	}
	start := p.pos
	for p.pos < p.length && p.input[p.pos] != '"' {
		p.pos++
	}
	if p.pos >= p.length {
		return "", fmt.Errorf("querylang: unterminated string literal starting at offset %d", start)
	}
	value := p.input[start:p.pos]
	p.advance() // consume closing quote
	return value, nil
}

func (p *Parser) peek() byte {
	if p.pos >= p.length {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) advance() {
	if p.pos < p.length {
		p.pos++
	}
}

func (p *Parser) skipWhitespace() {
	for p.pos < p.length {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func isIdentByte(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_'
}
