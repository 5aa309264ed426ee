package filter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/sergei-kljujev/SCIM-SDK/pkg/resource"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/schema"
)

// Parse turns a filter expression into an evaluable tree. Attribute names
// are resolved against the resource type's schemas; unknown attributes and
// grammar violations yield a *ParseError.
func Parse(rt *schema.ResourceType, expression string) (Node, error) {
	if resource.IsBlank(expression) {
		return nil, &ParseError{Expression: expression, Message: "filter expression is empty"}
	}
	p := &parser{rt: rt, lex: newLexer(expression)}
	node, err := p.parseOr(p.resolveTopLevel)
	if err != nil {
		return nil, err
	}
	if tok := p.lex.next(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected trailing input %q", tok.text)
	}
	return node, nil
}

// attrResolver resolves an attribute path to its definition and canonical
// form. Top-level paths resolve against the resource type; paths inside a
// value filter resolve against the enclosing complex attribute.
type attrResolver func(path string) (*schema.Attribute, string, bool)

type parser struct {
	rt  *schema.ResourceType
	lex *lexer
}

func (p *parser) errorf(tok token, format string, args ...interface{}) error {
	return &ParseError{
		Expression: p.lex.input,
		Position:   tok.pos,
		Message:    fmt.Sprintf(format, args...),
	}
}

func (p *parser) parseOr(resolve attrResolver) (Node, error) {
	left, err := p.parseAnd(resolve)
	if err != nil {
		return nil, err
	}
	for p.lex.acceptKeyword("or") {
		right, err := p.parseAnd(resolve)
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: LogicalOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd(resolve attrResolver) (Node, error) {
	left, err := p.parseUnary(resolve)
	if err != nil {
		return nil, err
	}
	for p.lex.acceptKeyword("and") {
		right, err := p.parseUnary(resolve)
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: LogicalAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary(resolve attrResolver) (Node, error) {
	if p.lex.acceptKeyword("not") {
		tok := p.lex.next()
		if tok.kind != tokLParen {
			return nil, p.errorf(tok, "expected '(' after 'not'")
		}
		inner, err := p.parseOr(resolve)
		if err != nil {
			return nil, err
		}
		if tok := p.lex.next(); tok.kind != tokRParen {
			return nil, p.errorf(tok, "missing closing parenthesis")
		}
		return &Not{Inner: inner}, nil
	}
	if tok := p.lex.peek(); tok.kind == tokLParen {
		p.lex.next()
		inner, err := p.parseOr(resolve)
		if err != nil {
			return nil, err
		}
		if tok := p.lex.next(); tok.kind != tokRParen {
			return nil, p.errorf(tok, "missing closing parenthesis")
		}
		return inner, nil
	}
	return p.parseAttrExpr(resolve)
}

func (p *parser) parseAttrExpr(resolve attrResolver) (Node, error) {
	tok := p.lex.next()
	if tok.kind != tokIdent {
		return nil, p.errorf(tok, "expected attribute path, got %q", tok.text)
	}
	attr, canonical, ok := resolve(tok.text)
	if !ok {
		return nil, p.errorf(tok, "attribute %q is not defined for resource type %q", tok.text, p.rt.Name)
	}

	if bracket := p.lex.peek(); bracket.kind == tokLBracket {
		p.lex.next()
		if attr.Type != schema.TypeComplex || !attr.MultiValued {
			return nil, p.errorf(bracket, "value filters require a multi-valued complex attribute, %q is %s", canonical, attr.Type)
		}
		inner, err := p.parseOr(func(path string) (*schema.Attribute, string, bool) {
			sub := attr.SubAttribute(path)
			if sub == nil {
				return nil, "", false
			}
			return sub, sub.Name, true
		})
		if err != nil {
			return nil, err
		}
		if tok := p.lex.next(); tok.kind != tokRBracket {
			return nil, p.errorf(tok, "missing closing bracket in value filter")
		}
		return &ValuePath{Attribute: attr, Path: canonical, Inner: inner}, nil
	}

	opTok := p.lex.next()
	if opTok.kind != tokIdent {
		return nil, p.errorf(opTok, "expected comparison operator after %q", canonical)
	}
	op := Operator(strings.ToLower(opTok.text))
	switch op {
	case OpPresent:
		return &Compare{Attribute: attr, Path: canonical, Op: op}, nil
	case OpEqual, OpNotEqual, OpContains, OpStartsWith, OpEndsWith,
		OpGreaterThan, OpGreaterThanOrEqual, OpLessThan, OpLessThanOrEqual:
		// fallthrough to value parsing below
	default:
		return nil, p.errorf(opTok, "unknown operator %q", opTok.text)
	}

	valTok := p.lex.next()
	value, err := literalValue(valTok)
	if err != nil {
		return nil, p.errorf(valTok, "%v", err)
	}
	return &Compare{Attribute: attr, Path: canonical, Op: op, Value: value}, nil
}

// resolveTopLevel resolves a top-level attribute path, stripping a leading
// schema URI prefix such as "urn:...:User:userName" first.
func (p *parser) resolveTopLevel(path string) (*schema.Attribute, string, bool) {
	lower := strings.ToLower(path)
	for _, uri := range p.rt.SchemaURIs() {
		prefix := strings.ToLower(uri) + ":"
		if strings.HasPrefix(lower, prefix) {
			path = path[len(prefix):]
			break
		}
	}
	attr, canonical := p.rt.AttributeByPath(path)
	if attr == nil {
		return nil, "", false
	}
	return attr, canonical, true
}

func literalValue(tok token) (interface{}, error) {
	switch tok.kind {
	case tokString:
		return tok.value, nil
	case tokNumber:
		if i, err := strconv.ParseInt(tok.text, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number literal %q", tok.text)
		}
		return f, nil
	case tokIdent:
		switch strings.ToLower(tok.text) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null":
			return nil, nil
		}
		return nil, fmt.Errorf("expected a literal value, got %q", tok.text)
	default:
		return nil, fmt.Errorf("expected a literal value, got %q", tok.text)
	}
}

// --- lexer ---

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokInvalid
)

type token struct {
	kind  tokenKind
	text  string
	value string // unescaped string literal
	pos   int
}

type lexer struct {
	input  string
	pos    int
	peeked *token
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) peek() token {
	if l.peeked == nil {
		tok := l.scan()
		l.peeked = &tok
	}
	return *l.peeked
}

func (l *lexer) next() token {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil
		return tok
	}
	return l.scan()
}

// acceptKeyword consumes the next token if it is the given keyword
// (case-insensitive).
func (l *lexer) acceptKeyword(kw string) bool {
	tok := l.peek()
	if tok.kind == tokIdent && strings.EqualFold(tok.text, kw) {
		l.next()
		return true
	}
	return false
}

func (l *lexer) scan() token {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: l.pos}
	}
	start := l.pos
	switch c := l.input[l.pos]; {
	case c == '(':
		l.pos++
		return token{kind: tokLParen, text: "(", pos: start}
	case c == ')':
		l.pos++
		return token{kind: tokRParen, text: ")", pos: start}
	case c == '[':
		l.pos++
		return token{kind: tokLBracket, text: "[", pos: start}
	case c == ']':
		l.pos++
		return token{kind: tokRBracket, text: "]", pos: start}
	case c == '"':
		return l.scanString()
	case c == '-' || (c >= '0' && c <= '9'):
		l.pos++
		for l.pos < len(l.input) && isNumberChar(l.input[l.pos]) {
			l.pos++
		}
		return token{kind: tokNumber, text: l.input[start:l.pos], pos: start}
	case isAttrChar(c):
		l.pos++
		for l.pos < len(l.input) && isAttrChar(l.input[l.pos]) {
			l.pos++
		}
		return token{kind: tokIdent, text: l.input[start:l.pos], pos: start}
	default:
		l.pos++
		return token{kind: tokInvalid, text: string(c), pos: start}
	}
}

func (l *lexer) scanString() token {
	start := l.pos
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch c {
		case '"':
			l.pos++
			return token{kind: tokString, text: l.input[start:l.pos], value: sb.String(), pos: start}
		case '\\':
			l.pos++
			if l.pos >= len(l.input) {
				return token{kind: tokInvalid, text: l.input[start:], pos: start}
			}
			esc := l.input[l.pos]
			l.pos++
			switch esc {
			case '"', '\\', '/':
				sb.WriteByte(esc)
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'u':
				if l.pos+4 > len(l.input) {
					return token{kind: tokInvalid, text: l.input[start:], pos: start}
				}
				code, err := strconv.ParseUint(l.input[l.pos:l.pos+4], 16, 32)
				if err != nil {
					return token{kind: tokInvalid, text: l.input[start:l.pos], pos: start}
				}
				l.pos += 4
				r := rune(code)
				if utf16.IsSurrogate(r) && l.pos+6 <= len(l.input) && l.input[l.pos] == '\\' && l.input[l.pos+1] == 'u' {
					if low, err := strconv.ParseUint(l.input[l.pos+2:l.pos+6], 16, 32); err == nil {
						r = utf16.DecodeRune(r, rune(low))
						l.pos += 6
					}
				}
				sb.WriteRune(r)
			default:
				return token{kind: tokInvalid, text: l.input[start:l.pos], pos: start}
			}
		default:
			sb.WriteByte(c)
			l.pos++
		}
	}
	// unterminated string
	return token{kind: tokInvalid, text: l.input[start:], pos: start}
}

func isAttrChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '.' || c == ':' || c == '-' || c == '_' || c == '$'
}

func isNumberChar(c byte) bool {
	return c >= '0' && c <= '9' || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-'
}
