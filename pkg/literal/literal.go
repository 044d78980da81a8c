// Package literal evaluates the restricted literal grammar accepted on the
// right-hand side of configuration assignments: integers, floats, quoted
// strings, True/False/None, and bracketed list or tuple literals of the same,
// nested to any depth. It is a pure function over the input text; no names
// are resolved and no arbitrary expressions are executed.
package literal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrEval is the root of all literal evaluation failures.
var ErrEval = errors.New("invalid literal expression")

// Eval parses text as a single literal expression and returns its value.
// Integers become int64, floats float64, strings string, booleans bool,
// None nil, and list/tuple literals []any.
func Eval(text string) (any, error) {
	p := &parser{input: text}
	p.skipSpace()
	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, fmt.Errorf("%w: trailing input at offset %d in %q", ErrEval, p.pos, text)
	}
	return value, nil
}

// LooksBare reports whether text resembles an unquoted bare word: a value
// whose surrounding quote marks a shell stripped away. Such text carries no
// quote or bracket characters, so a parse failure can safely fall back to
// treating the whole text as one opaque string.
func LooksBare(text string) bool {
	return !strings.ContainsAny(text, `'"[]()`)
}

type parser struct {
	input string
	pos   int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.input[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

func (p *parser) parseValue() (any, error) {
	if p.eof() {
		return nil, fmt.Errorf("%w: empty expression", ErrEval)
	}
	switch ch := p.peek(); {
	case ch == '\'' || ch == '"':
		return p.parseString()
	case ch == '[':
		return p.parseSequence('[', ']')
	case ch == '(':
		return p.parseSequence('(', ')')
	case ch == '+' || ch == '-' || ch == '.' || ch >= '0' && ch <= '9':
		return p.parseNumber()
	default:
		return p.parseKeyword()
	}
}

func (p *parser) parseKeyword() (any, error) {
	start := p.pos
	for !p.eof() && isWordByte(p.peek()) {
		p.pos++
	}
	word := p.input[start:p.pos]
	switch word {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	case "":
		return nil, fmt.Errorf("%w: unexpected character %q at offset %d", ErrEval, p.input[start], start)
	default:
		return nil, fmt.Errorf("%w: unknown name %q", ErrEval, word)
	}
}

func isWordByte(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9'
}

func (p *parser) parseNumber() (any, error) {
	start := p.pos
	if ch := p.peek(); ch == '+' || ch == '-' {
		p.pos++
	}
	isFloat := false
	for !p.eof() {
		switch ch := p.peek(); {
		case ch >= '0' && ch <= '9' || isWordByte(ch):
			p.pos++
		case ch == '.':
			isFloat = true
			p.pos++
		case (ch == '+' || ch == '-') && p.pos > start && (p.input[p.pos-1] == 'e' || p.input[p.pos-1] == 'E'):
			isFloat = true
			p.pos++
		default:
			goto done
		}
	}
done:
	text := p.input[start:p.pos]
	if !isFloat {
		if value, err := strconv.ParseInt(text, 0, 64); err == nil {
			return value, nil
		}
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed number %q", ErrEval, text)
	}
	return value, nil
}

func (p *parser) parseString() (any, error) {
	quote := p.peek()
	p.pos++
	var b strings.Builder
	for !p.eof() {
		ch := p.input[p.pos]
		switch ch {
		case quote:
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.eof() {
				return nil, fmt.Errorf("%w: unterminated escape", ErrEval)
			}
			b.WriteString(unescape(p.input[p.pos]))
			p.pos++
		default:
			b.WriteByte(ch)
			p.pos++
		}
	}
	return nil, fmt.Errorf("%w: unterminated string literal", ErrEval)
}

func unescape(ch byte) string {
	switch ch {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '\\', '\'', '"':
		return string(ch)
	default:
		// Unknown escapes keep the backslash, as the source text wrote it.
		return "\\" + string(ch)
	}
}

func (p *parser) parseSequence(open, close byte) (any, error) {
	p.pos++ // consume open
	items := []any{}
	for {
		p.skipSpace()
		if p.eof() {
			return nil, fmt.Errorf("%w: unterminated %q literal", ErrEval, string(open))
		}
		if p.peek() == close {
			p.pos++
			return items, nil
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, value)
		p.skipSpace()
		switch {
		case p.eof():
			return nil, fmt.Errorf("%w: unterminated %q literal", ErrEval, string(open))
		case p.peek() == ',':
			p.pos++
		case p.peek() == close:
			// terminator handled on the next pass
		default:
			return nil, fmt.Errorf("%w: expected ',' or %q at offset %d", ErrEval, string(close), p.pos)
		}
	}
}
