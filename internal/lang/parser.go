package lang

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseError reports malformed table content.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parse reads the pairs of one table.
func Parse(content string) (map[string]string, error) {
	p := parser{src: []rune(content), line: 1}
	out := make(map[string]string)

	for {
		p.skipSpaceAndComments()
		if p.done() {
			return out, nil
		}

		key, err := p.quoted()
		if err != nil {
			return nil, err
		}

		p.skipSpaceAndComments()
		if p.done() || p.src[p.pos] != '=' {
			return nil, p.errorf("expected '=' after key %q", key)
		}
		p.pos++
		p.skipSpaceAndComments()

		var value string
		if p.hasPrefix(`"""`) {
			value, err = p.multiline()
		} else {
			value, err = p.quoted()
		}
		if err != nil {
			return nil, err
		}
		out[key] = cleaned(value)
	}
}

var replacements = strings.NewReplacer(
	"\u2026", "...",
	"\u2019", "'",
	"\u2014", "-",
	"\r\n", "\n",
)

// cleaned swaps typographic characters the terminal fonts often lack.
func cleaned(s string) string {
	return replacements.Replace(s)
}

type parser struct {
	src  []rune
	pos  int
	line int
}

func (p *parser) done() bool {
	return p.pos >= len(p.src)
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) hasPrefix(s string) bool {
	return strings.HasPrefix(string(p.src[p.pos:min(p.pos+len(s), len(p.src))]), s)
}

func (p *parser) advance() rune {
	c := p.src[p.pos]
	if c == '\n' {
		p.line++
	}
	p.pos++
	return c
}

func (p *parser) skipSpaceAndComments() {
	for !p.done() {
		switch {
		case unicode.IsSpace(p.src[p.pos]):
			p.advance()
		case p.hasPrefix("//"):
			for !p.done() && p.src[p.pos] != '\n' {
				p.advance()
			}
		default:
			return
		}
	}
}

func (p *parser) quoted() (string, error) {
	if p.done() || p.src[p.pos] != '"' {
		return "", p.errorf(`expected '"'`)
	}
	start := p.line
	p.advance()

	var b strings.Builder
	for !p.done() {
		c := p.advance()
		switch c {
		case '"':
			return b.String(), nil
		case '\\':
			if p.done() {
				return "", p.errorf("unexpected end of input after escape")
			}
			switch e := p.advance(); e {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			default:
				b.WriteRune(e)
			}
		default:
			b.WriteRune(c)
		}
	}
	return "", &ParseError{Line: start, Msg: "unterminated string"}
}

// multiline reads a """ block. A newline right after the opening quotes and
// one right before the closing quotes are dropped.
func (p *parser) multiline() (string, error) {
	start := p.line
	p.pos += 3
	if !p.done() && p.src[p.pos] == '\n' {
		p.advance()
	}

	var b strings.Builder
	for !p.done() {
		if p.hasPrefix(`"""`) {
			p.pos += 3
			return strings.TrimSuffix(b.String(), "\n"), nil
		}
		b.WriteRune(p.advance())
	}
	return "", &ParseError{Line: start, Msg: "unterminated multiline string"}
}
