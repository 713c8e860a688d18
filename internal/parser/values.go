package parser

import (
	"fmt"
	"strconv"
	"strings"

	"liveweave/internal/diag"
	"liveweave/internal/live"
	"liveweave/internal/token"
)

// parseValue разбирает значение узла уровня level; дети пишутся в level+1.
func (p *Parser) parseValue(level int) (live.Value, bool) {
	t := p.peek()
	switch t.Kind {
	case token.IntLit, token.FloatLit, token.Minus:
		return p.parseNumber()
	case token.KwTrue, token.KwFalse:
		p.advance()
		return live.BoolValue(t.Kind == token.KwTrue), true
	case token.StringLit:
		p.advance()
		s, err := strconv.Unquote(t.Text)
		if err != nil {
			p.pos--
			p.err(diag.LexUnterminatedString, "invalid string literal: "+err.Error())
			p.pos++
			return live.Value{}, false
		}
		return p.doc.AddString(s), true
	case token.ColorLit:
		p.advance()
		return live.ColorValue(parseColor(t.Text[1:])), true
	case token.KwFn:
		return p.parseFn()
	case token.LBrace:
		p.advance()
		return p.parseBody(level, func(start, count uint32) live.Value { return live.ObjectValue(start, count) })
	case token.LBracket:
		p.advance()
		start, count, ok := p.parseList(level, token.RBracket)
		return live.ArrayValue(start, count), ok
	case token.Ident:
		if (t.Text == "vec2" || t.Text == "vec3") && p.peekAt(1).Kind == token.LParen {
			return p.parseVector()
		}
		ref, ok := p.parseDotted()
		if !ok {
			return live.Value{}, false
		}
		switch {
		case p.eat(token.LBrace):
			return p.parseBody(level, func(start, count uint32) live.Value { return live.ClassValue(ref, start, count) })
		case p.eat(token.LParen):
			start, count, ok := p.parseList(level, token.RParen)
			return live.CallValue(ref, start, count), ok
		}
		return live.IdValue(ref), true
	}
	p.err(diag.SynExpectValue, "expected value, got "+describe(t))
	return live.Value{}, false
}

// parseBody разбирает `{ items }` после съеденной '{'.
func (p *Parser) parseBody(level int, mk func(start, count uint32) live.Value) (live.Value, bool) {
	if !p.enter() {
		return live.Value{}, false
	}
	defer p.leave()
	start, count := p.parseItems(level+1, token.RBrace)
	if !p.expect(token.RBrace, diag.SynUnclosedDelimiter, "'}'") {
		return live.Value{}, false
	}
	return mk(start, count), true
}

// parseList разбирает значения через запятую до closer (после съеденной открывающей).
// Элементы массива и аргументы вызова не имеют имён.
func (p *Parser) parseList(level int, closer token.Kind) (start, count uint32, ok bool) {
	if !p.enter() {
		return 0, 0, false
	}
	defer p.leave()
	first := p.doc.LevelLen(level + 1)
	for !p.at(closer) && !p.at(token.EOF) {
		tok := p.tokenID()
		v, ok := p.parseValue(level + 1)
		if !ok {
			return 0, 0, false
		}
		p.doc.PushNode(level+1, live.Node{Token: tok, Value: v})
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.expect(closer, diag.SynUnclosedDelimiter, fmt.Sprintf("'%s'", closerText(closer))) {
		return 0, 0, false
	}
	n := p.doc.LevelLen(level+1) - first
	return uint32(first), uint32(n), true // #nosec G115 -- bounded by token count
}

func closerText(k token.Kind) string {
	switch k {
	case token.RParen:
		return ")"
	case token.RBracket:
		return "]"
	}
	return "}"
}

func (p *Parser) enter() bool {
	if p.depth >= p.opts.MaxDepth {
		p.err(diag.SynUnexpectedToken, fmt.Sprintf("nesting deeper than %d levels", p.opts.MaxDepth))
		return false
	}
	p.depth++
	return true
}

func (p *Parser) leave() { p.depth-- }

func (p *Parser) parseNumber() (live.Value, bool) {
	neg := p.eat(token.Minus)
	t := p.peek()
	switch t.Kind {
	case token.IntLit:
		p.advance()
		text := strings.ReplaceAll(t.Text, "_", "")
		var (
			n   int64
			err error
		)
		if h, ok := strings.CutPrefix(strings.ToLower(text), "0x"); ok {
			n, err = strconv.ParseInt(h, 16, 64)
		} else {
			n, err = strconv.ParseInt(text, 10, 64)
		}
		if err != nil {
			p.pos--
			p.err(diag.LexBadNumber, "integer literal out of range: "+t.Text)
			p.pos++
			return live.Value{}, false
		}
		if neg {
			n = -n
		}
		return live.IntValue(n), true
	case token.FloatLit:
		p.advance()
		f, err := strconv.ParseFloat(strings.ReplaceAll(t.Text, "_", ""), 64)
		if err != nil {
			p.pos--
			p.err(diag.LexBadNumber, "bad float literal: "+t.Text)
			p.pos++
			return live.Value{}, false
		}
		if neg {
			f = -f
		}
		return live.FloatValue(f), true
	}
	p.err(diag.SynExpectValue, "expected number, got "+describe(t))
	return live.Value{}, false
}

// parseVector разбирает vec2(x, y) и vec3(x, y, z) в скалярные значения.
func (p *Parser) parseVector() (live.Value, bool) {
	want := 2
	if p.advance().Text == "vec3" {
		want = 3
	}
	p.advance() // '('
	var xs []float64
	for !p.at(token.RParen) && !p.at(token.EOF) {
		v, ok := p.parseNumber()
		if !ok {
			return live.Value{}, false
		}
		if v.Kind == live.ValInt {
			xs = append(xs, float64(v.Int))
		} else {
			xs = append(xs, v.Float())
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'") {
		return live.Value{}, false
	}
	if len(xs) != want {
		p.pos--
		p.err(diag.SynBadVector, fmt.Sprintf("vec%d needs %d components, got %d", want, want, len(xs)))
		p.pos++
		return live.Value{}, false
	}
	if want == 2 {
		return live.Vec2Value(xs[0], xs[1]), true
	}
	return live.Vec3Value(xs[0], xs[1], xs[2]), true
}

// parseFn захватывает токены от 'fn' до закрывающей '}' тела включительно.
func (p *Parser) parseFn() (live.Value, bool) {
	start := p.pos
	p.advance() // 'fn'
	for !p.at(token.LBrace) {
		if p.at(token.EOF) {
			p.err(diag.SynUnclosedDelimiter, "expected function body")
			return live.Value{}, false
		}
		p.advance()
	}
	depth := 0
	for {
		t := p.advance()
		switch t.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		case token.EOF:
			p.err(diag.SynUnclosedDelimiter, "unclosed function body")
			return live.Value{}, false
		}
		if depth == 0 {
			break
		}
	}
	return live.FnValue(uint32(start), uint32(p.pos-start), 0, 0), true // #nosec G115 -- bounded by token count
}

// parseColor разворачивает #rgb/#rgba/#rrggbb/#rrggbbaa в 0xRRGGBBAA.
func parseColor(hex string) uint32 {
	if len(hex) == 3 || len(hex) == 4 {
		var b strings.Builder
		for _, c := range hex {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		hex = b.String()
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, _ := strconv.ParseUint(hex, 16, 32)
	return uint32(v) // #nosec G115 -- at most 8 hex digits
}
