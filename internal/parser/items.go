package parser

import (
	"liveweave/internal/diag"
	"liveweave/internal/live"
	"liveweave/internal/token"
)

// parseItems разбирает элементы до closer и пишет их в level подряд.
// Дети каждого элемента пишутся глубже раньше самого элемента, поэтому
// диапазон level остаётся непрерывным.
func (p *Parser) parseItems(level int, closer token.Kind) (start, count uint32) {
	first := p.doc.LevelLen(level)
	for !p.at(closer) && !p.at(token.EOF) && !p.enough() {
		before := p.pos
		if !p.parseItem(level) {
			p.sync(closer)
		}
		for p.eat(token.Comma) || p.eat(token.Semicolon) {
		}
		if p.pos == before {
			// ошибка уже зарепорчена; сдвигаемся, чтобы не зациклиться
			p.advance()
		}
	}
	return uint32(first), uint32(p.doc.LevelLen(level) - first) // #nosec G115 -- bounded by token count
}

func (p *Parser) parseItem(level int) bool {
	switch p.peek().Kind {
	case token.KwUse:
		return p.parseUse(level)
	case token.KwFn:
		// fn name(...) { ... } - ключ берётся из имени функции
		if p.peekAt(1).Kind != token.Ident {
			p.err(diag.SynExpectIdentifier, "expected function name after 'fn'")
			return false
		}
		tok := live.TokenID{Index: uint32(p.pos + 1)} // #nosec G115 -- bounded by token count
		name := p.names.Intern(p.peekAt(1).Text)
		v, ok := p.parseFn()
		if !ok {
			return false
		}
		p.doc.PushNode(level, live.Node{Token: tok, ID: live.Single(name), Value: v})
		return true
	case token.Ident:
	default:
		p.err(diag.SynExpectIdentifier, "expected key, got "+describe(p.peek()))
		return false
	}

	tok := p.tokenID()
	key, ok := p.parseDotted()
	if !ok {
		return false
	}
	if !p.expect(token.Colon, diag.SynExpectColon, "':' after key") {
		return false
	}
	v, ok := p.parseValue(level)
	if !ok {
		return false
	}
	p.doc.PushNode(level, live.Node{Token: tok, ID: key, Value: v})
	return true
}

// parseDotted читает ident ('.' ident)* и возвращает Single или Multi id.
func (p *Parser) parseDotted() (live.Id, bool) {
	if !p.at(token.Ident) {
		p.err(diag.SynExpectIdentifier, "expected identifier, got "+describe(p.peek()))
		return live.Id{}, false
	}
	segs := []live.Id{live.Single(p.names.Intern(p.advance().Text))}
	for p.at(token.Dot) && p.peekAt(1).Kind == token.Ident {
		p.advance()
		segs = append(segs, live.Single(p.names.Intern(p.advance().Text)))
	}
	if len(segs) == 1 {
		return segs[0], true
	}
	return p.doc.AddMulti(segs), true
}

// parseUse разбирает use crate::module::Item, ::*, ::A::b, ::A::*.
// Узел Use хранит модуль в значении и импортируемый путь в ID
// (пустой ID - импорт всего верхнего уровня).
func (p *Parser) parseUse(level int) bool {
	tok := p.tokenID()
	p.advance() // 'use'

	var segs []string
	wildcardAt := -1
	for {
		switch {
		case p.at(token.Ident):
			segs = append(segs, p.advance().Text)
		case p.at(token.Star):
			p.advance()
			if wildcardAt < 0 {
				wildcardAt = len(segs)
			}
			segs = append(segs, "")
		default:
			p.err(diag.SynBadUsePath, "expected path segment in use, got "+describe(p.peek()))
			return false
		}
		if !p.eat(token.ColonColon) {
			break
		}
	}
	if len(segs) < 3 || segs[0] == "" || segs[1] == "" {
		p.err(diag.SynBadUsePath, "use path must be crate::module::item")
		return false
	}
	if wildcardAt >= 0 && wildcardAt != len(segs)-1 {
		p.err(diag.SynWildcardNotLast, "'*' may only end a use path")
		return false
	}

	cm := live.CrateModule{Crate: p.names.Intern(segs[0]), Module: p.names.Intern(segs[1])}
	items := segs[2:]
	var id live.Id
	switch {
	case len(items) == 1 && items[0] == "":
		id = live.Id{}
	case len(items) == 1:
		id = live.Single(p.names.Intern(items[0]))
	default:
		ids := make([]live.Id, len(items))
		for i, s := range items {
			if s != "" {
				ids[i] = live.Single(p.names.Intern(s))
			}
		}
		id = p.doc.AddMulti(ids)
	}
	p.doc.PushNode(level, live.Node{Token: tok, ID: id, Value: live.UseValue(cm)})
	return true
}
