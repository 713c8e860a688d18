// Package parser turns live source text into a raw live.Document.
//
// The grammar is small: a document is a list of items, an item is either a
// `use` statement or `key: value`. Values are scalars, strings, colors,
// vectors, identifier paths, class bodies (`Base { ... }`), calls
// (`target(args)`), objects (`{ ... }`), arrays (`[ ... ]`) and `fn` bodies,
// which are kept as raw token ranges.
package parser

import (
	"errors"
	"fmt"

	"liveweave/internal/diag"
	"liveweave/internal/lexer"
	"liveweave/internal/live"
	"liveweave/internal/source"
	"liveweave/internal/token"
)

// ErrParse marks a source that failed to lex or parse.
var ErrParse = errors.New("parse failed")

// Error carries the diagnostics of a failed parse.
type Error struct {
	Path        string
	Diagnostics []diag.Diagnostic
}

func (e *Error) Error() string {
	if len(e.Diagnostics) == 0 {
		return fmt.Sprintf("%s: %v", e.Path, ErrParse)
	}
	return fmt.Sprintf("%s: %v: %s (%d diagnostics)", e.Path, ErrParse, e.Diagnostics[0].Message, len(e.Diagnostics))
}

func (e *Error) Unwrap() error { return ErrParse }

const defaultMaxDepth = 128

type Options struct {
	Reporter  diag.Reporter // получает все диагностики; может быть nil
	MaxDepth  int           // максимальная вложенность тел; 0 - по умолчанию
	MaxErrors int           // после стольких ошибок разбор прекращается; 0 - без лимита
}

// Parser - состояние парсера на один файл
type Parser struct {
	file  *source.File
	names *source.Interner
	toks  []token.Token
	pos   int
	doc   *live.Document
	opts  Options
	bag   *diag.Bag
	depth int
}

// Parse lexes and parses f. On any lexical or syntax error it returns a nil
// document and an *Error wrapping ErrParse.
func Parse(f *source.File, names *source.Interner, opts Options) (*live.Document, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	bag := diag.NewBag(0)
	var rep diag.Reporter = diag.BagReporter{Bag: bag}
	if opts.Reporter != nil {
		rep = teeReporter{bag: bag, next: opts.Reporter}
	}

	toks, _ := lexer.Tokenize(f, lexer.Options{Reporter: rep})
	p := &Parser{
		file:  f,
		names: names,
		toks:  toks,
		doc:   live.NewDocument(),
		opts:  opts,
		bag:   bag,
	}
	p.doc.Tokens = toks
	p.doc.Recompile = true

	if !bag.HasErrors() {
		p.parseItems(0, token.EOF)
	}
	if bag.HasErrors() {
		return nil, &Error{Path: f.Path, Diagnostics: bag.Items()}
	}
	return p.doc, nil
}

type teeReporter struct {
	bag  *diag.Bag
	next diag.Reporter
}

func (r teeReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	diag.BagReporter{Bag: r.bag}.Report(code, sev, primary, msg, notes)
	r.next.Report(code, sev, primary, msg, notes)
}

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

// advance - съедает токен; EOF не съедается никогда
func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) tokenID() live.TokenID {
	return live.TokenID{Index: uint32(p.pos)} // #nosec G115 -- token count is bounded by file size
}

func (p *Parser) err(code diag.Code, msg string) {
	diag.ReportError(diag.BagReporter{Bag: p.bag}, code, p.peek().Span, msg).Emit()
	if p.opts.Reporter != nil {
		diag.ReportError(p.opts.Reporter, code, p.peek().Span, msg).Emit()
	}
}

func (p *Parser) enough() bool {
	return p.opts.MaxErrors > 0 && p.bag.Len() >= p.opts.MaxErrors
}

func (p *Parser) expect(k token.Kind, code diag.Code, what string) bool {
	if p.eat(k) {
		return true
	}
	p.err(code, fmt.Sprintf("expected %s, got %s", what, describe(p.peek())))
	return false
}

func describe(t token.Token) string {
	if t.Kind == token.EOF {
		return "end of file"
	}
	return fmt.Sprintf("'%s'", t.Text)
}

// sync пропускает токены до ',' ';' или закрывающей скобки текущего уровня.
func (p *Parser) sync(closer token.Kind) {
	depth := 0
	for !p.at(token.EOF) {
		t := p.peek()
		if depth == 0 && (t.Kind == closer || t.Kind == token.Comma || t.Kind == token.Semicolon) {
			if t.Kind != closer {
				p.advance()
			}
			return
		}
		if _, ok := t.Opens(); ok {
			depth++
		} else if t.Kind == token.RParen || t.Kind == token.RBrace || t.Kind == token.RBracket {
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}
