// Package token defines lexical token kinds of the live language.
//
// Token.Text is the exact source slice except for identifiers, which are
// NFC-normalized by the lexer so equal names intern to equal IDs.
package token

import (
	"liveweave/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a scalar literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, ColorLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Opens reports whether the token opens a bracketed group and returns its closer.
func (t Token) Opens() (Kind, bool) {
	switch t.Kind {
	case LParen:
		return RParen, true
	case LBrace:
		return RBrace, true
	case LBracket:
		return RBracket, true
	}
	return Invalid, false
}
