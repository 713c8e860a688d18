package lexer

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"liveweave/internal/diag"
	"liveweave/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword сканирует идентификатор и проверяет через LookupKeyword.
// Текст идентификатора приводится к NFC, чтобы одинаковые имена давали один StringID.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	first := true
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if (first && !isIdentStartByte(b)) || !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			first = false
			continue
		}
		r, sz := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
		if r == utf8.RuneError || !(r == '_' || unicode.IsLetter(r) || (!first && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)))) {
			break
		}
		lx.cursor.Off += uint32(sz) // #nosec G115 -- rune size is at most 4
		first = false
	}
	if first {
		// не буква: пусть разберётся сканер операторов
		return lx.scanOperatorOrPunct()
	}

	tok := lx.emit(token.Ident, start)
	tok.Text = norm.NFC.String(tok.Text)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

// Поддержка: 123, 0x1F, 1.5, .5, 1e-3, 2.5E+4. Знак числа разбирает парсер.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' && (lx.cursor.PeekAt(1) == 'x' || lx.cursor.PeekAt(1) == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		n := 0
		for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
			n++
		}
		if n == 0 {
			lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "expected hex digits after '0x'")
			return lx.emit(token.Invalid, start)
		}
		return lx.emit(kind, start)
	}

	lx.digits()
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		kind = token.FloatLit
		lx.cursor.Bump()
		lx.digits()
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		kind = token.FloatLit
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "expected digit after exponent")
			return lx.emit(token.Invalid, start)
		}
		lx.digits()
	}
	return lx.emit(kind, start)
}

func (lx *Lexer) digits() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}

// scanString читает "..." с escape-последовательностями; декодирование делает парсер.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '"':
			lx.cursor.Bump()
			return lx.emit(token.StringLit, start)
		case '\\':
			lx.cursor.Bump()
			lx.cursor.Bump()
		case '\n':
			lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "newline in string literal")
			return lx.emit(token.Invalid, start)
		default:
			lx.cursor.Bump()
		}
	}
	lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated string literal")
	return lx.emit(token.Invalid, start)
}

// scanColor читает #rgb, #rgba, #rrggbb или #rrggbbaa.
func (lx *Lexer) scanColor() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	n := 0
	for isHex(lx.cursor.Peek()) {
		lx.cursor.Bump()
		n++
	}
	switch n {
	case 3, 4, 6, 8:
		return lx.emit(token.ColorLit, start)
	}
	lx.errLex(diag.LexBadColor, lx.cursor.SpanFrom(start), "color literal needs 3, 4, 6 or 8 hex digits")
	return lx.emit(token.Invalid, start)
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	c := &lx.cursor
	switch {
	case c.Eat2(':', ':'):
		return lx.emit(token.ColonColon, start)
	case c.Eat2('-', '>'):
		return lx.emit(token.Arrow, start)
	case c.Eat2('&', '&'):
		return lx.emit(token.AndAnd, start)
	case c.Eat2('|', '|'):
		return lx.emit(token.OrOr, start)
	case c.Eat2('=', '='):
		return lx.emit(token.EqEq, start)
	case c.Eat2('!', '='):
		return lx.emit(token.BangEq, start)
	case c.Eat2('<', '='):
		return lx.emit(token.LtEq, start)
	case c.Eat2('>', '='):
		return lx.emit(token.GtEq, start)
	}

	if k, ok := singleByteOps[c.Peek()]; ok {
		c.Bump()
		return lx.emit(k, start)
	}

	// неизвестный символ: съедаем целую руну
	_, sz := utf8.DecodeRune(lx.file.Content[c.Off:])
	c.Off += uint32(max(sz, 1)) // #nosec G115 -- rune size is at most 4
	lx.errLex(diag.LexUnknownChar, c.SpanFrom(start), "unknown character")
	return lx.emit(token.Invalid, start)
}

var singleByteOps = map[byte]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'=': token.Assign,
	'!': token.Bang,
	'<': token.Lt,
	'>': token.Gt,
	'&': token.Amp,
	'|': token.Pipe,
	'^': token.Caret,
	'?': token.Question,
	':': token.Colon,
	';': token.Semicolon,
	',': token.Comma,
	'.': token.Dot,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return isDec(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
