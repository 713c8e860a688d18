package lexer

import (
	"liveweave/internal/diag"
)

// skipTrivia пропускает пробелы, переводы строк, // и /* */ (с вложенностью).
func (lx *Lexer) skipTrivia() {
	c := &lx.cursor
	for !c.EOF() {
		switch b := c.Peek(); {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			c.Bump()
		case b == '/' && c.PeekAt(1) == '/':
			for !c.EOF() && c.Peek() != '\n' {
				c.Bump()
			}
		case b == '/' && c.PeekAt(1) == '*':
			lx.skipBlockComment()
		default:
			return
		}
	}
}

func (lx *Lexer) skipBlockComment() {
	c := &lx.cursor
	start := c.Mark()
	c.Eat2('/', '*')
	depth := 1
	for !c.EOF() && depth > 0 {
		switch {
		case c.Eat2('/', '*'):
			depth++
		case c.Eat2('*', '/'):
			depth--
		default:
			c.Bump()
		}
	}
	if depth > 0 {
		lx.errLex(diag.LexUnterminatedBlock, c.SpanFrom(start), "unterminated block comment")
	}
}
