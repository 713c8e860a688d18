package token

// Kind represents the category of a live token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	KwUse   // use
	KwFn    // fn
	KwTrue  // true
	KwFalse // false

	IntLit
	FloatLit
	StringLit
	ColorLit // #rgb, #rgba, #rrggbb, #rrggbbaa

	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Assign     // =
	EqEq       // ==
	Bang       // !
	BangEq     // !=
	Lt         // <
	LtEq       // <=
	Gt         // >
	GtEq       // >=
	Amp        // &
	Pipe       // |
	Caret      // ^
	AndAnd     // &&
	OrOr       // ||
	Question   // ?
	Colon      // :
	ColonColon // ::
	Semicolon  // ;
	Comma      // ,
	Dot        // .
	Arrow      // ->
	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
	LBracket   // [
	RBracket   // ]
)

var kindNames = [...]string{
	Invalid:    "Invalid",
	EOF:        "EOF",
	Ident:      "Ident",
	KwUse:      "KwUse",
	KwFn:       "KwFn",
	KwTrue:     "KwTrue",
	KwFalse:    "KwFalse",
	IntLit:     "IntLit",
	FloatLit:   "FloatLit",
	StringLit:  "StringLit",
	ColorLit:   "ColorLit",
	Plus:       "Plus",
	Minus:      "Minus",
	Star:       "Star",
	Slash:      "Slash",
	Percent:    "Percent",
	Assign:     "Assign",
	EqEq:       "EqEq",
	Bang:       "Bang",
	BangEq:     "BangEq",
	Lt:         "Lt",
	LtEq:       "LtEq",
	Gt:         "Gt",
	GtEq:       "GtEq",
	Amp:        "Amp",
	Pipe:       "Pipe",
	Caret:      "Caret",
	AndAnd:     "AndAnd",
	OrOr:       "OrOr",
	Question:   "Question",
	Colon:      "Colon",
	ColonColon: "ColonColon",
	Semicolon:  "Semicolon",
	Comma:      "Comma",
	Dot:        "Dot",
	Arrow:      "Arrow",
	LParen:     "LParen",
	RParen:     "RParen",
	LBrace:     "LBrace",
	RBrace:     "RBrace",
	LBracket:   "LBracket",
	RBracket:   "RBracket",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

var keywords = map[string]Kind{
	"use":   KwUse,
	"fn":    KwFn,
	"true":  KwTrue,
	"false": KwFalse,
}

// LookupKeyword возвращает Kind ключевого слова. Регистрозависимо.
func LookupKeyword(s string) (Kind, bool) {
	k, ok := keywords[s]
	return k, ok
}
