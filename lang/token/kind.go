package token

// Kind identifies the lexical class of a token.
type Kind uint8

const (
	// EOF marks the end of the token stream.
	EOF Kind = iota

	// Illegal marks input that could not be tokenized.
	Illegal

	// Newline is a physical line break outside any string or comment.
	// Whether it terminates a statement is decided by the parser's
	// terminator resolver, not by the scanner.
	Newline

	// Indent marks entry into an indentation-defined block.
	Indent

	// Dedent marks exit from an indentation-defined block.
	Dedent

	// Ident is an identifier (Unicode ID_Start ID_Continue*).
	Ident

	// Int is an integer literal in decimal, hex, octal, or binary form.
	Int

	// Float is a floating-point literal.
	Float

	// Str is a string literal with no interpolation.
	Str

	// StrBegin is the text of an interpolated string up to its first
	// opening brace. The tokens of the embedded expression follow, then
	// StrMid or StrEnd.
	StrBegin

	// StrMid is interior text between two interpolation spans.
	StrMid

	// StrEnd is the text from the final interpolation span to the closing
	// quote.
	StrEnd

	// Keywords.
	KwLet
	KwVar
	KwFn
	KwData
	KwExtern
	KwModule
	KwImport
	KwMacro
	KwIf
	KwElse
	KwWhile
	KwFor
	KwIn
	KwMatch
	KwReturn
	KwBreak
	KwContinue
	KwAsync
	KwAwait
	KwTrue
	KwFalse

	// Punctuation and operators.
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Comma
	Dot
	Colon
	ColonColon
	Semicolon
	Arrow     // ->
	FatArrow  // =>
	Question  // ?
	Coalesce  // ??
	Bang      // !
	Plus
	Minus
	Star
	Slash
	Percent
	Amp
	Pipe
	Caret
	Tilde
	Shl // <<
	Shr // >>
	Lt
	Gt
	LtEq
	GtEq
	EqEq
	NotEq
	AndAnd // also produced for the keyword alias "and"
	OrOr   // also produced for the keyword alias "or"
	DotDot
	DotDotEq
	Assign
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	AmpAssign
	PipeAssign
	CaretAssign
	ShlAssign
	ShrAssign

	kindCount
)

var kindName = [kindCount]string{
	EOF:      "eof",
	Illegal:  "illegal",
	Newline:  "newline",
	Indent:   "indent",
	Dedent:   "dedent",
	Ident:    "identifier",
	Int:      "int",
	Float:    "float",
	Str:      "string",
	StrBegin: "string-begin",
	StrMid:   "string-mid",
	StrEnd:   "string-end",

	KwLet:      "let",
	KwVar:      "var",
	KwFn:       "fn",
	KwData:     "data",
	KwExtern:   "extern",
	KwModule:   "module",
	KwImport:   "import",
	KwMacro:    "macro",
	KwIf:       "if",
	KwElse:     "else",
	KwWhile:    "while",
	KwFor:      "for",
	KwIn:       "in",
	KwMatch:    "match",
	KwReturn:   "return",
	KwBreak:    "break",
	KwContinue: "continue",
	KwAsync:    "async",
	KwAwait:    "await",
	KwTrue:     "true",
	KwFalse:    "false",

	LParen:        "(",
	RParen:        ")",
	LBracket:      "[",
	RBracket:      "]",
	LBrace:        "{",
	RBrace:        "}",
	Comma:         ",",
	Dot:           ".",
	Colon:         ":",
	ColonColon:    "::",
	Semicolon:     ";",
	Arrow:         "->",
	FatArrow:      "=>",
	Question:      "?",
	Coalesce:      "??",
	Bang:          "!",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	Amp:           "&",
	Pipe:          "|",
	Caret:         "^",
	Tilde:         "~",
	Shl:           "<<",
	Shr:           ">>",
	Lt:            "<",
	Gt:            ">",
	LtEq:          "<=",
	GtEq:          ">=",
	EqEq:          "==",
	NotEq:         "!=",
	AndAnd:        "&&",
	OrOr:          "||",
	DotDot:        "..",
	DotDotEq:      "..=",
	Assign:        "=",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	StarAssign:    "*=",
	SlashAssign:   "/=",
	PercentAssign: "%=",
	AmpAssign:     "&=",
	PipeAssign:    "|=",
	CaretAssign:   "^=",
	ShlAssign:     "<<=",
	ShrAssign:     ">>=",
}

// String returns the canonical spelling of the kind, or its class name for
// kinds without a fixed spelling.
func (k Kind) String() string {
	if int(k) < len(kindName) && kindName[k] != "" {
		return kindName[k]
	}

	return "unknown"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwLet && k <= KwFalse
}

// IsLiteral reports whether k is a literal or string-segment kind.
func (k Kind) IsLiteral() bool {
	switch k {
	case Int, Float, Str, StrBegin, StrMid, StrEnd, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsAssign reports whether k is an assignment operator.
func (k Kind) IsAssign() bool {
	return k >= Assign && k <= ShrAssign
}

// IsComparison reports whether k is one of the non-associative comparison
// operators.
func (k Kind) IsComparison() bool {
	switch k {
	case EqEq, NotEq, Lt, LtEq, Gt, GtEq:
		return true
	default:
		return false
	}
}

// IsRange reports whether k is a range operator.
func (k Kind) IsRange() bool {
	return k == DotDot || k == DotDotEq
}

// OpensBracket reports whether k opens a bracket pair tracked by the
// terminator resolver.
func (k Kind) OpensBracket() bool {
	return k == LParen || k == LBracket || k == LBrace
}

// ClosesBracket reports whether k closes a bracket pair tracked by the
// terminator resolver.
func (k Kind) ClosesBracket() bool {
	return k == RParen || k == RBracket || k == RBrace
}

// Keywords whose presence at the end of a line signals an incomplete
// construct, so a following newline never terminates the statement.
var continuationKeyword = map[Kind]bool{
	KwAsync: true,
	KwFn:    true,
	KwLet:   true,
	KwVar:   true,
	KwData:  true,
	KwMatch: true,
}

// ContinuesLine reports whether a newline immediately after a token of this
// kind must be treated as insignificant whitespace: the token cannot end a
// statement because it still expects an operand or a construct body.
func (k Kind) ContinuesLine() bool {
	if k.OpensBracket() || continuationKeyword[k] {
		return true
	}

	switch k {
	case Comma, Dot, Colon, ColonColon, Arrow, FatArrow,
		Plus, Minus, Star, Slash, Percent,
		Amp, Pipe, Caret, Tilde, Shl, Shr,
		Lt, Gt, LtEq, GtEq, EqEq, NotEq,
		AndAnd, OrOr, Coalesce, Bang,
		DotDot, DotDotEq:
		return true
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign,
		PercentAssign, AmpAssign, PipeAssign, CaretAssign,
		ShlAssign, ShrAssign:
		return true
	default:
		return false
	}
}
