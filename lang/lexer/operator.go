package lexer

import (
	"fmt"

	"github.com/ardnew/slate/lang/diag"
	"github.com/ardnew/slate/lang/token"
)

// opEntry is one row of the maximal-munch operator table: candidate
// spellings for a leading character, longest first.
type opEntry struct {
	text string
	kind token.Kind
}

// operators maps a leading character to its candidate spellings, ordered
// longest first so the scanner always prefers the longest match (e.g.
// ">>=" over ">>" over ">").
var operators = map[rune][]opEntry{
	'+': {{"+=", token.PlusAssign}, {"+", token.Plus}},
	'-': {{"->", token.Arrow}, {"-=", token.MinusAssign}, {"-", token.Minus}},
	'*': {{"*=", token.StarAssign}, {"*", token.Star}},
	'/': {{"/=", token.SlashAssign}, {"/", token.Slash}},
	'%': {{"%=", token.PercentAssign}, {"%", token.Percent}},
	'&': {{"&&", token.AndAnd}, {"&=", token.AmpAssign}, {"&", token.Amp}},
	'|': {{"||", token.OrOr}, {"|=", token.PipeAssign}, {"|", token.Pipe}},
	'^': {{"^=", token.CaretAssign}, {"^", token.Caret}},
	'~': {{"~", token.Tilde}},
	'<': {
		{"<<=", token.ShlAssign},
		{"<<", token.Shl},
		{"<=", token.LtEq},
		{"<", token.Lt},
	},
	'>': {
		{">>=", token.ShrAssign},
		{">>", token.Shr},
		{">=", token.GtEq},
		{">", token.Gt},
	},
	'=': {{"==", token.EqEq}, {"=>", token.FatArrow}, {"=", token.Assign}},
	'!': {{"!=", token.NotEq}, {"!", token.Bang}},
	'?': {{"??", token.Coalesce}, {"?", token.Question}},
	'.': {{"..=", token.DotDotEq}, {"..", token.DotDot}, {".", token.Dot}},
	':': {{"::", token.ColonColon}, {":", token.Colon}},
	',': {{",", token.Comma}},
	';': {{";", token.Semicolon}},
	'(': {{"(", token.LParen}},
	')': {{")", token.RParen}},
	'[': {{"[", token.LBracket}},
	']': {{"]", token.RBracket}},
	'{': {{"{", token.LBrace}},
	'}': {{"}", token.RBrace}},
}

// scanOperator scans punctuation and operators by maximal munch, and
// maintains the bracket depth and interpolation mode bookkeeping that
// hangs off delimiter tokens.
func (s *Scanner) scanOperator() (token.Token, bool) {
	// A close brace at interpolation depth zero resumes the suspended
	// string literal rather than producing a token.
	if s.ch == '}' && len(s.modes) > 0 &&
		s.modes[len(s.modes)-1].braceDepth == 0 {
		return s.scanString(true), true
	}

	entries, ok := operators[s.ch]
	if !ok {
		start := s.here()
		bad := s.ch

		s.advance()

		s.diags.Add(diag.Diagnostic{
			Code:     diag.InvalidOperator,
			Severity: diag.SeverityError,
			Span:     s.spanFrom(start),
			Message:  fmt.Sprintf("unrecognized character %q", bad),
			Recovery: diag.RecoverNone,
		})

		return token.Token{
			Kind:   token.Illegal,
			Lexeme: string(bad),
			Span:   s.spanFrom(start),
		}, true
	}

	start := s.here()

	var match opEntry

	for _, e := range entries {
		if s.matches(e.text) {
			match = e

			break
		}
	}

	for range len(match.text) {
		s.advance()
	}

	switch match.kind {
	case token.LParen, token.LBracket:
		s.brackets++
	case token.RParen, token.RBracket:
		if s.brackets > 0 {
			s.brackets--
		}
	case token.LBrace:
		if len(s.modes) > 0 {
			s.modes[len(s.modes)-1].braceDepth++
		}
	case token.RBrace:
		if len(s.modes) > 0 {
			s.modes[len(s.modes)-1].braceDepth--
		}
	}

	return token.Token{
		Kind:   match.kind,
		Lexeme: match.text,
		Span:   s.spanFrom(start),
	}, true
}

// matches reports whether the upcoming input spells text exactly.
func (s *Scanner) matches(text string) bool {
	switch len(text) {
	case 1:
		return s.ch == rune(text[0])
	case 2:
		return s.ch == rune(text[0]) && s.peek() == rune(text[1])
	default:
		return s.ch == rune(text[0]) &&
			s.peek() == rune(text[1]) &&
			s.peek2() == rune(text[2])
	}
}
