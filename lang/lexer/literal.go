package lexer

import (
	"strconv"
	"strings"

	"github.com/ardnew/slate/lang/diag"
	"github.com/ardnew/slate/lang/token"
)

// scanNumber scans an integer or float literal. Underscores are digit
// separators and carry no value. A leading zero never implies octal; the
// 0o prefix is required.
func (s *Scanner) scanNumber() token.Token {
	start := s.here()

	if s.ch == '0' {
		switch s.peek() {
		case 'x', 'X':
			return s.scanRadix(start, 16, isHexDigit)
		case 'o', 'O':
			return s.scanRadix(start, 8, func(r rune) bool {
				return r >= '0' && r <= '7'
			})
		case 'b', 'B':
			return s.scanRadix(start, 2, func(r rune) bool {
				return r == '0' || r == '1'
			})
		}
	}

	s.digits(isDigit)

	isFloat := false

	// A fractional part requires a digit after the dot; "1..3" is a
	// range and "x.y" member access never reaches here.
	if s.ch == '.' && isDigit(s.peek()) {
		isFloat = true

		s.advance()
		s.digits(isDigit)
	}

	if s.ch == 'e' || s.ch == 'E' {
		isFloat = true

		s.advance()

		if s.ch == '+' || s.ch == '-' {
			s.advance()
		}

		if !isDigit(s.ch) {
			return s.numberError(start, "exponent has no digits")
		}

		s.digits(isDigit)
	}

	if isIdentStart(s.ch) {
		return s.numberError(start,
			"identifier character immediately follows numeric literal")
	}

	span := s.spanFrom(start)
	text := s.lexeme(span)
	clean := strings.ReplaceAll(text, "_", "")

	if isFloat {
		v, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return s.numberError(start, "malformed float literal")
		}

		return token.Token{
			Kind:   token.Float,
			Lexeme: text,
			Value:  v,
			Span:   span,
		}
	}

	v, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return s.numberError(start, "integer literal out of range")
	}

	return token.Token{
		Kind:   token.Int,
		Lexeme: text,
		Value:  v,
		Span:   span,
	}
}

// scanRadix scans a prefixed integer literal (0x, 0o, 0b).
func (s *Scanner) scanRadix(
	start token.Pos,
	base int,
	valid func(rune) bool,
) token.Token {
	s.advance() // 0
	s.advance() // x, o, or b

	if !valid(s.ch) {
		return s.numberError(start, "numeric literal has no digits")
	}

	s.digits(valid)

	if isIdentStart(s.ch) || isDigit(s.ch) {
		return s.numberError(start,
			"invalid digit for numeric literal base")
	}

	span := s.spanFrom(start)
	text := s.lexeme(span)
	clean := strings.ReplaceAll(text[2:], "_", "")

	v, err := strconv.ParseUint(clean, base, 64)
	if err != nil {
		return s.numberError(start, "integer literal out of range")
	}

	return token.Token{
		Kind:   token.Int,
		Lexeme: text,
		Value:  int64(v),
		Span:   span,
	}
}

// digits consumes a run of digits and underscore separators.
func (s *Scanner) digits(valid func(rune) bool) {
	for valid(s.ch) || s.ch == '_' {
		s.advance()
	}
}

// numberError consumes the remainder of the malformed literal, reports
// E010, and yields a zero-valued Int token so parsing can continue.
func (s *Scanner) numberError(start token.Pos, msg string) token.Token {
	for isIdentContinue(s.ch) || isDigit(s.ch) || s.ch == '.' {
		s.advance()
	}

	span := s.spanFrom(start)

	s.diags.Add(diag.Diagnostic{
		Code:     diag.InvalidNumber,
		Severity: diag.SeverityError,
		Span:     span,
		Message:  msg,
		Recovery: diag.RecoverNone,
	})

	return token.Token{
		Kind:   token.Int,
		Lexeme: s.lexeme(span),
		Value:  int64(0),
		Span:   span,
	}
}

// ----------------------------------------------------------------------
// Strings

// scanString scans a double-quoted string literal from its opening quote,
// or continues a suspended interpolated string when continued is true.
//
// On reaching an interpolation brace the scanner emits a StrBegin/StrMid
// segment and switches into expression tokenization; the matching close
// brace resumes string scanning (see scanOperator).
func (s *Scanner) scanString(continued bool) token.Token {
	start := s.here()
	quote := start

	if continued {
		// start is at the closing brace of the interpolation span.
		quote = s.modes[len(s.modes)-1].quote
		s.modes = s.modes[:len(s.modes)-1]
	}

	s.advance() // opening quote or closing brace

	var text strings.Builder

	for {
		switch {
		case s.eof() || s.ch == '\n':
			s.diags.Add(diag.Diagnostic{
				Code:     diag.UnterminatedString,
				Severity: diag.SeverityError,
				Span:     token.Span{Start: quote, End: s.here()},
				Message:  "string literal is not terminated",
				Fix:      `add a closing "`,
				Recovery: diag.RecoverNextQuote,
			})

			return s.stringToken(continued, false, start, text.String())

		case s.ch == '"':
			s.advance()

			return s.stringToken(continued, false, start, text.String())

		case s.ch == '{':
			if len(s.modes) >= maxInterpDepth {
				s.interpError(quote,
					"string interpolation nested too deeply")
				s.skipToQuote()

				return s.stringToken(continued, false, start,
					text.String())
			}

			s.modes = append(s.modes, interpState{quote: quote})
			s.advance()

			return s.stringToken(continued, true, start, text.String())

		case s.ch == '\\':
			s.escape(&text)

		default:
			text.WriteRune(s.ch)
			s.advance()
		}
	}
}

// stringToken selects the segment kind from the surrounding context:
// a plain Str, or the begin/mid/end segment of an interpolated string.
func (s *Scanner) stringToken(
	continued, open bool,
	start token.Pos,
	text string,
) token.Token {
	kind := token.Str

	switch {
	case !continued && open:
		kind = token.StrBegin
	case continued && open:
		kind = token.StrMid
	case continued && !open:
		kind = token.StrEnd
	}

	span := s.spanFrom(start)

	return token.Token{
		Kind:   kind,
		Lexeme: s.lexeme(span),
		Value:  text,
		Span:   span,
	}
}

// escape decodes one escape sequence into text, reporting malformed
// sequences without aborting the string.
func (s *Scanner) escape(text *strings.Builder) {
	start := s.here()

	s.advance() // backslash

	switch s.ch {
	case '\\':
		text.WriteByte('\\')
	case '"':
		text.WriteByte('"')
	case '\'':
		text.WriteByte('\'')
	case 'n':
		text.WriteByte('\n')
	case 'r':
		text.WriteByte('\r')
	case 't':
		text.WriteByte('\t')
	case '0':
		text.WriteByte(0)
	case 'u':
		s.advance()
		s.unicodeEscape(start, text)

		return
	default:
		s.escapeError(start, "unknown escape sequence")

		if !s.eof() && s.ch != '\n' {
			text.WriteRune(s.ch)
		}
	}

	if !s.eof() && s.ch != '\n' {
		s.advance()
	}
}

// unicodeEscape decodes \u{h...h} with one to six hex digits.
func (s *Scanner) unicodeEscape(start token.Pos, text *strings.Builder) {
	if s.ch != '{' {
		s.escapeError(start, `\u escape requires braced hex digits`)

		return
	}

	s.advance()

	var digits strings.Builder

	for isHexDigit(s.ch) {
		digits.WriteRune(s.ch)
		s.advance()
	}

	if s.ch != '}' || digits.Len() == 0 || digits.Len() > 6 {
		s.escapeError(start, `\u escape requires 1 to 6 hex digits`)

		if s.ch == '}' {
			s.advance()
		}

		return
	}

	s.advance()

	v, err := strconv.ParseUint(digits.String(), 16, 32)
	if err != nil || v > 0x10FFFF {
		s.escapeError(start, `\u escape is not a valid code point`)

		return
	}

	text.WriteRune(rune(v))
}

func (s *Scanner) escapeError(start token.Pos, msg string) {
	s.diags.Add(diag.Diagnostic{
		Code:     diag.InvalidEscape,
		Severity: diag.SeverityError,
		Span:     s.spanFrom(start),
		Message:  msg,
		Recovery: diag.RecoverNone,
	})
}

func (s *Scanner) interpError(quote token.Pos, msg string) {
	s.diags.Add(diag.Diagnostic{
		Code:     diag.InvalidInterpolation,
		Severity: diag.SeverityError,
		Span:     token.Span{Start: quote, End: s.here()},
		Message:  msg,
		Recovery: diag.RecoverNextQuote,
	})
}

// skipToQuote abandons string content through the next closing quote or
// end of line.
func (s *Scanner) skipToQuote() {
	for !s.eof() && s.ch != '"' && s.ch != '\n' {
		s.advance()
	}

	if s.ch == '"' {
		s.advance()
	}
}
