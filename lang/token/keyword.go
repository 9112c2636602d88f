package token

// keywords maps reserved words to their kinds. The set is closed: every
// entry is reserved and may not be used as an identifier.
//
// The aliases "and" and "or" are normalized at the lexical boundary into the
// canonical operator kinds so the parser has one identity per operation.
var keywords = map[string]Kind{
	"let":      KwLet,
	"var":      KwVar,
	"fn":       KwFn,
	"data":     KwData,
	"extern":   KwExtern,
	"module":   KwModule,
	"import":   KwImport,
	"macro":    KwMacro,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"for":      KwFor,
	"in":       KwIn,
	"match":    KwMatch,
	"return":   KwReturn,
	"break":    KwBreak,
	"continue": KwContinue,
	"async":    KwAsync,
	"await":    KwAwait,
	"true":     KwTrue,
	"false":    KwFalse,

	"and": AndAnd,
	"or":  OrOr,
}

// Lookup returns the token kind for an identifier spelling: a keyword or
// operator-alias kind when reserved, Ident otherwise.
func Lookup(name string) Kind {
	if kind, ok := keywords[name]; ok {
		return kind
	}

	return Ident
}

// Keywords returns the reserved words in no particular order, used for
// fuzzy "did you mean" suggestions and completion.
func Keywords() []string {
	names := make([]string, 0, len(keywords))
	for name := range keywords {
		names = append(names, name)
	}

	return names
}
