// Package lang is the front end for the slate language: a scanner, a
// statement parser with a Pratt expression engine, and a bounded
// disambiguator, producing a syntax tree plus an ordered diagnostic list.
//
// Slate sources mix two block styles freely. A block is either brace
// delimited or indentation delimited, chosen independently at every
// nesting level:
//
//	fn clamp(x: Int, lo: Int, hi: Int) -> Int {
//	    if x < lo { return lo }
//	    if x > hi
//	        return hi
//	    return x
//	}
//
// Newlines terminate statements unless the line cannot be complete: an
// open bracket, a trailing operator, or a leading "." on the next line
// all continue the statement. Semicolons always terminate.
//
// # Entry points
//
// [ParseString], [ParseBytes], and [ParseReader] run the whole pipeline
// and return a [Result] holding the file, its diagnostics, and
// optionally the token stream. Recoverable problems never abort the
// parse; they accumulate as [diag.Diagnostic] values and the tree marks
// recovered regions with Bad nodes. Only fatal conditions (invalid
// UTF-8, an unterminated block comment, unreadable input) surface as an
// error.
//
// [NewSource] and [NewSourceFromString] provide a cached variant keyed
// by a hash of the source text, so tooling that re-parses the same
// buffer (formatters, REPLs) pays for the parse once.
package lang
