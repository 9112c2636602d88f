package lexer

import "errors"

// Fatal scan errors. These abort the entire pass: no recovery target
// exists for either condition.
var (
	ErrUnterminatedComment = errors.New("block comment is not terminated")
	ErrInvalidEncoding     = errors.New("source is not valid UTF-8")
)
