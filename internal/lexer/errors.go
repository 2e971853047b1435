package lexer

import "fmt"

// ErrorKind classifies lexical failures.
type ErrorKind uint8

const (
	// SourceTooLarge: the text does not fit the 32-bit offset range.
	SourceTooLarge ErrorKind = iota + 1
	// TokenTooLarge: a token is longer than 64 KiB.
	TokenTooLarge
	// InvalidToken: bytes that start no token, or an unterminated literal/comment.
	InvalidToken
)

// Error is a lexical failure with its in-file byte range.
type Error struct {
	Kind       ErrorKind
	Start, End uint32
}

// Message returns the human-readable description of the failure.
func (e *Error) Message() string {
	switch e.Kind {
	case SourceTooLarge:
		return "file size exceeds 4 GiB limit"
	case TokenTooLarge:
		return "token size exceeds 64 KiB limit"
	case InvalidToken:
		return "invalid token"
	default:
		return "lexical error"
	}
}

// ByteRange returns the offending byte range.
func (e *Error) ByteRange() (start, end uint32) { return e.Start, e.End }

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %d..%d", e.Message(), e.Start, e.End)
}
