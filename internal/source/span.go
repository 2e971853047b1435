package source

import (
	"fmt"
)

// Span is a half-open byte range in the shared code buffer.
// Both ends belong to the same file.
type Span struct {
	Start Loc // включительно
	End   Loc // не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return uint32(s.End - s.Start)
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}
