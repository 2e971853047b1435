package tree

import (
	"modtree/internal/event"
	"modtree/internal/parser"
)

// Frontend turns file text into a token list and a step stream.
type Frontend interface {
	Parse(src []byte) (event.Tokens, event.Stream, error)
}

// FrontendFunc adapts a function to Frontend.
type FrontendFunc func(src []byte) (event.Tokens, event.Stream, error)

func (f FrontendFunc) Parse(src []byte) (event.Tokens, event.Stream, error) { return f(src) }

// DefaultFrontend lexes and parses with the bundled reference parser.
var DefaultFrontend Frontend = FrontendFunc(func(src []byte) (event.Tokens, event.Stream, error) {
	res, err := parser.Parse(src)
	if err != nil {
		return nil, nil, err
	}
	return res.Tokens, res.Stream(), nil
})
