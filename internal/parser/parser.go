// Package parser is the reference event producer: it lexes a file and
// emits the structural step stream the tree builder consumes.
package parser

import (
	"modtree/internal/event"
	"modtree/internal/lexer"
	"modtree/internal/syntax"
)

// Result is the output for one file.
type Result struct {
	Tokens *lexer.Tokens
	Steps  []event.Step
	Errors int // количество Error-шагов
}

// Stream returns a fresh pull cursor over the steps.
func (r *Result) Stream() *event.Slice { return event.NewSlice(r.Steps) }

// Parser - состояние парсера на один файл
type Parser struct {
	src    []byte
	toks   *lexer.Tokens
	sig    []int // индексы значимых токенов (без trivia), последний - Eof
	pos    int
	events []pevent
	errors int
}

// pevent is a step plus marker bookkeeping; tombstones are Enter steps whose
// kind is not known yet or that were abandoned.
type pevent struct {
	step          event.Step
	forwardParent int
	tombstone     bool
}

// Parse lexes src and parses it as a source file. Only lexical failures are
// returned as errors; syntax errors become Error steps.
func Parse(src []byte) (*Result, error) {
	toks, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	p := New(src, toks)
	p.sourceFile()
	return &Result{Tokens: toks, Steps: p.finish(), Errors: p.errors}, nil
}

// New creates a parser over an already lexed file.
func New(src []byte, toks *lexer.Tokens) *Parser {
	sig := make([]int, 0, toks.Len())
	for i := 0; i < toks.Len(); i++ {
		if !toks.Kind(i).IsTrivia() {
			sig = append(sig, i)
		}
	}
	return &Parser{src: src, toks: toks, sig: sig, events: make([]pevent, 0, len(sig)*2)}
}

// ===== markers =====

// Marker - открытый узел, вид которого станет известен позже.
type Marker struct{ pos int }

// CompletedMarker - закрытый узел; его можно обернуть через precede.
type CompletedMarker struct {
	pos  int
	kind syntax.Kind
}

func (p *Parser) start() Marker {
	pos := len(p.events)
	p.events = append(p.events, pevent{step: event.Step{Kind: event.StepEnter}, tombstone: true})
	return Marker{pos: pos}
}

func (p *Parser) complete(m Marker, k syntax.Kind) CompletedMarker {
	ev := &p.events[m.pos]
	ev.step.Node = k
	ev.tombstone = false
	p.events = append(p.events, pevent{step: event.Step{Kind: event.StepExit}})
	return CompletedMarker{pos: m.pos, kind: k}
}

func (p *Parser) abandon(m Marker) {
	if m.pos == len(p.events)-1 {
		p.events = p.events[:m.pos]
	}
	// иначе остаётся tombstone и пропускается в finish
}

// precede opens a new node that will wrap cm.
func (p *Parser) precede(cm CompletedMarker) Marker {
	m := p.start()
	p.events[cm.pos].forwardParent = m.pos - cm.pos
	return m
}

// finish разворачивает forward parents в плоский поток шагов.
func (p *Parser) finish() []event.Step {
	out := make([]event.Step, 0, len(p.events))
	var chain []syntax.Kind
	for i := range p.events {
		ev := &p.events[i]
		if ev.step.Kind != event.StepEnter {
			out = append(out, ev.step)
			continue
		}
		if ev.tombstone {
			continue
		}
		chain = chain[:0]
		for j := i; ; {
			e := &p.events[j]
			chain = append(chain, e.step.Node)
			e.tombstone = true
			if e.forwardParent == 0 {
				break
			}
			j += e.forwardParent
		}
		for k := len(chain) - 1; k >= 0; k-- {
			out = append(out, event.Step{Kind: event.StepEnter, Node: chain[k]})
		}
	}
	return out
}

// ===== entry point =====

func (p *Parser) sourceFile() {
	m := p.start()
	for p.at(syntax.Pound) && p.nth(1) == syntax.Bang {
		p.attr()
	}
	for !p.at(syntax.Eof) {
		p.item()
	}
	p.complete(m, syntax.SourceFile)
}
