// Package event describes the input the tree builder consumes: an ordered
// stream of structural parse steps plus the lexed token list they refer to.
//
// Producers must keep Enter/Exit well-nested and consume tokens in order;
// trivia tokens are skipped by the consumer and never reported.
package event

import "modtree/internal/syntax"

// StepKind classifies a parse step.
type StepKind uint8

const (
	// StepEnter opens a structural node.
	StepEnter StepKind = iota + 1
	// StepExit closes the innermost open node.
	StepExit
	// StepToken consumes NInput lexed (non-trivia) tokens as one token of Node kind.
	StepToken
	// StepError marks a parse error at the current position.
	StepError
	// StepFloatSplit asks the consumer to split a float literal into field accesses.
	StepFloatSplit
)

func (k StepKind) String() string {
	switch k {
	case StepEnter:
		return "enter"
	case StepExit:
		return "exit"
	case StepToken:
		return "token"
	case StepError:
		return "error"
	case StepFloatSplit:
		return "float-split"
	default:
		return "unknown"
	}
}

// Step is a single parse event.
type Step struct {
	Kind      StepKind
	Node      syntax.Kind // Enter, Token
	NInput    uint8       // Token
	Msg       string      // Error
	EndsInDot bool        // FloatSplit
}

// Stream is a pull cursor over steps.
type Stream interface {
	// Peek returns the next step without consuming it.
	Peek() (Step, bool)
	// Next consumes and returns the next step.
	Next() (Step, bool)
}

// Tokens is the lexed token list the steps refer to. Ranges are in-file
// byte offsets.
type Tokens interface {
	Len() int
	Kind(i int) syntax.Kind
	Range(i int) (start, end uint32)
}

// Slice is a Stream over a fixed slice of steps.
type Slice struct {
	steps []Step
	pos   int
}

// NewSlice creates a Stream over steps.
func NewSlice(steps []Step) *Slice {
	return &Slice{steps: steps}
}

func (s *Slice) Peek() (Step, bool) {
	if s.pos >= len(s.steps) {
		return Step{}, false
	}
	return s.steps[s.pos], true
}

func (s *Slice) Next() (Step, bool) {
	st, ok := s.Peek()
	if ok {
		s.pos++
	}
	return st, ok
}

// Remaining returns the number of unconsumed steps.
func (s *Slice) Remaining() int { return len(s.steps) - s.pos }

// Recorder accumulates steps; producers use it as their output sink.
type Recorder struct {
	steps []Step
	depth int
}

// Enter records StepEnter.
func (r *Recorder) Enter(k syntax.Kind) {
	r.steps = append(r.steps, Step{Kind: StepEnter, Node: k})
	r.depth++
}

// Exit records StepExit.
func (r *Recorder) Exit() {
	r.steps = append(r.steps, Step{Kind: StepExit})
	r.depth--
}

// Token records StepToken for n input tokens.
func (r *Recorder) Token(k syntax.Kind, n uint8) {
	r.steps = append(r.steps, Step{Kind: StepToken, Node: k, NInput: n})
}

// Error records StepError.
func (r *Recorder) Error(msg string) {
	r.steps = append(r.steps, Step{Kind: StepError, Msg: msg})
}

// FloatSplit records StepFloatSplit.
func (r *Recorder) FloatSplit(endsInDot bool) {
	r.steps = append(r.steps, Step{Kind: StepFloatSplit, EndsInDot: endsInDot})
}

// Depth returns the number of unclosed Enter steps.
func (r *Recorder) Depth() int { return r.depth }

// Steps returns the recorded steps.
func (r *Recorder) Steps() []Step { return r.steps }

// Stream returns a Stream over the recorded steps.
func (r *Recorder) Stream() *Slice { return NewSlice(r.steps) }
