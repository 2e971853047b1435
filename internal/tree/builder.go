package tree

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"modtree/internal/diag"
	"modtree/internal/event"
	"modtree/internal/modpath"
	"modtree/internal/name"
	"modtree/internal/scope"
	"modtree/internal/source"
	"modtree/internal/syntax"
	"modtree/internal/trace"
)

// builder translates the step stream of one file into arena records. Its
// recursion mirrors the nesting of the stream: every open record is one
// active call of children.
type builder struct {
	s     *Session
	steps event.Stream
	toks  event.Tokens
	text  []byte
	file  source.FileID
	base  source.Loc // начало файла в общем буфере
	tok   int        // следующий непрочитанный токен
	scope scope.ID
	stack []syntax.Kind

	tracer trace.Tracer
	span   uint64

	// последний интернированный идентификатор
	lastName    name.ID
	hasLastName bool
}

// run consumes the whole stream: one top-level node, optionally followed by
// error steps.
func (b *builder) run() error {
	st, ok := b.steps.Next()
	if !ok {
		return malformed("empty stream")
	}
	if st.Kind != event.StepEnter {
		return malformed("stream starts with %s", st.Kind)
	}
	if err := b.enter(st.Node); err != nil {
		return err
	}
	for {
		st, ok := b.steps.Next()
		if !ok {
			return nil
		}
		if st.Kind != event.StepError {
			return malformed("%s after the top-level node", st.Kind)
		}
		b.parseError(st.Msg)
	}
}

func (b *builder) step(st event.Step) error {
	switch st.Kind {
	case event.StepEnter:
		return b.enter(st.Node)
	case event.StepToken:
		return b.token(st.Node, st.NInput)
	case event.StepError:
		b.parseError(st.Msg)
		return nil
	case event.StepFloatSplit:
		return fmt.Errorf("float literal split at %s: %w", b.s.sources.Format(b.peekSpan().Start), ErrUnimplemented)
	case event.StepExit:
		return malformed("exit without a matching enter")
	}
	return malformed("unknown step kind %d", st.Kind)
}

func (b *builder) enter(k syntax.Kind) error {
	if !k.IsValid() || k.IsToken() {
		return malformed("enter with non-structural kind %s", k)
	}
	switch k {
	case syntax.Module:
		return b.module()
	case syntax.BlockExpr:
		return b.block()
	case syntax.MacroCall:
		return b.macroCall()
	}
	b.open(k)
	return b.children()
}

func (b *builder) open(k syntax.Kind) syntax.Node {
	b.stack = append(b.stack, k)
	b.s.stats.Structural++
	return b.s.nodes.PushEnter(k)
}

func (b *builder) close() {
	b.stack = b.stack[:len(b.stack)-1]
	b.s.nodes.PushExit()
}

// children consumes steps up to and including the Exit of the innermost
// open record.
func (b *builder) children() error {
	for {
		st, ok := b.steps.Next()
		if !ok {
			return malformed("%s is never closed", b.stack[len(b.stack)-1])
		}
		if st.Kind == event.StepExit {
			b.close()
			return nil
		}
		if err := b.step(st); err != nil {
			return err
		}
	}
}

func (b *builder) token(k syntax.Kind, n uint8) error {
	if !k.IsToken() || k.IsTrivia() || k == syntax.Eof {
		return malformed("token step with kind %s", k)
	}
	if n == 0 {
		return malformed("token step consumes no input")
	}
	start, end, err := b.consume(n)
	if err != nil {
		return err
	}
	loc := b.base.Plus(start)
	if k.HasName() {
		id := b.intern(b.text[start:end])
		b.s.nodes.PushIdent(k, loc, id)
		b.lastName, b.hasLastName = id, true
	} else {
		b.s.nodes.PushToken(k, loc)
	}
	b.s.stats.Tokens++
	return nil
}

// consume advances over n significant tokens and returns the in-file range
// they cover.
func (b *builder) consume(n uint8) (start, end uint32, err error) {
	for i := 0; i < int(n); i++ {
		for b.tok < b.toks.Len() && b.toks.Kind(b.tok).IsTrivia() {
			b.tok++
		}
		if b.tok >= b.toks.Len() || b.toks.Kind(b.tok) == syntax.Eof {
			return 0, 0, malformed("token step past the end of input")
		}
		s, e := b.toks.Range(b.tok)
		if i == 0 {
			start = s
		}
		end = e
		b.tok++
	}
	if int(end) > len(b.text) || start > end {
		return 0, 0, malformed("token range %d..%d outside the file", start, end)
	}
	return start, end, nil
}

// intern stores identifier text in NFC so that visually equal names share
// one ID.
func (b *builder) intern(raw []byte) name.ID {
	if norm.NFC.IsNormal(raw) {
		return b.s.names.MakeBytes(raw)
	}
	return b.s.names.MakeBytes(norm.NFC.Bytes(raw))
}

// peekSpan returns the global span of the next significant token, or an
// empty span at the end of the file.
func (b *builder) peekSpan() source.Span {
	i := b.tok
	for i < b.toks.Len() && b.toks.Kind(i).IsTrivia() {
		i++
	}
	if i >= b.toks.Len() || b.toks.Kind(i) == syntax.Eof {
		end := b.base.Plus(uint32(len(b.text))) // длина файла проверена реестром
		return source.Span{Start: end, End: end}
	}
	s, e := b.toks.Range(i)
	return source.Span{Start: b.base.Plus(s), End: b.base.Plus(e)}
}

func (b *builder) parseError(msg string) {
	b.s.stats.ParseErrors++
	diag.ReportError(b.s.report(), diag.SynParseError, b.peekSpan(), msg).Emit()
}

func (b *builder) block() error {
	at := b.open(syntax.BlockExpr)
	saved := b.scope
	b.scope = b.s.scopes.PushNested(saved, at)
	err := b.children()
	b.scope = saved
	return err
}

func (b *builder) macroCall() error {
	at := b.open(syntax.MacroCall)
	loc := b.peekSpan().Start
	b.s.macros = append(b.s.macros, PendingMacro{Node: at, Scope: b.scope, At: loc})
	trace.Point(b.tracer, trace.ScopeNode, "macro-call", b.s.sources.Format(loc), b.span)
	return b.children()
}

// module handles a Module record: it reserves the body slot, derives the
// module path from the Name child and either descends into the inline body
// or queues the declaration for Expand.
func (b *builder) module() error {
	at := b.open(syntax.Module)
	b.s.nodes.PushSlot(at) // не разрешён: указывает на себя
	first := b.peekSpan()

	var (
		path    modpath.ID
		nameAt  source.Span
		named   bool
		hasBody bool
	)
	for {
		st, ok := b.steps.Next()
		if !ok {
			return malformed("MODULE is never closed")
		}
		switch {
		case st.Kind == event.StepExit:
			b.close()
			switch {
			case !named:
				b.malformedModule(first)
			case !hasBody:
				b.s.pending = append(b.s.pending, PendingModule{Path: path, Node: at, At: nameAt})
			}
			return nil

		case st.Kind == event.StepEnter && st.Node == syntax.Name && !named:
			nameAt = b.peekSpan()
			b.hasLastName = false
			if err := b.enter(syntax.Name); err != nil {
				return err
			}
			if b.hasLastName {
				named = true
				path = b.s.paths.Child(b.s.scopes.Module(b.scope), b.lastName)
			}

		case st.Kind == event.StepEnter && st.Node == syntax.ItemList && named && !hasBody:
			hasBody = true
			if err := b.inlineBody(at, path, nameAt); err != nil {
				return err
			}

		default:
			if err := b.step(st); err != nil {
				return err
			}
		}
	}
}

func (b *builder) inlineBody(module syntax.Node, path modpath.ID, nameAt source.Span) error {
	body := b.open(syntax.ItemList)
	sc := b.s.scopes.PushModule(path, body)
	if prev, dup := b.s.modules[path]; dup {
		b.s.duplicate(module, prev, nameAt)
	} else {
		b.s.modules[path] = ModuleInfo{Path: path, Scope: sc, Body: body, File: b.file, Inline: true, At: nameAt}
		b.s.nodes.Patch(syntax.SlotOf(module), body)
	}
	saved := b.scope
	b.scope = sc
	err := b.children()
	b.scope = saved
	return err
}

func (b *builder) malformedModule(at source.Span) {
	b.s.stats.Malformed++
	diag.ReportWarning(b.s.report(), diag.ModMalformed, at, "module declaration has no name").Emit()
	trace.Point(b.tracer, trace.ScopeNode, "malformed-module", b.s.sources.Format(at.Start), b.span)
}
