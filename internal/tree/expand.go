package tree

import (
	"context"
	"fmt"
	"strconv"

	"modtree/internal/diag"
	"modtree/internal/source"
	"modtree/internal/syntax"
	"modtree/internal/trace"
)

// Expand resolves pending module declarations until none remain. Each round
// takes the whole queue; modules discovered while parsing a round wait for
// the next one. A file that cannot be read or built aborts the call; the
// failed entry and the rest of its round stay queued and nothing the failed
// file produced is kept, so a later call runs into the same error.
func (s *Session) Expand(ctx context.Context) error {
	ctx, sp := trace.Start(ctx, trace.ScopePass, "expand")
	tr := trace.FromContext(ctx)
	parses := s.stats.FileParses
	defer func() {
		sp.WithExtra("rounds", strconv.Itoa(s.stats.Rounds)).
			WithExtra("files", strconv.Itoa(s.stats.FileParses-parses)).
			End("")
	}()

	for len(s.pending) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		round := s.pending
		s.pending = nil
		s.stats.Rounds++
		trace.Point(tr, trace.ScopeModule, "round", fmt.Sprintf("#%d: %d modules", s.stats.Rounds, len(round)), sp.ID())

		for i, pm := range round {
			if err := s.expandOne(ctx, pm); err != nil {
				s.pending = append(append([]PendingModule(nil), round[i:]...), s.pending...)
				return err
			}
		}
	}

	s.reportMacros()
	return nil
}

func (s *Session) expandOne(ctx context.Context, pm PendingModule) error {
	if prev, dup := s.modules[pm.Path]; dup {
		s.duplicate(pm.Node, prev, pm.At)
		return nil
	}

	file := s.ModuleFile(pm.Path)
	dotted := s.DottedPath(pm.Path)
	ctx, sp := trace.Start(ctx, trace.ScopeModule, "module:"+dotted)
	defer sp.End(file)

	id, ok := s.loaded[file]
	if !ok {
		var err error
		if id, err = s.sources.Load(file); err != nil {
			return &FileError{Path: file, Module: dotted, Err: err}
		}
		s.loaded[file] = id
	}
	body, _, err := s.parseFile(ctx, id, pm.Path, pm.At)
	if err != nil {
		return err
	}
	s.nodes.Patch(syntax.SlotOf(pm.Node), body)
	return nil
}

// duplicate points module at the body of the first definition of the same
// path and reports the clash.
func (s *Session) duplicate(module syntax.Node, prev ModuleInfo, at source.Span) {
	s.nodes.Patch(syntax.SlotOf(module), prev.Body)
	s.stats.Duplicates++
	b := diag.ReportError(s.report(), diag.ModDuplicate, at,
		fmt.Sprintf("module %s is defined more than once", s.DottedPath(prev.Path)))
	if !prev.At.Empty() {
		b.WithNote(prev.At, "first defined here")
	}
	b.Emit()
}

// reportMacros reports macro calls recorded since the previous report.
func (s *Session) reportMacros() {
	for _, m := range s.macros[s.macrosReported:] {
		diag.ReportInfo(s.report(), diag.MacroUnexpanded, source.Span{Start: m.At, End: m.At},
			"macro call is recorded but not expanded").Emit()
	}
	s.macrosReported = len(s.macros)
}
