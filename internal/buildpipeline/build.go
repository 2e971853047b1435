// Package buildpipeline builds the module trees of several root files. Every
// root gets its own session; sessions share nothing and run in parallel.
package buildpipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"modtree/internal/diag"
	"modtree/internal/observ"
	"modtree/internal/snapshot"
	"modtree/internal/tree"
)

// Request describes one pipeline run.
type Request struct {
	Roots          []string
	Extension      string
	MaxDiagnostics int
	Jobs           int // <=0: GOMAXPROCS

	// SnapshotPath, if set, receives a snapshot of every finished tree.
	// With several roots the root index is inserted before the extension.
	SnapshotPath string

	Frontend tree.Frontend
	Progress ProgressSink
	Timer    *observ.Timer
}

// Result is the outcome for one root, in request order.
type Result struct {
	Root     string
	Session  *tree.Session // nil if the root file could not be parsed
	Bag      *diag.Bag
	Err      error
	Snapshot string // путь записанного снимка
	Timings  Timings
}

// Build runs every root. Per-root failures land in Result.Err; the returned
// error is only set when ctx is cancelled.
func Build(ctx context.Context, req *Request) ([]Result, error) {
	if req == nil {
		return nil, fmt.Errorf("missing build request")
	}
	results := make([]Result, len(req.Roots))
	if len(req.Roots) == 0 {
		return results, nil
	}
	for _, root := range req.Roots {
		emit(req.Progress, Event{Root: root, Stage: StageParse, Status: StatusQueued})
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(req.Roots)))
	for i, root := range req.Roots {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// индекс i уникален, мьютекс не нужен
			results[i] = buildRoot(gctx, req, i, root)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func buildRoot(ctx context.Context, req *Request, i int, root string) (res Result) {
	res = Result{Root: root, Bag: diag.NewBag(req.MaxDiagnostics)}
	start := time.Now()
	defer func() {
		status := StatusDone
		if res.Err != nil {
			status = StatusError
		}
		emit(req.Progress, Event{Root: root, Status: status, Err: res.Err, Elapsed: time.Since(start)})
	}()

	cfg := tree.Config{
		Extension: req.Extension,
		Frontend:  req.Frontend,
		Reporter:  diag.BagReporter{Bag: res.Bag},
	}

	_, err := stage(req, &res, StageParse, func() error {
		s, err := tree.New(ctx, root, cfg)
		res.Session = s
		return err
	})
	if err != nil {
		res.Err = err
		return res
	}
	if _, err := stage(req, &res, StageExpand, func() error {
		return res.Session.Expand(ctx)
	}); err != nil {
		res.Err = err
		return res
	}
	if req.SnapshotPath != "" {
		path := SnapshotPathFor(req.SnapshotPath, i, len(req.Roots))
		if _, err := stage(req, &res, StageSnapshot, func() error {
			return snapshot.Write(path, snapshot.Capture(res.Session))
		}); err != nil {
			res.Err = err
			return res
		}
		res.Snapshot = path
	}
	return res
}

// stage runs fn as one timed, reported pipeline stage.
func stage(req *Request, res *Result, st Stage, fn func() error) (time.Duration, error) {
	emit(req.Progress, Event{Root: res.Root, Stage: st, Status: StatusWorking})
	idx := req.Timer.Begin(string(st) + " " + res.Root)
	begin := time.Now()
	err := fn()
	dur := time.Since(begin)
	note := ""
	if err != nil {
		note = "failed"
	}
	req.Timer.End(idx, note)
	res.Timings.Set(st, dur)
	return dur, err
}

// SnapshotPathFor returns the snapshot path of root i out of n.
func SnapshotPathFor(path string, i, n int) string {
	if n <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s.%d%s", strings.TrimSuffix(path, ext), i, ext)
}
