package buildpipeline

import "time"

// Stage is one step of a root's build.
type Stage string

const (
	StageParse    Stage = "parse"    // root file only
	StageExpand   Stage = "expand"   // `mod x;` fixpoint
	StageSnapshot Stage = "snapshot" // only with Request.SnapshotPath
)

// Stages lists every stage in execution order.
var Stages = [...]Stage{StageParse, StageExpand, StageSnapshot}

func (s Stage) index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Status of a root within its current stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports a stage transition of Root. The final event of a root has
// an empty Stage, Status done or error and the total Elapsed time.
type Event struct {
	Root    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Build calls OnEvent from several
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds the duration of every stage a root went through.
type Timings struct {
	dur [len(Stages)]time.Duration
	ran [len(Stages)]bool
}

// Set records dur for stage; unknown stages are ignored.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if i := stage.index(); t != nil && i >= 0 {
		t.dur[i], t.ran[i] = dur, true
	}
}

// Has reports whether stage ran.
func (t Timings) Has(stage Stage) bool {
	i := stage.index()
	return i >= 0 && t.ran[i]
}

// Duration returns the recorded duration of stage, 0 if it did not run.
func (t Timings) Duration(stage Stage) time.Duration {
	if i := stage.index(); i >= 0 {
		return t.dur[i]
	}
	return 0
}

// Total sums every recorded stage.
func (t Timings) Total() time.Duration {
	var total time.Duration
	for _, d := range t.dur {
		total += d
	}
	return total
}
