// Package job generalizes the teacher's ad hoc orchestrator.Hooks{OnEvent}
// callback (pkg/orchestrator/types.go) into a small cancellable unit of
// work that can be split into weighted sub-jobs and that every long-running
// core operation (refresh, load, index) accepts instead of inventing its
// own progress mechanism.
package job

import (
	"context"
	"sync/atomic"
)

// Event is a progress notification, named the way orchestrator.Event is.
type Event struct {
	Phase string // e.g. "loading", "detecting", "indexing"
	ID string // step identifier, e.g. a package name
	Msg string
	Progress float64 // 0..1 within this job's share of the overall operation
}

// Sink receives Events. A nil Sink is valid and simply discards events.
type Sink func(Event)

// Job is a cancellable, observable unit of work.
type Job struct {
	ctx context.Context
	cancel context.CancelFunc
	sink Sink
	weight float64 // this job's share of its parent's progress range, 0..1
	base float64 // this job's progress offset within the parent, 0..1
	done atomic.Int64
	total atomic.Int64
}

// New creates a root job bound to ctx, emitting events to sink.
func New(ctx context.Context, sink Sink) *Job {
	c, cancel := context.WithCancel(ctx)
	return &Job{ctx: c, cancel: cancel, sink: sink, weight: 1, base: 0}
}

// Context returns the job's cancellable context.
func (j *Job) Context() context.Context { return j.ctx }

// Cancel cancels the job and every sub-job derived from it.
func (j *Job) Cancel() { j.cancel() }

// Err reports ctx.Err(), the cooperative-cancellation check every pipeline
// boundary must perform.
func (j *Job) Err() error { return j.ctx.Err() }

// Split divides this job's progress range into len(weights) sub-jobs,
// proportional to the given weights, mirroring how the orchestrator splits
// an install into resolve/download/install phases.
func (j *Job) Split(weights ...float64) []*Job {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		total = 1
	}
	out := make([]*Job, len(weights))
	offset := 0.0
	for i, w := range weights {
		share := w / total
		out[i] = &Job{
			ctx: j.ctx,
			cancel: j.cancel,
			sink: j.sink,
			weight: j.weight * share,
			base: j.base + j.weight*offset,
		}
		offset += share
	}
	return out
}

// Emit reports an event scaled into this job's slice of the overall
// progress range by calling the sink synchronously (the signal/slot
// replacement); with a nil sink the event is dropped.
func (j *Job) Emit(phase, id, msg string, localProgress float64) {
	if j.sink == nil {
		return
	}
	j.sink(Event{Phase: phase, ID: id, Msg: msg, Progress: j.base + j.weight*localProgress})
}

// Tick increments a simple done/total counter and emits progress — the
// "every 100 packages/versions" cadence suggested for indexing
// loops is implemented by the caller choosing how often to call Tick.
func (j *Job) Tick(phase string, done, total int) {
	j.done.Store(int64(done))
	j.total.Store(int64(total))
	local := 0.0
	if total > 0 {
		local = float64(done) / float64(total)
	}
	j.Emit(phase, "", "", local)
}

// CheckBoundary returns ctx.Err() if the job has been cancelled; callers
// invoke this at each pipeline stage boundary and between repository
// entries.
func (j *Job) CheckBoundary() error {
	select {
	case <-j.ctx.Done():
		return j.ctx.Err()
	default:
		return nil
	}
}
