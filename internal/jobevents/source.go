package jobevents

import (
	"github.com/rs/zerolog"

	"jobstream/internal/jobregistry"
	"jobstream/internal/topology"
	"jobstream/pkg/types"
)

// Transform builds a tuple from a job event. It should be a pure function.
type Transform[T any] func(jobregistry.EventType, jobregistry.Job) T

type options struct {
	log     zerolog.Logger
	onError func(error)
}

// Option configures a job events source.
type Option func(*options)

// WithLogger sets the logger used for lifecycle and failure messages.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithErrorHandler registers fn to receive transform failures. fn runs on
// the registry's goroutine while it dispatches and must not call back into
// the registry synchronously.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) { o.onError = fn }
}

// Source declares a stream on top populated by job registry events.
func Source[T any](top *topology.Topology, transform Transform[T], opts ...Option) *topology.Stream[T] {
	return topology.Events[T](top, newSource(top, transform, opts...))
}

func newSource[T any](top *topology.Topology, transform Transform[T], opts ...Option) *setup[T] {
	o := options{log: zerolog.Nop()}
	for _, fn := range opts {
		fn(&o)
	}
	log := o.log.With().Str("component", "jobevents").Str("topology", top.Name()).Logger()
	return newSetup(top.RuntimeServiceSupplier(), newListener(transform, log, o.onError), log)
}

// Snapshot captures the exported view of job.
func Snapshot(job jobregistry.Job) types.Job {
	return types.Job{
		ID:        job.ID(),
		Name:      job.Name(),
		State:     string(job.CurrentState()),
		NextState: string(job.NextState()),
		Health:    string(job.Health()),
		LastError: job.LastError(),
	}
}

// ToEvent is a Transform producing the JSON event shape.
func ToEvent(t jobregistry.EventType, job jobregistry.Job) types.JobEvent {
	return types.JobEvent{Type: t.String(), Job: Snapshot(job)}
}
