package jobevents

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"jobstream/internal/jobregistry"
)

// TransformError reports a transform that panicked on an event.
type TransformError struct {
	Type  jobregistry.EventType
	JobID string
	Cause any
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %s event for job %s: %v", e.Type, e.JobID, e.Cause)
}

// Unwrap exposes Cause when the transform panicked with an error.
func (e *TransformError) Unwrap() error {
	err, _ := e.Cause.(error)
	return err
}

// listener translates registry callbacks into submitted tuples. The output
// slot is written by setup before subscribing and read on every event.
type listener[T any] struct {
	transform Transform[T]
	out       atomic.Pointer[func(T)]
	log       zerolog.Logger
	onError   func(error)
}

func newListener[T any](transform Transform[T], log zerolog.Logger, onError func(error)) *listener[T] {
	return &listener[T]{transform: transform, log: log, onError: onError}
}

func (l *listener[T]) bindOutput(submit func(T)) { l.out.Store(&submit) }

func (l *listener[T]) unbindOutput() { l.out.Store(nil) }

// OnJobEvent implements jobregistry.Listener.
func (l *listener[T]) OnJobEvent(t jobregistry.EventType, job jobregistry.Job) {
	out := l.out.Load()
	if out == nil {
		unboundDropsTotal.Inc()
		l.log.Warn().Stringer("type", t).Str("job_id", job.ID()).Msg("event with no bound output dropped")
		return
	}
	tuple, err := l.apply(t, job)
	if err != nil {
		transformFailuresTotal.Inc()
		l.log.Error().Err(err).Stringer("type", t).Str("job_id", job.ID()).Msg("transform failed, event dropped")
		if l.onError != nil {
			l.onError(err)
		}
		return
	}
	(*out)(tuple)
	submittedTotal.Inc()
}

func (l *listener[T]) apply(t jobregistry.EventType, job jobregistry.Job) (tuple T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &TransformError{Type: t, JobID: job.ID(), Cause: rec}
		}
	}()
	return l.transform(t, job), nil
}
