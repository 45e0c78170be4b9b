package topology

import "sync"

// Source is a push-based stream source. The engine calls Activate with the
// stream's submit function when an execution starts and Deactivate when it
// stops; a source may be activated again after it was deactivated.
type Source[T any] interface {
	Activate(submit func(T))
	Deactivate()
}

// Stream is a declared stream of tuples. Tuples submitted to a stream are
// delivered to each downstream in declaration order, one tuple at a time,
// on the submitting goroutine. Downstreams must not declare further
// downstreams on the same stream while tuples are flowing.
type Stream[T any] struct {
	top *Topology

	mu    sync.Mutex
	sinks []func(T)
}

func newStream[T any](top *Topology) *Stream[T] { return &Stream[T]{top: top} }

// Topology returns the topology the stream belongs to.
func (s *Stream[T]) Topology() *Topology { return s.top }

// Sink terminates the stream with fn.
func (s *Stream[T]) Sink(fn func(T)) {
	s.mu.Lock()
	s.sinks = append(s.sinks, fn)
	s.mu.Unlock()
}

// Filter declares a stream carrying only tuples for which keep returns true.
func (s *Stream[T]) Filter(keep func(T) bool) *Stream[T] {
	out := newStream[T](s.top)
	s.Sink(func(v T) {
		if keep(v) {
			out.submit(v)
		}
	})
	return out
}

// Map declares a stream carrying fn(v) for every tuple v of s.
func Map[T, U any](s *Stream[T], fn func(T) U) *Stream[U] {
	out := newStream[U](s.top)
	s.Sink(func(v T) { out.submit(fn(v)) })
	return out
}

func (s *Stream[T]) submit(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fn := range s.sinks {
		fn(v)
	}
}
