package jobevents

import (
	"sync"

	"github.com/rs/zerolog"

	"jobstream/internal/jobregistry"
	"jobstream/internal/runtime"
)

// setup owns the subscription of one listener to the job registry. It is
// the topology.Source handed to the engine.
type setup[T any] struct {
	services runtime.Supplier
	listener *listener[T]
	log      zerolog.Logger

	mu     sync.Mutex
	active bool
}

func newSetup[T any](sup runtime.Supplier, l *listener[T], log zerolog.Logger) *setup[T] {
	return &setup[T]{services: sup, listener: l, log: log}
}

func (s *setup[T]) registry() (jobregistry.Service, bool) {
	return runtime.LookupFrom[jobregistry.Service](s.services, jobregistry.ServiceKind)
}

// Activate binds submit and subscribes the listener. Without a registry it
// does nothing. Activating an active source only rebinds submit, whether or
// not the registry can still be found.
func (s *setup[T]) Activate(submit func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		s.listener.bindOutput(submit)
		return
	}
	reg, ok := s.registry()
	if !ok {
		s.log.Debug().Msg("job registry unavailable, source disabled")
		return
	}
	// Bind before subscribing: AddListener replays existing jobs at once.
	s.listener.bindOutput(submit)
	reg.AddListener(s.listener)
	s.active = true
	activeSources.Inc()
	s.log.Debug().Msg("subscribed to job registry")
}

// Deactivate unsubscribes the listener if a registry is still available.
func (s *setup[T]) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	if reg, ok := s.registry(); ok {
		reg.RemoveListener(s.listener)
		s.log.Debug().Msg("unsubscribed from job registry")
	} else {
		s.log.Debug().Msg("job registry gone, nothing to unsubscribe")
	}
	s.listener.unbindOutput()
	s.active = false
	activeSources.Dec()
}

func (s *setup[T]) isActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
