// Package runtime holds the process-level service registry that topologies
// hand to their sources. Services are optional: a lookup that finds nothing
// is a normal outcome, not an error.
package runtime

import "sync"

// Kind names a service in the registry.
type Kind string

// Services is a concurrency-safe registry of runtime services keyed by Kind.
// Lookups and Unregister on a nil *Services behave like an empty registry.
type Services struct {
	mu   sync.RWMutex
	svcs map[Kind]any
}

// Supplier returns the services visible to a topology at the time of the call.
type Supplier func() *Services

func NewServices() *Services { return &Services{svcs: make(map[Kind]any)} }

// Register installs svc under kind, replacing any previous entry. s must
// not be nil.
func (s *Services) Register(kind Kind, svc any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.svcs == nil {
		s.svcs = make(map[Kind]any)
	}
	s.svcs[kind] = svc
}

// Unregister removes the service registered under kind and reports whether
// one was present.
func (s *Services) Unregister(kind Kind) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.svcs[kind]; !ok {
		return false
	}
	delete(s.svcs, kind)
	return true
}

// Kinds returns the registered kinds in no particular order.
func (s *Services) Kinds() []Kind {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Kind, 0, len(s.svcs))
	for k := range s.svcs {
		out = append(out, k)
	}
	return out
}

func (s *Services) get(kind Kind) (any, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.svcs[kind]
	return v, ok
}

// Lookup returns the service registered under kind as an S. The boolean is
// false when nothing is registered, the entry is nil, or it has another type.
func Lookup[S any](s *Services, kind Kind) (S, bool) {
	var zero S
	v, ok := s.get(kind)
	if !ok || v == nil {
		return zero, false
	}
	svc, ok := v.(S)
	if !ok {
		return zero, false
	}
	return svc, true
}

// LookupFrom resolves the supplier before looking up kind. A nil supplier or
// a supplier returning nil yields an absent service.
func LookupFrom[S any](sup Supplier, kind Kind) (S, bool) {
	if sup == nil {
		var zero S
		return zero, false
	}
	return Lookup[S](sup(), kind)
}
