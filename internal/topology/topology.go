// Package topology is a minimal dataflow engine: a Topology declares source
// streams and their downstreams, and a Provider runs it as a job registered
// with the job registry.
package topology

import (
	"sync"

	"jobstream/internal/runtime"
)

// Topology is a declared graph of streams. Declare streams before submitting
// the topology; sources added afterwards are not activated.
type Topology struct {
	name     string
	services runtime.Supplier

	mu      sync.Mutex
	sources []sourceBinding
}

type sourceBinding struct {
	activate   func()
	deactivate func()
}

// New returns an empty topology whose sources see the services returned by sup.
func New(name string, sup runtime.Supplier) *Topology {
	return &Topology{name: name, services: sup}
}

func (t *Topology) Name() string { return t.name }

// RuntimeServiceSupplier returns the supplier sources use to find runtime services.
func (t *Topology) RuntimeServiceSupplier() runtime.Supplier {
	if t.services == nil {
		return func() *runtime.Services { return nil }
	}
	return t.services
}

// Events declares a stream fed by src.
func Events[T any](top *Topology, src Source[T]) *Stream[T] {
	s := newStream[T](top)
	top.mu.Lock()
	top.sources = append(top.sources, sourceBinding{
		activate:   func() { src.Activate(s.submit) },
		deactivate: src.Deactivate,
	})
	top.mu.Unlock()
	return s
}

func (t *Topology) bindings() []sourceBinding {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]sourceBinding(nil), t.sources...)
}
