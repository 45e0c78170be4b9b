package jobregistry

import "sync"

// MemoryListener stores events in-memory for tests.
type MemoryListener struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryListener() *MemoryListener { return &MemoryListener{} }

func (l *MemoryListener) OnJobEvent(t EventType, j Job) {
	l.mu.Lock()
	l.events = append(l.events, Event{Type: t, Job: j})
	l.mu.Unlock()
}

func (l *MemoryListener) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}
