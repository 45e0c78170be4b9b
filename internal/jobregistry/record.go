package jobregistry

import (
	"sync"

	"github.com/google/uuid"
)

// Record is a Job whose state is driven from outside the process, for
// example through the HTTP API. Mutations do not notify listeners by
// themselves; call Registry.UpdateJob afterwards.
type Record struct {
	mu      sync.RWMutex
	id      string
	name    string
	cur     State
	next    State
	health  Health
	lastErr string
}

// NewRecord returns a healthy, constructed record with a random id.
func NewRecord(name string) *Record {
	return NewRecordWithID(uuid.NewString(), name)
}

func NewRecordWithID(id, name string) *Record {
	return &Record{id: id, name: name, cur: StateConstructed, next: StateConstructed, health: HealthHealthy}
}

func (r *Record) ID() string   { return r.id }
func (r *Record) Name() string { return r.name }

func (r *Record) CurrentState() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cur
}

func (r *Record) NextState() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.next
}

func (r *Record) Health() Health {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.health
}

func (r *Record) LastError() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// SetState completes a transition to s.
func (r *Record) SetState(s State) {
	r.mu.Lock()
	r.cur, r.next = s, s
	r.mu.Unlock()
}

// BeginTransition records that the job is moving towards s.
func (r *Record) BeginTransition(s State) {
	r.mu.Lock()
	r.next = s
	r.mu.Unlock()
}

// SetHealth records health and the last error message ("" clears it).
func (r *Record) SetHealth(h Health, lastErr string) {
	r.mu.Lock()
	r.health, r.lastErr = h, lastErr
	r.mu.Unlock()
}
