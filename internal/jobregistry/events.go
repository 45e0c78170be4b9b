package jobregistry

import (
	"fmt"
	"strings"
)

// EventType categorizes a registry change.
type EventType int

const (
	// EventAdd is emitted when a job is registered, and replayed to new
	// listeners for every job already present.
	EventAdd EventType = iota + 1
	// EventRemove is emitted when a job is removed.
	EventRemove
	// EventUpdate is emitted when a registered job changes state or health.
	EventUpdate
)

func (t EventType) String() string {
	switch t {
	case EventAdd:
		return "add"
	case EventRemove:
		return "remove"
	case EventUpdate:
		return "update"
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// ParseEventType accepts the String form, case-insensitively.
func ParseEventType(s string) (EventType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add":
		return EventAdd, nil
	case "remove":
		return EventRemove, nil
	case "update":
		return EventUpdate, nil
	}
	return 0, fmt.Errorf("unknown event type %q", s)
}

// Event is a single registry notification.
type Event struct {
	Type EventType
	Job  Job
}

// Listener receives registry events. OnJobEvent is called on the goroutine
// that changed the registry and must not block or call the registry's
// mutating methods. Listeners are matched by ==, so implementations should
// be pointer types.
type Listener interface {
	OnJobEvent(EventType, Job)
}

// Service is the subscription side of the registry, the part event sources
// depend on. *Registry implements it.
type Service interface {
	AddListener(Listener)
	RemoveListener(Listener) bool
}
