package jobregistry

import (
	"sync"
	"testing"
	"time"

	"jobstream/internal/runtime"
)

func TestRegistry_AddUpdateRemove_EmitsEvents(t *testing.T) {
	r := New()
	l := NewMemoryListener()
	r.AddListener(l)
	j := NewRecordWithID("j1", "job one")
	if err := r.AddJob(j); err != nil {
		t.Fatalf("AddJob: %v", err)
	}
	j.SetState(StateRunning)
	if !r.UpdateJob(j) {
		t.Fatalf("UpdateJob reported unregistered job")
	}
	if !r.RemoveJob("j1") {
		t.Fatalf("RemoveJob reported missing job")
	}
	evts := l.Events()
	want := []EventType{EventAdd, EventUpdate, EventRemove}
	if len(evts) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(evts), len(want), evts)
	}
	for i, e := range evts {
		if e.Type != want[i] || e.Job.ID() != "j1" {
			t.Fatalf("event %d = %v/%s, want %v/j1", i, e.Type, e.Job.ID(), want[i])
		}
	}
}

func TestRegistry_DuplicateAndMissing(t *testing.T) {
	r := New()
	if err := r.AddJob(NewRecordWithID("a", "a")); err != nil {
		t.Fatalf("AddJob: %v", err)
	}
	if err := r.AddJob(NewRecordWithID("a", "again")); !IsJobExists(err) {
		t.Fatalf("expected job exists error, got %v", err)
	}
	if _, err := r.Job("nope"); !IsJobNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if r.RemoveJob("nope") {
		t.Fatalf("RemoveJob of unknown id should report false")
	}
	l := NewMemoryListener()
	r.AddListener(l)
	if r.UpdateJob(NewRecordWithID("ghost", "g")) {
		t.Fatalf("UpdateJob of unknown job should report false")
	}
	for _, e := range l.Events() {
		if e.Type == EventUpdate {
			t.Fatalf("no update expected for unregistered job: %+v", e)
		}
	}
}

func TestRegistry_AddListenerReplaysExistingJobs(t *testing.T) {
	r := New()
	_ = r.AddJob(NewRecordWithID("b", "b"))
	_ = r.AddJob(NewRecordWithID("a", "a"))
	early := NewMemoryListener()
	r.AddListener(early)
	before := len(early.Events())
	late := NewMemoryListener()
	r.AddListener(late)
	evts := late.Events()
	if len(evts) != 2 || evts[0].Job.ID() != "a" || evts[1].Job.ID() != "b" {
		t.Fatalf("replay = %+v", evts)
	}
	for _, e := range evts {
		if e.Type != EventAdd {
			t.Fatalf("replayed %v, want add", e.Type)
		}
	}
	if len(early.Events()) != before {
		t.Fatalf("replay must only reach the new listener")
	}
}

func TestRegistry_RemoveListenerExactInstance(t *testing.T) {
	r := New()
	a, b := NewMemoryListener(), NewMemoryListener()
	r.AddListener(a)
	r.AddListener(b)
	r.AddListener(a)
	if r.Listeners() != 2 {
		t.Fatalf("listeners=%d, want 2", r.Listeners())
	}
	if !r.RemoveListener(a) {
		t.Fatalf("RemoveListener(a) = false")
	}
	if r.RemoveListener(a) {
		t.Fatalf("second RemoveListener(a) = true")
	}
	_ = r.AddJob(NewRecordWithID("x", "x"))
	if len(a.Events()) != 0 {
		t.Fatalf("removed listener got events: %+v", a.Events())
	}
	if len(b.Events()) != 1 {
		t.Fatalf("remaining listener events=%d", len(b.Events()))
	}
}

type panicListener struct{}

func (*panicListener) OnJobEvent(EventType, Job) { panic("boom") }

func TestRegistry_ListenerPanicDoesNotBreakOthers(t *testing.T) {
	r := New()
	r.AddListener(&panicListener{})
	l := NewMemoryListener()
	r.AddListener(l)
	if err := r.AddJob(NewRecordWithID("p", "p")); err != nil {
		t.Fatalf("AddJob: %v", err)
	}
	if len(l.Events()) != 1 {
		t.Fatalf("events=%d, want 1", len(l.Events()))
	}
}

type slowListener struct {
	mu      sync.Mutex
	running bool
	entered chan struct{}
	release chan struct{}
}

func (s *slowListener) OnJobEvent(EventType, Job) {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	close(s.entered)
	<-s.release
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func TestRegistry_RemoveListenerWaitsForInflightCallback(t *testing.T) {
	r := New()
	s := &slowListener{entered: make(chan struct{}), release: make(chan struct{})}
	r.AddListener(s)
	go func() { _ = r.AddJob(NewRecordWithID("slow", "slow")) }()
	<-s.entered
	removed := make(chan struct{})
	go func() {
		r.RemoveListener(s)
		close(removed)
	}()
	select {
	case <-removed:
		t.Fatalf("RemoveListener returned while a callback was running")
	case <-time.After(20 * time.Millisecond):
	}
	close(s.release)
	<-removed
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		t.Fatalf("callback still running after RemoveListener returned")
	}
}

func TestRegistry_PublishAndLookup(t *testing.T) {
	svcs := runtime.NewServices()
	r := New()
	r.Publish(svcs)
	got, ok := runtime.Lookup[*Registry](svcs, ServiceKind)
	if !ok || got != r {
		t.Fatalf("lookup = %v,%v", got, ok)
	}
}

func TestParseEventTypeAndState(t *testing.T) {
	for _, et := range []EventType{EventAdd, EventRemove, EventUpdate} {
		got, err := ParseEventType(et.String())
		if err != nil || got != et {
			t.Fatalf("ParseEventType(%q) = %v,%v", et.String(), got, err)
		}
	}
	if _, err := ParseEventType("bogus"); err == nil {
		t.Fatalf("expected error for bogus type")
	}
	if got, _ := ParseEventType(" ADD "); got != EventAdd {
		t.Fatalf("case-insensitive parse failed: %v", got)
	}
	if _, ok := ParseState("running"); !ok {
		t.Fatalf("running should parse")
	}
	if _, ok := ParseState("flying"); ok {
		t.Fatalf("flying should not parse")
	}
}

func TestRecord_Transitions(t *testing.T) {
	rec := NewRecord("r")
	if rec.ID() == "" {
		t.Fatalf("expected generated id")
	}
	if rec.CurrentState() != StateConstructed || rec.Health() != HealthHealthy {
		t.Fatalf("unexpected initial record: %s %s", rec.CurrentState(), rec.Health())
	}
	rec.BeginTransition(StateRunning)
	if rec.NextState() != StateRunning || rec.CurrentState() != StateConstructed {
		t.Fatalf("transition not recorded")
	}
	rec.SetState(StateRunning)
	rec.SetHealth(HealthUnhealthy, "disk full")
	if rec.CurrentState() != StateRunning || rec.LastError() != "disk full" {
		t.Fatalf("unexpected record: %s %q", rec.CurrentState(), rec.LastError())
	}
}
