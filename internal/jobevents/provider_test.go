package jobevents

import (
	"errors"
	"sync"
	"testing"
	"time"

	"jobstream/internal/jobregistry"
	"jobstream/internal/runtime"
	"jobstream/internal/topology"
	"jobstream/pkg/types"
)

func TestSource_WithProviderAndRegistry(t *testing.T) {
	svcs := runtime.NewServices()
	reg := jobregistry.New()
	reg.Publish(svcs)
	p := topology.NewProvider(svcs)

	top := p.NewTopology("watcher")
	var mu sync.Mutex
	var got []types.JobEvent
	Source(top, ToEvent).Sink(func(ev types.JobEvent) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	})
	exec, err := p.Submit(top)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	rec := jobregistry.NewRecordWithID("r1", "ingest")
	if err := reg.AddJob(rec); err != nil {
		t.Fatalf("AddJob: %v", err)
	}
	rec.SetState(jobregistry.StateRunning)
	reg.UpdateJob(rec)
	exec.Close()
	if reg.Listeners() != 0 {
		t.Fatalf("listener still subscribed after Close")
	}
	_ = reg.RemoveJob("r1")

	mu.Lock()
	defer mu.Unlock()
	// The watcher's own job is replayed on subscribe (initialized), then
	// moves to running; r1 follows.
	want := []struct{ typ, id, state string }{
		{"add", exec.ID(), "initialized"},
		{"update", exec.ID(), "running"},
		{"add", "r1", "constructed"},
		{"update", "r1", "running"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i, w := range want {
		if got[i].Type != w.typ || got[i].Job.ID != w.id || got[i].Job.State != w.state {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], w)
		}
	}
}

type closeOnInit struct{ closed chan *topology.Execution }

func (c *closeOnInit) OnJobEvent(t jobregistry.EventType, j jobregistry.Job) {
	e, ok := j.(*topology.Execution)
	if !ok || t != jobregistry.EventUpdate || j.CurrentState() != jobregistry.StateInitialized {
		return
	}
	go func() {
		e.Close()
		c.closed <- e
	}()
	// Keep the execution between initialized and activation for a while.
	time.Sleep(50 * time.Millisecond)
}

func TestSource_ClosedWhileStartingDoesNotLeakListener(t *testing.T) {
	svcs := runtime.NewServices()
	reg := jobregistry.New()
	reg.Publish(svcs)
	hook := &closeOnInit{closed: make(chan *topology.Execution, 1)}
	reg.AddListener(hook)
	p := topology.NewProvider(svcs)

	top := p.NewTopology("raced")
	Source(top, ToEvent).Sink(func(types.JobEvent) {})
	if _, err := p.Submit(top); err != nil && !errors.Is(err, topology.ErrClosed) {
		t.Fatalf("Submit: %v", err)
	}
	var e *topology.Execution
	select {
	case e = <-hook.closed:
	case <-time.After(time.Second):
		t.Fatalf("execution was not closed")
	}
	<-e.Done()
	if n := reg.Listeners(); n != 1 {
		t.Fatalf("listeners=%d after close, want only the hook", n)
	}
	if e.CurrentState() != jobregistry.StateClosed {
		t.Fatalf("state=%s, want closed", e.CurrentState())
	}
	if _, err := reg.Job(e.ID()); !jobregistry.IsJobNotFound(err) {
		t.Fatalf("closed execution still registered: %v", err)
	}
}

func TestSource_ProviderWithoutRegistry(t *testing.T) {
	p := topology.NewProvider(runtime.NewServices())
	top := p.NewTopology("silent")
	n := 0
	Source(top, ToEvent).Sink(func(types.JobEvent) { n++ })
	exec, err := p.Submit(top)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	exec.Close()
	if n != 0 {
		t.Fatalf("submissions=%d, want 0", n)
	}
}

func TestSnapshot(t *testing.T) {
	rec := jobregistry.NewRecordWithID("s", "snap")
	rec.SetHealth(jobregistry.HealthUnhealthy, "oops")
	got := Snapshot(rec)
	want := types.Job{ID: "s", Name: "snap", State: "constructed", NextState: "constructed", Health: "unhealthy", LastError: "oops"}
	if got != want {
		t.Fatalf("Snapshot = %+v, want %+v", got, want)
	}
}
