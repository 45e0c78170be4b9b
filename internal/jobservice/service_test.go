package jobservice

import (
	"testing"
	"time"

	"jobstream/internal/jobregistry"
	"jobstream/internal/runtime"
	"jobstream/internal/topology"
	"jobstream/pkg/types"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return New(jobregistry.New(), topology.NewProvider(runtime.NewServices()))
}

type statusCoder interface{ StatusCode() int }

func statusOf(err error) int {
	if sc, ok := err.(statusCoder); ok {
		return sc.StatusCode()
	}
	return 0
}

func TestSeedAndReady(t *testing.T) {
	s := newTestService(t)
	if s.Ready() {
		t.Fatalf("ready before Seed")
	}
	if err := s.Seed([]string{"a", "b"}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if !s.Ready() {
		t.Fatalf("not ready after Seed")
	}
	jobs := s.Jobs()
	if len(jobs) != 2 || jobs[0].State != "running" {
		t.Fatalf("jobs=%+v", jobs)
	}
	if err := s.Seed([]string{" "}); statusOf(err) != 400 {
		t.Fatalf("expected 400 for blank seed name, got %v", err)
	}
}

func TestCreateUpdateRemove(t *testing.T) {
	s := newTestService(t)
	j, err := s.CreateJob("export")
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if j.State != "constructed" || j.ID == "" {
		t.Fatalf("created=%+v", j)
	}
	if _, err := s.CreateJob(""); statusOf(err) != 400 {
		t.Fatalf("expected 400 for empty name, got %v", err)
	}
	up, err := s.UpdateJob(j.ID, types.UpdateJobRequest{State: "running", Health: "unhealthy", Error: "slow disk"})
	if err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	if up.State != "running" || up.Health != "unhealthy" || up.LastError != "slow disk" {
		t.Fatalf("updated=%+v", up)
	}
	if _, err := s.UpdateJob(j.ID, types.UpdateJobRequest{State: "flying"}); statusOf(err) != 400 {
		t.Fatalf("expected 400 for bad state, got %v", err)
	}
	if _, err := s.UpdateJob(j.ID, types.UpdateJobRequest{State: "running", Health: "meh"}); statusOf(err) != 400 {
		t.Fatalf("expected 400 for bad health, got %v", err)
	}
	if _, err := s.UpdateJob("nope", types.UpdateJobRequest{State: "running"}); !jobregistry.IsJobNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.RemoveJob(j.ID); err != nil {
		t.Fatalf("RemoveJob: %v", err)
	}
	if _, err := s.Job(j.ID); !jobregistry.IsJobNotFound(err) {
		t.Fatalf("expected not found after remove, got %v", err)
	}
	if err := s.RemoveJob(j.ID); !jobregistry.IsJobNotFound(err) {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
}

func recv(t *testing.T, ch <-chan types.JobEvent) types.JobEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return types.JobEvent{}
}

func TestWatch_FiltersAndStops(t *testing.T) {
	s := newTestService(t)
	out := make(chan types.JobEvent, 16)
	done, stop, err := s.Watch("w", []jobregistry.EventType{jobregistry.EventRemove}, out)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	j, _ := s.CreateJob("short-lived")
	if err := s.RemoveJob(j.ID); err != nil {
		t.Fatalf("RemoveJob: %v", err)
	}
	ev := recv(t, out)
	if ev.Type != "remove" || ev.Job.ID != j.ID {
		t.Fatalf("event=%+v", ev)
	}
	select {
	case extra := <-out:
		t.Fatalf("unexpected event through filter: %+v", extra)
	default:
	}
	stop()
	<-done
	if _, err := s.CreateJob("after"); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	select {
	case extra := <-out:
		t.Fatalf("event after stop: %+v", extra)
	default:
	}
}

func TestWatch_AppearsAsRuntimeJob(t *testing.T) {
	s := newTestService(t)
	out := make(chan types.JobEvent, 16)
	done, stop, err := s.Watch("w", nil, out)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer stop()
	first := recv(t, out)
	if first.Type != "add" || first.Job.Name != "w" {
		t.Fatalf("first event=%+v", first)
	}
	if _, err := s.UpdateJob(first.Job.ID, types.UpdateJobRequest{State: "paused"}); statusOf(err) != 409 {
		t.Fatalf("expected 409 updating a runtime job, got %v", err)
	}
	if err := s.RemoveJob(first.Job.ID); err != nil {
		t.Fatalf("RemoveJob: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("removing the watch job did not end the watch")
	}
}

func TestWatch_DropsWhenBufferFull(t *testing.T) {
	s := newTestService(t)
	out := make(chan types.JobEvent, 1)
	_, stop, err := s.Watch("w", []jobregistry.EventType{jobregistry.EventAdd}, out)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer stop()
	// The watch's own add replay fills the buffer; these must not block.
	for i := 0; i < 5; i++ {
		if _, err := s.CreateJob("j"); err != nil {
			t.Fatalf("CreateJob: %v", err)
		}
	}
	if len(out) != 1 {
		t.Fatalf("buffer len=%d, want 1", len(out))
	}
}
