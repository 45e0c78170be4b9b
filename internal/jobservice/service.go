// Package jobservice implements the operations behind the HTTP API on top of
// the job registry and the topology provider.
package jobservice

import (
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"jobstream/internal/jobevents"
	"jobstream/internal/jobregistry"
	"jobstream/internal/topology"
	"jobstream/pkg/types"
)

// Service exposes the job registry to API clients.
type Service struct {
	reg      *jobregistry.Registry
	provider *topology.Provider
	ready    atomic.Bool
	log      zerolog.Logger
}

// New publishes reg among the provider's runtime services and returns a
// service over both.
func New(reg *jobregistry.Registry, p *topology.Provider) *Service {
	reg.Publish(p.Services())
	return &Service{reg: reg, provider: p, log: zerolog.Nop()}
}

// SetLogger installs a structured logger.
func (s *Service) SetLogger(l zerolog.Logger) {
	s.log = l.With().Str("component", "jobservice").Logger()
}

// Seed registers a running record for each name and marks the service ready.
func (s *Service) Seed(names []string) error {
	for _, n := range names {
		if _, err := s.createRecord(n, jobregistry.StateRunning); err != nil {
			return err
		}
	}
	s.ready.Store(true)
	return nil
}

func (s *Service) Ready() bool { return s.ready.Load() }

func (s *Service) Jobs() []types.Job {
	jobs := s.reg.Jobs()
	out := make([]types.Job, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, jobevents.Snapshot(j))
	}
	return out
}

func (s *Service) Job(id string) (types.Job, error) {
	j, err := s.reg.Job(id)
	if err != nil {
		return types.Job{}, err
	}
	return jobevents.Snapshot(j), nil
}

// CreateJob registers an externally managed job.
func (s *Service) CreateJob(name string) (types.Job, error) {
	return s.createRecord(name, jobregistry.StateConstructed)
}

func (s *Service) createRecord(name string, st jobregistry.State) (types.Job, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Job{}, errInvalid("name is required")
	}
	rec := jobregistry.NewRecord(name)
	rec.SetState(st)
	if err := s.reg.AddJob(rec); err != nil {
		return types.Job{}, err
	}
	return jobevents.Snapshot(rec), nil
}

// UpdateJob applies a state and optional health change to an externally
// managed job.
func (s *Service) UpdateJob(id string, req types.UpdateJobRequest) (types.Job, error) {
	j, err := s.reg.Job(id)
	if err != nil {
		return types.Job{}, err
	}
	rec, ok := j.(*jobregistry.Record)
	if !ok {
		return types.Job{}, errConflict("job " + id + " is managed by the runtime")
	}
	st, ok := jobregistry.ParseState(req.State)
	if !ok {
		return types.Job{}, errInvalid("unknown state: " + req.State)
	}
	var h jobregistry.Health
	switch jobregistry.Health(req.Health) {
	case "":
		h = rec.Health()
	case jobregistry.HealthHealthy, jobregistry.HealthUnhealthy:
		h = jobregistry.Health(req.Health)
	default:
		return types.Job{}, errInvalid("unknown health: " + req.Health)
	}
	rec.SetState(st)
	rec.SetHealth(h, req.Error)
	s.reg.UpdateJob(rec)
	return jobevents.Snapshot(rec), nil
}

// RemoveJob unregisters a record, or closes a running topology.
func (s *Service) RemoveJob(id string) error {
	j, err := s.reg.Job(id)
	if err != nil {
		return err
	}
	if e, ok := j.(*topology.Execution); ok {
		e.Close()
		return nil
	}
	if !s.reg.RemoveJob(id) {
		return jobregistry.ErrJobNotFound(id)
	}
	return nil
}

// Watch runs a topology that forwards job events of the given types (all
// types when filter is empty) to out. Events that do not fit in out are
// dropped. The returned channel is closed when the watch ends, either
// through stop or because its job was removed.
func (s *Service) Watch(name string, filter []jobregistry.EventType, out chan<- types.JobEvent) (done <-chan struct{}, stop func(), err error) {
	top := s.provider.NewTopology(name)
	var exec atomic.Pointer[topology.Execution]
	stream := jobevents.Source(top, jobevents.ToEvent,
		jobevents.WithLogger(s.log),
		jobevents.WithErrorHandler(func(err error) {
			if e := exec.Load(); e != nil {
				e.ReportError(err)
			}
		}),
	)
	if len(filter) > 0 {
		keep := make(map[string]bool, len(filter))
		for _, t := range filter {
			keep[t.String()] = true
		}
		stream = stream.Filter(func(ev types.JobEvent) bool { return keep[ev.Type] })
	}
	stream.Sink(func(ev types.JobEvent) {
		select {
		case out <- ev:
		default:
			watchDroppedTotal.Inc()
		}
	})
	e, err := s.provider.Submit(top)
	if err != nil {
		return nil, nil, err
	}
	exec.Store(e)
	watchesActive.Inc()
	go func() {
		<-e.Done()
		watchesActive.Dec()
	}()
	s.log.Debug().Str("job_id", e.ID()).Int("filter", len(filter)).Msg("watch started")
	return e.Done(), e.Close, nil
}
