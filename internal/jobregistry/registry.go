package jobregistry

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"jobstream/internal/runtime"
)

// ServiceKind is the runtime service kind under which a *Registry is published.
const ServiceKind runtime.Kind = "jobregistry"

// Registry tracks jobs and notifies listeners about changes.
//
// Every mutation and every listener change holds dispatchMu for the whole
// notification, so events reach listeners in the order the registry changed
// and RemoveListener cannot return while a callback to that listener runs.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]Job

	dispatchMu sync.Mutex
	listeners  []Listener

	log zerolog.Logger
}

func New() *Registry {
	return &Registry{jobs: make(map[string]Job), log: zerolog.Nop()}
}

// SetLogger installs a structured logger.
func (r *Registry) SetLogger(l zerolog.Logger) {
	r.dispatchMu.Lock()
	r.log = l.With().Str("component", "jobregistry").Logger()
	r.dispatchMu.Unlock()
}

// Publish registers r in svcs under ServiceKind.
func (r *Registry) Publish(svcs *runtime.Services) { svcs.Register(ServiceKind, r) }

// AddListener subscribes l and replays an EventAdd for every job already
// registered, to l only. Adding a listener that is already subscribed is a
// no-op.
func (r *Registry) AddListener(l Listener) {
	if l == nil {
		return
	}
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()
	for _, x := range r.listeners {
		if x == l {
			return
		}
	}
	r.listeners = append(r.listeners, l)
	registryListeners.Inc()
	r.log.Debug().Int("listeners", len(r.listeners)).Msg("listener added")
	for _, j := range r.Jobs() {
		r.deliver(l, EventAdd, j)
	}
}

// RemoveListener unsubscribes exactly l and reports whether it was subscribed.
func (r *Registry) RemoveListener(l Listener) bool {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()
	for i, x := range r.listeners {
		if x == l {
			r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
			registryListeners.Dec()
			r.log.Debug().Int("listeners", len(r.listeners)).Msg("listener removed")
			return true
		}
	}
	return false
}

// Listeners returns the number of subscribed listeners.
func (r *Registry) Listeners() int {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()
	return len(r.listeners)
}

// AddJob registers job and emits EventAdd.
func (r *Registry) AddJob(job Job) error {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()
	r.mu.Lock()
	if _, ok := r.jobs[job.ID()]; ok {
		r.mu.Unlock()
		return ErrJobExists(job.ID())
	}
	r.jobs[job.ID()] = job
	registryJobs.Inc()
	r.mu.Unlock()
	r.log.Info().Str("job_id", job.ID()).Str("name", job.Name()).Msg("job added")
	r.notify(EventAdd, job)
	return nil
}

// RemoveJob unregisters the job with the given id and emits EventRemove.
// It reports whether the job was registered.
func (r *Registry) RemoveJob(id string) bool {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()
	r.mu.Lock()
	job, ok := r.jobs[id]
	if ok {
		delete(r.jobs, id)
		registryJobs.Dec()
	}
	r.mu.Unlock()
	if !ok {
		return false
	}
	r.log.Info().Str("job_id", id).Msg("job removed")
	r.notify(EventRemove, job)
	return true
}

// UpdateJob emits EventUpdate for a registered job. It reports false, and
// emits nothing, when job is not registered.
func (r *Registry) UpdateJob(job Job) bool {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()
	r.mu.RLock()
	_, ok := r.jobs[job.ID()]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	r.log.Debug().Str("job_id", job.ID()).Str("state", string(job.CurrentState())).Msg("job updated")
	r.notify(EventUpdate, job)
	return true
}

// Job returns the registered job with the given id.
func (r *Registry) Job(id string) (Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, ErrJobNotFound(id)
	}
	return j, nil
}

// Jobs returns a snapshot of registered jobs sorted by id.
func (r *Registry) Jobs() []Job {
	r.mu.RLock()
	out := make([]Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, k int) bool { return out[i].ID() < out[k].ID() })
	return out
}

// notify must be called with dispatchMu held.
func (r *Registry) notify(t EventType, job Job) {
	for _, l := range r.listeners {
		r.deliver(l, t, job)
	}
}

func (r *Registry) deliver(l Listener, t EventType, job Job) {
	defer func() {
		if rec := recover(); rec != nil {
			listenerPanicsTotal.Inc()
			r.log.Error().Str("job_id", job.ID()).Stringer("type", t).Interface("panic", rec).Msg("listener panicked")
		}
	}()
	registryEventsTotal.WithLabelValues(t.String()).Inc()
	l.OnJobEvent(t, job)
}
