package topology

import (
	"sync"

	"github.com/rs/zerolog"

	"jobstream/internal/jobregistry"
)

// Execution is a running topology. It implements jobregistry.Job.
type Execution struct {
	id   string
	name string

	mu      sync.RWMutex
	cur     jobregistry.State
	next    jobregistry.State
	health  jobregistry.Health
	lastErr string

	// lifeMu orders source activation against Close.
	lifeMu    sync.Mutex
	closing   bool
	sources   []sourceBinding
	activated int
	reg       *jobregistry.Registry
	log       zerolog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

func newExecution(id, name string, srcs []sourceBinding, reg *jobregistry.Registry, log zerolog.Logger) *Execution {
	return &Execution{
		id:      id,
		name:    name,
		cur:     jobregistry.StateConstructed,
		next:    jobregistry.StateConstructed,
		health:  jobregistry.HealthHealthy,
		sources: srcs,
		reg:     reg,
		log:     log.With().Str("job_id", id).Str("topology", name).Logger(),
		done:    make(chan struct{}),
	}
}

func (e *Execution) ID() string   { return e.id }
func (e *Execution) Name() string { return e.name }

func (e *Execution) CurrentState() jobregistry.State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cur
}

func (e *Execution) NextState() jobregistry.State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.next
}

func (e *Execution) Health() jobregistry.Health {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.health
}

func (e *Execution) LastError() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastErr
}

// Done is closed once the execution has been closed.
func (e *Execution) Done() <-chan struct{} { return e.done }

// SetHealth records health and notifies the registry.
func (e *Execution) SetHealth(h jobregistry.Health, lastErr string) {
	e.mu.Lock()
	e.health, e.lastErr = h, lastErr
	e.mu.Unlock()
	if e.reg != nil {
		e.reg.UpdateJob(e)
	}
}

// ReportError marks the execution unhealthy. It is safe to call from inside
// a registry listener callback: the registry is notified on another goroutine.
func (e *Execution) ReportError(err error) {
	e.mu.Lock()
	e.health, e.lastErr = jobregistry.HealthUnhealthy, err.Error()
	e.mu.Unlock()
	e.log.Warn().Err(err).Msg("execution reported error")
	if e.reg != nil {
		go e.reg.UpdateJob(e)
	}
}

// Close deactivates the sources in reverse declaration order, then removes
// the execution from the registry. Close is idempotent and waits for a
// concurrent start to finish activating before tearing sources down.
func (e *Execution) Close() {
	e.closeOnce.Do(func() {
		e.lifeMu.Lock()
		e.closing = true
		e.mu.Lock()
		e.next = jobregistry.StateClosed
		e.mu.Unlock()
		for i := e.activated - 1; i >= 0; i-- {
			e.deactivate(e.sources[i])
		}
		e.activated = 0
		e.transition(jobregistry.StateClosed)
		e.lifeMu.Unlock()
		if e.reg != nil {
			e.reg.RemoveJob(e.id)
		}
		executionsActive.Dec()
		e.log.Info().Msg("execution closed")
		close(e.done)
	})
}

func (e *Execution) transition(s jobregistry.State) {
	e.mu.Lock()
	e.cur, e.next = s, s
	e.mu.Unlock()
	if e.reg != nil {
		e.reg.UpdateJob(e)
	}
}

// start moves the execution to initialized, activates sources in
// declaration order and marks it running. It returns ErrClosed when Close
// got there first, and stops at the first source that panics; only started
// sources are deactivated on Close.
func (e *Execution) start() error {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()
	if e.closing {
		return ErrClosed
	}
	e.transition(jobregistry.StateInitialized)
	for _, src := range e.sources {
		if e.closing {
			return ErrClosed
		}
		if err := e.activateOne(src); err != nil {
			return err
		}
		e.activated++
	}
	e.transition(jobregistry.StateRunning)
	return nil
}

func (e *Execution) activateOne(src sourceBinding) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = activationError{topology: e.name, cause: rec}
		}
	}()
	src.activate()
	return nil
}

func (e *Execution) deactivate(src sourceBinding) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Error().Interface("panic", rec).Msg("source deactivate panicked")
		}
	}()
	src.deactivate()
}
