package topology

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"jobstream/internal/jobregistry"
	"jobstream/internal/runtime"
)

// Provider creates topologies bound to a set of runtime services and runs
// them as jobs.
type Provider struct {
	services *runtime.Services
	seq      atomic.Uint64
	log      zerolog.Logger
}

// NewProvider returns a provider over svcs. A nil svcs gets an empty registry.
func NewProvider(svcs *runtime.Services) *Provider {
	if svcs == nil {
		svcs = runtime.NewServices()
	}
	return &Provider{services: svcs, log: zerolog.Nop()}
}

// SetLogger installs a structured logger.
func (p *Provider) SetLogger(l zerolog.Logger) {
	p.log = l.With().Str("component", "topology").Logger()
}

func (p *Provider) Services() *runtime.Services { return p.services }

// NewTopology returns an empty topology whose sources see the provider's services.
func (p *Provider) NewTopology(name string) *Topology {
	return New(name, func() *runtime.Services { return p.services })
}

// Submit starts top. The returned execution is registered with the job
// registry, when one is available, before any source is activated, and is
// running once Submit returns. Submit returns ErrClosed when the execution
// was closed, for example through the registry, before it started.
func (p *Provider) Submit(top *Topology) (*Execution, error) {
	srcs := top.bindings()
	if len(srcs) == 0 {
		return nil, ErrEmptyTopology
	}
	reg, _ := runtime.Lookup[*jobregistry.Registry](p.services, jobregistry.ServiceKind)
	e := newExecution(fmt.Sprintf("job-%d", p.seq.Add(1)), top.Name(), srcs, reg, p.log)
	if reg != nil {
		if err := reg.AddJob(e); err != nil {
			return nil, err
		}
	}
	executionsActive.Inc()
	if err := e.start(); err != nil {
		if errors.Is(err, ErrClosed) {
			return nil, err
		}
		e.SetHealth(jobregistry.HealthUnhealthy, err.Error())
		e.Close()
		return nil, err
	}
	e.log.Info().Int("sources", len(srcs)).Msg("execution running")
	return e, nil
}

// RunUntil blocks until ctx is done or e is closed, then closes e.
func RunUntil(ctx context.Context, e *Execution) {
	select {
	case <-ctx.Done():
	case <-e.Done():
	}
	e.Close()
}
