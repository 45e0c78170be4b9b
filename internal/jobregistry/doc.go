// Package jobregistry provides the job registry runtime service: a set of
// jobs keyed by id plus the listeners that are notified whenever a job is
// added, removed or updated. It is structured into small files by concern:
//
//   - registry.go: Registry type, job bookkeeping and listener dispatch.
//   - types.go: State, Health and the Job interface.
//   - events.go: EventType, Event and the Listener interface.
//   - record.go: Record, a mutable Job for externally managed work.
//   - listener_memory.go: MemoryListener for tests and diagnostics.
//   - errors.go: error types and helpers (IsJobNotFound, IsJobExists).
//   - metrics.go: Prometheus collectors.
//
// The registry is published to topologies through runtime.Services under
// ServiceKind. Listeners are called synchronously on the goroutine that
// changed the registry; once RemoveListener returns the listener is never
// called again.
package jobregistry
