// Package jobevents turns job registry notifications into stream tuples.
//
// Source declares a stream on a topology. When the topology runs, the source
// looks up the job registry among the topology's runtime services, binds the
// stream's submit function into its listener and subscribes the listener.
// Every event the registry delivers is passed through the caller's transform
// and submitted on the stream, on the registry's goroutine. When the
// topology stops, the listener is unsubscribed. Without a registry the
// source never emits.
//
// A transform that panics drops that one event: the failure is logged,
// counted and passed to the handler given with WithErrorHandler, and the
// subscription stays in place.
package jobevents
