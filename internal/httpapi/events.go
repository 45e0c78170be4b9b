package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"jobstream/internal/jobregistry"
	"jobstream/pkg/types"
)

// parseEventTypes parses a comma-separated list such as "add,update".
func parseEventTypes(s string) ([]jobregistry.EventType, error) {
	var out []jobregistry.EventType
	for _, p := range strings.Split(s, ",") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		t, err := jobregistry.ParseEventType(p)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// eventsHandler streams job events as NDJSON until the client goes away,
// the server shuts down or the watch job is removed.
func eventsHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseEventTypes(r.URL.Query().Get("type"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		name := "http-events"
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			name += "-" + rid
		}
		// The response writer is only used from this goroutine; the watch
		// hands events over through out.
		out := make(chan types.JobEvent, eventBuffer)
		done, stop, err := svc.Watch(name, filter, out)
		if err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		defer stop()

		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		flush := func() {}
		if f, ok := w.(http.Flusher); ok {
			flush = f.Flush
			flush()
		}
		debug := requestLogLevel(r) >= LevelDebug && zlog != nil
		enc := json.NewEncoder(w)
		write := func(ev types.JobEvent) bool {
			if err := enc.Encode(ev); err != nil {
				return false
			}
			flush()
			eventsStreamedTotal.Inc()
			if debug {
				zlog.Debug().Str("watch", name).Str("type", ev.Type).Str("job_id", ev.Job.ID).Msg("event streamed")
			}
			return true
		}
		for {
			select {
			case ev := <-out:
				if !write(ev) {
					return
				}
			case <-done:
				// Nothing is sent after done closes; write what is queued.
				for {
					select {
					case ev := <-out:
						if !write(ev) {
							return
						}
					default:
						return
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}
}
