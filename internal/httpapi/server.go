package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jobstream/internal/jobregistry"
	"jobstream/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Jobs() []types.Job
	Job(id string) (types.Job, error)
	CreateJob(name string) (types.Job, error)
	UpdateJob(id string, req types.UpdateJobRequest) (types.Job, error)
	RemoveJob(id string) error
	// Watch streams job events into out until stop is called or done closes.
	Watch(name string, filter []jobregistry.EventType, out chan<- types.JobEvent) (done <-chan struct{}, stop func(), err error)
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(RequestLogger)
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}

	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, types.JobsResponse{Jobs: svc.Jobs()})
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req types.CreateJobRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			if strings.TrimSpace(req.Name) == "" {
				writeJSONError(w, http.StatusBadRequest, "name is required")
				return
			}
			job, err := svc.CreateJob(req.Name)
			if err != nil {
				writeJSONError(w, statusFor(err), err.Error())
				return
			}
			writeJSON(w, http.StatusCreated, job)
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			job, err := svc.Job(chi.URLParam(r, "id"))
			if err != nil {
				writeJSONError(w, statusFor(err), err.Error())
				return
			}
			writeJSON(w, http.StatusOK, job)
		})
		r.Post("/{id}/state", func(w http.ResponseWriter, r *http.Request) {
			var req types.UpdateJobRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			job, err := svc.UpdateJob(chi.URLParam(r, "id"), req)
			if err != nil {
				writeJSONError(w, statusFor(err), err.Error())
				return
			}
			writeJSON(w, http.StatusOK, job)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := svc.RemoveJob(chi.URLParam(r, "id")); err != nil {
				writeJSONError(w, statusFor(err), err.Error())
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})

	r.Get("/events", eventsHandler(svc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("starting"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// decodeJSON enforces the JSON content type and body limit, writing the
// error response itself when it returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Oversized bodies also land here; report 400 without size details.
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
