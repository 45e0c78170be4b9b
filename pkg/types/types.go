// Package types holds the JSON shapes shared by the HTTP API and the CLI.
package types

// Job is a point-in-time view of a registered job.
type Job struct {
	// Registry id of the job.
	// example: job-1
	ID string `json:"id" example:"job-1"`
	// Human readable name.
	// example: ingest
	Name string `json:"name" example:"ingest"`
	// Current lifecycle state.
	// example: running
	State string `json:"state" example:"running"`
	// State the job is transitioning to; equals state when idle.
	// example: running
	NextState string `json:"next_state" example:"running"`
	// example: healthy
	Health string `json:"health" example:"healthy"`
	// Last reported error, if any.
	LastError string `json:"last_error,omitempty"`
}

// JobEvent is one job registry notification as carried on an event stream.
type JobEvent struct {
	// add, remove or update.
	// example: add
	Type string `json:"type" example:"add"`
	Job  Job    `json:"job"`
}

// JobsResponse wraps the list returned by GET /jobs.
type JobsResponse struct {
	Jobs []Job `json:"jobs"`
}

// CreateJobRequest is the body of POST /jobs.
type CreateJobRequest struct {
	// example: nightly-export
	Name string `json:"name" example:"nightly-export"`
}

// UpdateJobRequest is the body of POST /jobs/{id}/state.
type UpdateJobRequest struct {
	// Target state: constructed, initialized, running, paused or closed.
	// example: running
	State string `json:"state" example:"running"`
	// Optional health: healthy or unhealthy.
	// example: unhealthy
	Health string `json:"health,omitempty" example:"unhealthy"`
	// Optional error message recorded with the health.
	Error string `json:"error,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
