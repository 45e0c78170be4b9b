package jobregistry

// jobNotFoundError is returned when a job id is not registered.
type jobNotFoundError struct{ id string }

func (e jobNotFoundError) Error() string { return "job not found: " + e.id }

// ErrJobNotFound returns an error for a missing job id.
func ErrJobNotFound(id string) error { return jobNotFoundError{id: id} }

// IsJobNotFound reports whether err indicates a missing job id.
func IsJobNotFound(err error) bool {
	_, ok := err.(jobNotFoundError)
	return ok
}

// jobExistsError signals a duplicate registration.
type jobExistsError struct{ id string }

func (e jobExistsError) Error() string { return "job already registered: " + e.id }

// ErrJobExists returns an error for a duplicate job id.
func ErrJobExists(id string) error { return jobExistsError{id: id} }

// IsJobExists reports whether err indicates a duplicate job id.
func IsJobExists(err error) bool {
	_, ok := err.(jobExistsError)
	return ok
}
