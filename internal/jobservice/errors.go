package jobservice

import "net/http"

// requestError is a client error that carries its HTTP status.
type requestError struct {
	msg  string
	code int
}

func (e requestError) Error() string   { return e.msg }
func (e requestError) StatusCode() int { return e.code }

func errInvalid(msg string) error  { return requestError{msg: msg, code: http.StatusBadRequest} }
func errConflict(msg string) error { return requestError{msg: msg, code: http.StatusConflict} }
