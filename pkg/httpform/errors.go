package httpform

import (
	"errors"
	"net/http"
)

var (
	ErrNoSubmitHandler = errors.New("httpform: form has no submit handler")
	ErrBadContainer    = errors.New("httpform: container is not attached to a document")
)

// HTTPError is an error with a status code and a stable key clients can
// translate.
type HTTPError struct {
	Code int
	Key  string
}

func (e HTTPError) Error() string {
	return e.Key
}

var (
	ErrBadRequest      = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrInvalidSession  = HTTPError{Code: http.StatusBadRequest, Key: "invalid_session"}
	ErrFormNotFound    = HTTPError{Code: http.StatusNotFound, Key: "form_not_found"}
	ErrFieldNotFound   = HTTPError{Code: http.StatusNotFound, Key: "field_not_found"}
	ErrNoBinding       = HTTPError{Code: http.StatusNotFound, Key: "no_binding"}
	ErrConflict        = HTTPError{Code: http.StatusConflict, Key: "conflict"}
	ErrEntityTooLarge  = HTTPError{Code: http.StatusRequestEntityTooLarge, Key: "request_entity_too_large"}
	ErrUnsupportedType = HTTPError{Code: http.StatusUnsupportedMediaType, Key: "unsupported_media_type"}
	ErrNotReady        = HTTPError{Code: http.StatusServiceUnavailable, Key: "not_ready"}
)
