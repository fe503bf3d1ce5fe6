package httputil

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kagerou/hibiki/utils/json"
)

// JSONError is returned if the response body is not valid JSON.
type JSONError struct {
	err error
}

func (j JSONError) Error() string {
	return "JSON decoding failed: " + j.err.Error()
}

func (j JSONError) Unwrap() error {
	return j.err
}

// RequestError is returned if the request fails on the transport, that is,
// the server was never reached.
type RequestError struct {
	Err error
}

func (r RequestError) Error() string {
	return "request failed: " + r.Err.Error()
}

func (r RequestError) Unwrap() error {
	return r.Err
}

// HTTPError is returned if the server responds with an error of any kind.
type HTTPError struct {
	Status int    `json:"-"`
	Body   []byte `json:"-"`

	Code    uint     `json:"code,omitempty"`
	Errors  json.Raw `json:"errors,omitempty"`
	Message string   `json:"message,omitempty"`

	// RetryAfter is only set on 429 responses.
	RetryAfter time.Duration `json:"-"`
}

func (err HTTPError) Error() string {
	switch {
	case err.Message != "":
		return fmt.Sprintf("Discord %d error: %s", err.Status, err.Message)

	case err.Code > 0:
		return fmt.Sprintf("Discord returned status %d error code %d",
			err.Status, err.Code)

	case len(err.Body) > 0:
		return fmt.Sprintf("Discord returned status %d body %s",
			err.Status, string(err.Body))

	default:
		return "Discord returned status " + strconv.Itoa(err.Status)
	}
}
