package api

import (
	"net"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/kagerou/hibiki/utils/httputil"
)

var (
	// ErrInvalidAuthentication means the credentials were rejected. It is
	// fatal: retrying with the same credentials cannot succeed.
	ErrInvalidAuthentication = errors.New("invalid authentication")

	// ErrNoPermission means the bot lacks rights on the resource.
	ErrNoPermission = errors.New("no permission")

	// ErrNotFound means the ID does not resolve.
	ErrNotFound = errors.New("not found")
)

// RateLimitError is returned on a 429. Retrying is the caller's
// responsibility.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e RateLimitError) Error() string {
	return "rate limited, retry after " + e.RetryAfter.String()
}

// mapError converts httputil errors to the semantic values above. Transport
// failures keep their httputil.RequestError identity.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var httpErr *httputil.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.Status {
		case 401:
			return errors.Wrap(ErrInvalidAuthentication, httpErr.Error())
		case 403:
			return errors.Wrap(ErrNoPermission, httpErr.Error())
		case 404:
			return errors.Wrap(ErrNotFound, httpErr.Error())
		case httputil.StatusTooManyRequests:
			return RateLimitError{RetryAfter: httpErr.RetryAfter}
		}
	}

	return err
}

// IsTransient reports whether the error is worth retrying the login loop
// over: transport-level failures (DNS resolution included) and the
// Cloudflare 523 "origin unreachable" status.
func IsTransient(err error) bool {
	var reqErr httputil.RequestError
	if errors.As(err, &reqErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	// Windows resolvers surface DNS failures with this message.
	if strings.Contains(err.Error(), "No such host is known.") {
		return true
	}

	var httpErr *httputil.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status == 523 || httpErr.Status >= 500
	}

	return false
}

// HTTPStatus extracts the status code of an HTTP error response, or 0.
func HTTPStatus(err error) int {
	var httpErr *httputil.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}
