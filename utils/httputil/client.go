// Package httputil provides abstractions around the common needs of HTTP,
// including retries and typed errors.
package httputil

import (
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/kagerou/hibiki/utils/json"
)

// StatusTooManyRequests is the status code Discord sends on rate-limiting.
const StatusTooManyRequests = 429

// Retries is the default number of attempts for requests that fail on the
// transport or with a server error, before giving up.
var Retries uint = 5

// Timeout is the default per-request timeout.
var Timeout = 30 * time.Second

type Client struct {
	http.Client
	json.Driver
	SchemaEncoder

	// OnRequest, if not nil, will be applied to each outgoing request.
	OnRequest []RequestOption

	// Retries defaults to the global Retries variable.
	Retries uint
}

func NewClient() *Client {
	return &Client{
		Client:        http.Client{Timeout: Timeout},
		Driver:        json.Default,
		SchemaEncoder: &DefaultSchema{},
		Retries:       Retries,
	}
}

func (c *Client) applyOptions(r *http.Request, extra []RequestOption) error {
	for _, opt := range c.OnRequest {
		if err := opt(r); err != nil {
			return err
		}
	}
	for _, opt := range extra {
		if err := opt(r); err != nil {
			return err
		}
	}

	return nil
}

// MeanwhileMultipart streams a multipart body from the writer callback while
// the request uploads it, without buffering the whole body in memory.
func (c *Client) MeanwhileMultipart(
	writer func(*multipart.Writer) error,
	method, url string, opts ...RequestOption) (*http.Response, error) {

	r, w := io.Pipe()
	body := multipart.NewWriter(w)

	go func() {
		err := writer(body)
		body.Close()
		w.CloseWithError(err)
	}()

	opts = PrependOptions(
		opts,
		WithBody(r),
		WithContentType(body.FormDataContentType()),
	)

	return c.Request(method, url, opts...)
}

// FastRequest performs a request and discards the response body.
func (c *Client) FastRequest(method, url string, opts ...RequestOption) error {
	r, err := c.Request(method, url, opts...)
	if err != nil {
		return err
	}

	return r.Body.Close()
}

// RequestJSON performs a request and decodes the response body into to. A nil
// to discards the body.
func (c *Client) RequestJSON(to interface{}, method, url string, opts ...RequestOption) error {
	opts = PrependOptions(opts, JSONRequest)

	r, err := c.Request(method, url, opts...)
	if err != nil {
		return err
	}
	defer r.Body.Close()

	// No content, working as intended (tm)
	if r.StatusCode == http.StatusNoContent || to == nil {
		return nil
	}

	if err := c.DecodeStream(r.Body, to); err != nil {
		return JSONError{err}
	}

	return nil
}

// Request performs the request, retrying on transport errors and server-side
// (5xx) failures. Client errors, including rate limits, are not retried; they
// come back as an *HTTPError.
func (c *Client) Request(method, url string, opts ...RequestOption) (*http.Response, error) {
	var r *http.Response
	var doErr error

	for i := uint(0); c.Retries < 1 || i < c.Retries; i++ {
		q, err := http.NewRequest(method, url, nil)
		if err != nil {
			return nil, RequestError{err}
		}

		if err := c.applyOptions(q, opts); err != nil {
			return nil, errors.Wrap(err, "failed to apply options")
		}

		r, doErr = c.Client.Do(q)
		if doErr != nil {
			continue
		}

		// Retry server errors, but the last attempt keeps its body open so
		// the error path below can still read the payload.
		if r.StatusCode >= 500 && (c.Retries < 1 || i+1 < c.Retries) {
			r.Body.Close()
			continue
		}

		break
	}

	// If all retries failed:
	if doErr != nil {
		return nil, RequestError{doErr}
	}

	// Response received, but with a failure status code:
	if r.StatusCode < 200 || r.StatusCode > 299 {
		httpErr := &HTTPError{
			Status: r.StatusCode,
		}

		b, err := ioutil.ReadAll(r.Body)
		r.Body.Close()
		if err == nil {
			httpErr.Body = b
			// Ignore the error; the body is optional.
			c.Unmarshal(b, httpErr)
		}

		if httpErr.Status == StatusTooManyRequests {
			httpErr.RetryAfter = retryAfter(r.Header, httpErr.Body, c.Driver)
		}

		return nil, httpErr
	}

	return r, nil
}

func retryAfter(h http.Header, body []byte, driver json.Driver) time.Duration {
	if ms, err := strconv.Atoi(h.Get("Retry-After")); err == nil {
		return time.Duration(ms) * time.Millisecond
	}

	var d struct {
		RetryAfter uint64 `json:"retry_after"`
	}
	if err := driver.Unmarshal(body, &d); err == nil {
		return time.Duration(d.RetryAfter) * time.Millisecond
	}

	return 0
}
