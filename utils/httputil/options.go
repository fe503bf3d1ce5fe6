package httputil

import (
	"io"
	"io/ioutil"
	"net/http"

	"github.com/kagerou/hibiki/utils/json"
)

type RequestOption func(*http.Request) error

type ResponseFunc func(*http.Request, *http.Response) error

func PrependOptions(opts []RequestOption, prepend ...RequestOption) []RequestOption {
	if len(opts) == 0 {
		return prepend
	}
	return append(prepend, opts...)
}

func JSONRequest(r *http.Request) error {
	r.Header.Set("Content-Type", "application/json")
	return nil
}

func WithHeaders(headers http.Header) RequestOption {
	return func(r *http.Request) error {
		for key, values := range headers {
			r.Header[key] = append(r.Header[key], values...)
		}
		return nil
	}
}

func WithContentType(ctype string) RequestOption {
	return func(r *http.Request) error {
		r.Header.Set("Content-Type", ctype)
		return nil
	}
}

func WithSchema(schema SchemaEncoder, v interface{}) RequestOption {
	return func(r *http.Request) error {
		params, err := schema.Encode(v)
		if err != nil {
			return err
		}

		var qs = r.URL.Query()
		for k, v := range params {
			qs[k] = append(qs[k], v...)
		}

		r.URL.RawQuery = qs.Encode()
		return nil
	}
}

func WithBody(body io.Reader) RequestOption {
	return func(r *http.Request) error {
		rc, ok := body.(io.ReadCloser)
		if !ok {
			rc = ioutil.NopCloser(body)
		}

		r.Body = rc
		r.ContentLength = -1
		return nil
	}
}

func WithJSONBody(driver json.Driver, v interface{}) RequestOption {
	if v == nil {
		return func(*http.Request) error {
			return nil
		}
	}

	var err error
	var rp, wp = io.Pipe()

	go func() {
		err = driver.EncodeStream(wp, v)
		wp.Close()
	}()

	return func(r *http.Request) error {
		if err != nil {
			return err
		}

		r.Header.Set("Content-Type", "application/json")
		r.Body = rp
		r.ContentLength = -1
		return nil
	}
}
