package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
)

func TestServerErrorKeepsBody(t *testing.T) {
	var hits int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "upstream exploded"}`))
	}))
	defer srv.Close()

	c := NewClient()
	c.Retries = 3

	_, err := c.Request("GET", srv.URL)

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatal("expected an HTTPError, got:", err)
	}
	if httpErr.Status != http.StatusInternalServerError {
		t.Fatal("wrong status:", httpErr.Status)
	}

	// The last attempt's body must survive into the error.
	if httpErr.Message != "upstream exploded" {
		t.Fatalf("error payload lost on the final attempt: %q", httpErr.Message)
	}
	if hits != 3 {
		t.Fatal("wrong attempt count:", hits)
	}
}
