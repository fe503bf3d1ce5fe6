package session

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/kagerou/hibiki/api"
	"github.com/kagerou/hibiki/tokencache"
)

func newLoginSession(t *testing.T, srvURL string) *Session {
	t.Helper()

	dir, err := ioutil.TempDir("", "hibiki-login")
	if err != nil {
		t.Fatal("failed to make temp dir:", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	s := New("alice@example.com", "pw", "hibiki-test")
	s.Log = zerolog.Nop()
	s.Tokens = tokencache.New(filepath.Join(dir, "tokens.msgpack"))
	s.Client.Endpoint = srvURL + "/"
	s.Client.Retries = 1
	s.LoginRetryDelay = 5 * time.Millisecond

	return s
}

func TestLoginViaCache(t *testing.T) {
	var logins int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logins++
		w.Write([]byte(`{"token":"XYZ"}`))
	}))
	defer srv.Close()

	s := newLoginSession(t, srv.URL)
	if err := s.Tokens.Store("alice@example.com", "pw", "ABC"); err != nil {
		t.Fatal("failed to seed cache:", err)
	}

	token, err := s.login()
	if err != nil {
		t.Fatal("login failed:", err)
	}
	if token != "ABC" {
		t.Fatal("cached token not used:", token)
	}
	if logins != 0 {
		t.Fatal("cache hit still called the login endpoint")
	}
}

func TestFreshLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"XYZ"}`))
	}))
	defer srv.Close()

	s := newLoginSession(t, srv.URL)

	token, err := s.login()
	if err != nil {
		t.Fatal("login failed:", err)
	}
	if token != "XYZ" {
		t.Fatal("wrong token:", token)
	}

	// The fresh token is persisted for the next run.
	if cached, ok := s.Tokens.Lookup("alice@example.com", "pw"); !ok || cached != "XYZ" {
		t.Fatal("token not persisted, got:", cached)
	}
}

func TestLoginTransientRetry(t *testing.T) {
	var attempts int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(523)
			return
		}
		w.Write([]byte(`{"token":"XYZ"}`))
	}))
	defer srv.Close()

	s := newLoginSession(t, srv.URL)

	start := time.Now()
	token, err := s.login()
	if err != nil {
		t.Fatal("login failed:", err)
	}
	if token != "XYZ" {
		t.Fatal("wrong token:", token)
	}
	if attempts != 3 {
		t.Fatal("expected 3 attempts, got", attempts)
	}
	if elapsed := time.Since(start); elapsed < 2*s.LoginRetryDelay {
		t.Fatal("retries did not sleep between attempts:", elapsed)
	}
}

func TestLoginRejected(t *testing.T) {
	for _, status := range []int{400, 401} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		s := newLoginSession(t, srv.URL)

		_, err := s.login()
		if !errors.Is(err, api.ErrInvalidAuthentication) {
			t.Fatalf("status %d surfaced as %v, want invalid authentication", status, err)
		}

		srv.Close()
	}
}

func TestLoginTokenIdentity(t *testing.T) {
	s := New(TokenIdentity, "A-token", "hibiki-test")
	s.Log = zerolog.Nop()
	s.Tokens = nil

	token, err := s.login()
	if err != nil {
		t.Fatal("login failed:", err)
	}
	if token != "A-token" {
		t.Fatal("sentinel identity did not use the secret as token:", token)
	}
}
