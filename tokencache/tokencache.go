// Package tokencache persists session tokens across process restarts, keyed
// by the (identity, secret) pair so that changing the secret invalidates the
// old token.
package tokencache

import (
	"crypto/sha256"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"
)

// DefaultFilename is the cache file created under the user cache directory
// when no explicit path is given.
const DefaultFilename = "hibiki/tokens.msgpack"

type entry struct {
	Identity string `msgpack:"identity"`
	Digest   []byte `msgpack:"digest"`
	Token    string `msgpack:"token"`
}

// Cache is an on-disk token cache. The zero value is not usable; use New.
type Cache struct {
	mutex sync.Mutex
	path  string
}

// New creates a cache backed by the file at path. The file does not need to
// exist yet.
func New(path string) *Cache {
	return &Cache{path: path}
}

// NewDefault places the cache file under the OS user cache directory.
func NewDefault() (*Cache, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to locate user cache dir")
	}

	return New(filepath.Join(dir, DefaultFilename)), nil
}

// Lookup returns the token stored for the identity, if its secret digest
// matches. A token stored under a different secret is never returned.
func (c *Cache) Lookup(identity, secret string) (string, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entries, err := c.load()
	if err != nil {
		return "", false
	}

	digest := digestSecret(secret)

	for _, e := range entries {
		if e.Identity == identity && bytesEqual(e.Digest, digest) {
			return e.Token, true
		}
	}

	return "", false
}

// Store saves the token for the (identity, secret) pair, replacing any older
// entry for the identity.
func (c *Cache) Store(identity, secret, token string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entries, err := c.load()
	if err != nil {
		// A corrupt or missing cache is rebuilt from scratch.
		entries = nil
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.Identity != identity {
			kept = append(kept, e)
		}
	}

	kept = append(kept, entry{
		Identity: identity,
		Digest:   digestSecret(secret),
		Token:    token,
	})

	return c.save(kept)
}

func (c *Cache) load() ([]entry, error) {
	b, err := ioutil.ReadFile(c.path)
	if err != nil {
		return nil, err
	}

	var entries []entry
	if err := msgpack.Unmarshal(b, &entries); err != nil {
		return nil, errors.Wrap(err, "failed to decode token cache")
	}

	return entries, nil
}

func (c *Cache) save(entries []entry) error {
	b, err := msgpack.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, "failed to encode token cache")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return errors.Wrap(err, "failed to create cache dir")
	}

	if err := ioutil.WriteFile(c.path, b, 0600); err != nil {
		return errors.Wrap(err, "failed to write token cache")
	}

	return nil
}

func digestSecret(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
