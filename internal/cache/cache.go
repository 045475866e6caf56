// Package cache provides input-identity memoization for the pure load and
// build operations. The underlying functions stay side-effect free, so the
// cache is an optional performance layer, not a correctness dependency.
package cache

import (
	"crypto/sha256"
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rotisserie/eris"
)

// Store is a bounded LRU memo keyed by input identity.
type Store[V any] struct {
	lru *lru.Cache[string, V]
}

// New creates a Store holding up to size entries.
func New[V any](size int) (*Store[V], error) {
	c, err := lru.New[string, V](size)
	if err != nil {
		return nil, eris.Wrap(err, "cache: new lru")
	}
	return &Store[V]{lru: c}, nil
}

// Get returns the memoized value for a key, if present.
func (s *Store[V]) Get(key string) (V, bool) {
	return s.lru.Get(key)
}

// Add memoizes a value under a key.
func (s *Store[V]) Add(key string, v V) {
	s.lru.Add(key, v)
}

// Len reports the number of memoized entries.
func (s *Store[V]) Len() int {
	return s.lru.Len()
}

// FileKey returns SHA-256 hex over a file's path, size, and modification
// time: a cheap identity that changes whenever the file does, with no
// invalidation logic beyond re-statting.
func FileKey(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", eris.Wrapf(err, "cache: stat %s", path)
	}
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())))
	return fmt.Sprintf("%x", h), nil
}
