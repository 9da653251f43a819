package cma

import (
	"fmt"
	"sync"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Store caches prepared assumption sets by version. Preparing a table
// (validation plus Cholesky factorization) happens once per version; every
// subsequent load returns the same read-only value, so a given version always
// yields bit-identical assumptions.
type Store struct {
	cache  *cache.Cache
	logger *logrus.Logger
	mu     sync.Mutex
}

// NewStore creates an assumption store. Entries never expire; versions are
// immutable once registered.
func NewStore(logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{
		cache:  cache.New(cache.NoExpiration, cache.NoExpiration),
		logger: logger,
	}
}

// Register prepares an assumption set and caches it under its version.
// Re-registering a version with different content is rejected: updates must
// produce a new version identifier.
func (s *Store) Register(a Assumptions) (*Prepared, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, found := s.cache.Get(a.Version); found {
		prepared := existing.(*Prepared)
		if prepared.ContentHash != a.Hash() {
			return nil, fmt.Errorf("%w: version %q already registered with different content", ErrInvalidAssumptions, a.Version)
		}
		return prepared, nil
	}

	prepared, err := Prepare(a)
	if err != nil {
		return nil, err
	}
	s.cache.Set(a.Version, prepared, cache.NoExpiration)
	s.logger.WithFields(logrus.Fields{
		"cma_version": prepared.Version,
		"cma_hash":    prepared.ContentHash,
		"factors":     prepared.Factors(),
	}).Info("Capital market assumptions registered")
	return prepared, nil
}

// Load returns the prepared assumption set for a version.
func (s *Store) Load(version string) (*Prepared, error) {
	if entry, found := s.cache.Get(version); found {
		return entry.(*Prepared), nil
	}
	return nil, fmt.Errorf("%w: unknown version %q", ErrInvalidAssumptions, version)
}
