package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/ideabox-api/internal/repository"
)

type revocationStore struct {
	cache *cache.Cache
}

// NewRevocationStore keeps revoked token ids in a process-local cache. It
// is used when redis is disabled; revocations do not survive restarts.
func NewRevocationStore() repository.RevocationStore {
	return &revocationStore{cache: cache.New(time.Hour, 10*time.Minute)}
}

func (s *revocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.cache.Set(jti, struct{}{}, ttl)
	return nil
}

func (s *revocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, found := s.cache.Get(jti)
	return found, nil
}
