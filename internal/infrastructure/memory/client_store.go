// Package memory provides in-memory implementations of the persistence
// ports, used by the standalone deployment mode and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/leadpop/popup-service/internal/core/domain"
)

// ClientStore is an in-memory client directory source, optionally seeded
// at startup.
type ClientStore struct {
	mu      sync.RWMutex
	records []domain.ClientRecord
}

func NewClientStore(seed ...domain.ClientRecord) *ClientStore {
	s := &ClientStore{}
	for i := range seed {
		rec := seed[i]
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		rec.StoreDomain = domain.NormalizeDomain(rec.StoreDomain)
		s.records = append(s.records, rec)
	}
	return s
}

func (s *ClientStore) ListAll(_ context.Context) ([]domain.ClientRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ClientRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *ClientStore) Insert(_ context.Context, rec *domain.ClientRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := domain.NormalizeDomain(rec.StoreDomain)
	for _, existing := range s.records {
		if existing.StoreDomain == normalized {
			return domain.ErrClientExists
		}
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.StoreDomain = normalized
	s.records = append(s.records, *rec)
	return nil
}
