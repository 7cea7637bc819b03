package memory

import (
	"context"
	"sync"

	"github.com/leadpop/popup-service/internal/core/domain"
)

// LeadStore is an in-memory lead sink, newest first.
type LeadStore struct {
	mu    sync.RWMutex
	leads []*domain.Lead
}

func NewLeadStore() *LeadStore {
	return &LeadStore{}
}

func (s *LeadStore) Append(_ context.Context, lead *domain.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *lead
	s.leads = append([]*domain.Lead{&clone}, s.leads...)
	return nil
}

func (s *LeadStore) CountByClient(_ context.Context, clientID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, l := range s.leads {
		if l.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

func (s *LeadStore) ListByClient(_ context.Context, clientID string, limit int) ([]*domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Lead
	for _, l := range s.leads {
		if l.ClientID != clientID {
			continue
		}
		clone := *l
		out = append(out, &clone)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
