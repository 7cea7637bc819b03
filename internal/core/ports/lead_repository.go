package ports

import (
	"context"

	"github.com/leadpop/popup-service/internal/core/domain"
)

// LeadRepository is the lead sink.
type LeadRepository interface {
	Append(ctx context.Context, lead *domain.Lead) error
	// CountByClient returns the number of persisted leads for a client,
	// used to enforce free-plan limits.
	CountByClient(ctx context.Context, clientID string) (int64, error)
	// ListByClient returns up to limit leads for a client, newest first.
	ListByClient(ctx context.Context, clientID string, limit int) ([]*domain.Lead, error)
}
