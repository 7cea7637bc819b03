package ports

import (
	"context"

	"github.com/leadpop/popup-service/internal/core/domain"
)

// ClientSource is the backing store the directory refreshes from. A full
// scan is acceptable: the directory caches the result as a snapshot.
type ClientSource interface {
	ListAll(ctx context.Context) ([]domain.ClientRecord, error)
}

// ClientRepository extends ClientSource with the admin write path.
type ClientRepository interface {
	ClientSource
	Insert(ctx context.Context, rec *domain.ClientRecord) error
}

// ClientDirectory resolves a storefront to its client record. Lookups
// answer "is this a usable client": disabled records are reported as
// not found.
type ClientDirectory interface {
	// FindByDomain normalizes raw and scans for an exact store_domain match.
	FindByDomain(ctx context.Context, raw string) (*domain.ClientRecord, error)
	FindByID(ctx context.Context, id string) (*domain.ClientRecord, error)
	// Invalidate drops the cached snapshot so the next lookup refreshes.
	Invalidate()
}
