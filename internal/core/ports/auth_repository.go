package ports

import (
	"context"

	"github.com/leadpop/popup-service/internal/core/domain"
)

// AuthRepository defines the interface for admin user persistence.
type AuthRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
