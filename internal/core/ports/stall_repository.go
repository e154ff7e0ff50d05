package ports

import (
	"context"

	"github.com/goldenbites/campus-eats/internal/core/domain"
)

// AdminRepository persists the user → stall administration links.
type AdminRepository interface {
	// FindByUserID returns domain.ErrAdminNotFound when the user administers
	// no stall.
	FindByUserID(ctx context.Context, userID string) (*domain.Admin, error)
	Create(ctx context.Context, admin *domain.Admin) error
}

// StallRepository persists stalls.
type StallRepository interface {
	Create(ctx context.Context, s *domain.Stall) (*domain.Stall, error)
	FindByID(ctx context.Context, id string) (*domain.Stall, error)
}
