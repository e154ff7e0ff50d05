package ports

import (
	"context"

	"github.com/goldenbites/campus-eats/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password, deviceID string) (*domain.Session, error)
	Logout(ctx context.Context, deviceID string) error
	CurrentSession(ctx context.Context, deviceID string) (*domain.Session, error)
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}
