package ports

import (
	"context"

	"github.com/goldenbites/campus-eats/internal/core/domain"
)

// CreateStallInput carries everything needed to open a stall-owner account.
type CreateStallInput struct {
	Name     string
	Location string
	Email    string
	Password string
	Phone    string
}

// StallAccount is the result of creating a stall-owner account.
type StallAccount struct {
	User  *domain.User
	Stall *domain.Stall
}

type StallService interface {
	CreateStallAccount(ctx context.Context, input CreateStallInput) (*StallAccount, error)
	Dashboard(ctx context.Context, userID string) (*domain.Stall, error)
}
