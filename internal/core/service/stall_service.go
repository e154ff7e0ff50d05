package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goldenbites/campus-eats/internal/core/domain"
	"github.com/goldenbites/campus-eats/internal/core/ports"
)

// Registrar creates user accounts.
type Registrar interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
}

// StallService manages stall-owner accounts and their dashboard data.
type StallService struct {
	users  Registrar
	stalls ports.StallRepository
	admins ports.AdminRepository
	log    zerolog.Logger
}

func NewStallService(users Registrar, stalls ports.StallRepository, admins ports.AdminRepository, log zerolog.Logger) *StallService {
	return &StallService{users: users, stalls: stalls, admins: admins, log: log}
}

// CreateStallAccount registers the owner, creates the stall and links them
// with an admin record. A failure after the user was created leaves the
// user behind without admin rights and is logged for manual cleanup.
func (s *StallService) CreateStallAccount(ctx context.Context, in ports.CreateStallInput) (*ports.StallAccount, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Location) == "" {
		return nil, domain.ErrInvalidStall
	}

	user, err := s.users.Register(ctx, in.Name, in.Email, in.Password)
	if err != nil {
		return nil, fmt.Errorf("create stall account: %w", err)
	}

	now := time.Now().UTC()
	stall, err := s.stalls.Create(ctx, &domain.Stall{
		Name:      strings.TrimSpace(in.Name),
		Location:  strings.TrimSpace(in.Location),
		OwnerID:   user.ID,
		Email:     user.Email,
		Phone:     in.Phone,
		CreatedAt: now,
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("stall creation failed after user was registered")
		return nil, fmt.Errorf("create stall account: %w", err)
	}

	if err := s.admins.Create(ctx, &domain.Admin{UserID: user.ID, StallID: stall.ID, CreatedAt: now}); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Str("stall_id", stall.ID).Msg("admin link failed after stall was created")
		return nil, fmt.Errorf("create stall account: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("stall_id", stall.ID).Msg("stall account created")
	return &ports.StallAccount{User: user, Stall: stall}, nil
}

// Dashboard returns the stall administered by userID.
func (s *StallService) Dashboard(ctx context.Context, userID string) (*domain.Stall, error) {
	admin, err := s.admins.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.stalls.FindByID(ctx, admin.StallID)
}
