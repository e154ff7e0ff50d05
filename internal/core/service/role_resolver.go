package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goldenbites/campus-eats/internal/core/domain"
	"github.com/goldenbites/campus-eats/internal/core/ports"
)

// AdminRoleResolver grants the administrative role to users that have an
// admin record. It is the only place the admin lookup happens.
type AdminRoleResolver struct {
	admins ports.AdminRepository
	log    zerolog.Logger
}

func NewAdminRoleResolver(admins ports.AdminRepository, log zerolog.Logger) *AdminRoleResolver {
	return &AdminRoleResolver{admins: admins, log: log}
}

// HasAdminRole reports whether userID administers a stall. A missing record
// is a plain false; any other failure is returned alongside false.
func (r *AdminRoleResolver) HasAdminRole(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	admin, err := r.admins.FindByUserID(ctx, userID)
	if errors.Is(err, domain.ErrAdminNotFound) {
		return false, nil
	}
	if err != nil {
		r.log.Warn().Err(err).Str("user_id", userID).Msg("admin lookup failed")
		return false, fmt.Errorf("has admin role: %w", err)
	}
	return admin != nil, nil
}
