package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/goldenbites/campus-eats/internal/core/domain"
	"github.com/goldenbites/campus-eats/internal/core/ports"
)

const minPasswordLength = 8

// sessionClaims is the JWT payload of a device session.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	DeviceID string `json:"device_id"`
}

// AuthService implements registration, device sign-in and sign-out.
type AuthService struct {
	repo      ports.AuthRepository
	sessions  ports.SessionStore
	events    ports.SessionEventPublisher
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(
	repo ports.AuthRepository,
	sessions ports.SessionStore,
	events ports.SessionEventPublisher,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		sessions:  sessions,
		events:    events,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if strings.TrimSpace(name) == "" || len(password) < minPasswordLength {
		return nil, domain.ErrInvalidCredentials
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login verifies credentials and opens a session on deviceID, replacing any
// session the device already had.
func (s *AuthService) Login(ctx context.Context, email, password, deviceID string) (*domain.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" || deviceID == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		DeviceID:  deviceID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}

	token, err := s.generateToken(session)
	if err != nil {
		return nil, err
	}
	session.Token = token

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.events.Publish(ports.SessionEvent{DeviceID: deviceID, Session: session})
	s.log.Info().Str("user_id", user.ID).Str("device_id", deviceID).Msg("session opened")
	return session, nil
}

// Logout closes the session of deviceID. Logging out a device without a
// session still announces the signed-out state.
func (s *AuthService) Logout(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return domain.ErrSessionNotFound
	}
	if err := s.sessions.Delete(ctx, deviceID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.events.Publish(ports.SessionEvent{DeviceID: deviceID})
	s.log.Info().Str("device_id", deviceID).Msg("session closed")
	return nil
}

// CurrentSession returns the live session of deviceID or nil.
func (s *AuthService) CurrentSession(ctx context.Context, deviceID string) (*domain.Session, error) {
	session, err := s.sessions.FindByDevice(ctx, deviceID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("current session: %w", err)
	}
	if session.Expired(s.now()) {
		return nil, nil
	}
	return session, nil
}

// Authenticate validates token and checks it still names the live session
// of its device.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	session, err := s.CurrentSession(ctx, claims.DeviceID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.ID != claims.ID || session.UserID != claims.Subject {
		return nil, domain.ErrInvalidToken
	}
	return session, nil
}

func (s *AuthService) generateToken(session *domain.Session) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   session.UserID,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
		Email:    session.Email,
		DeviceID: session.DeviceID,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
