// Package service holds the board's use cases on top of the repositories.
package service

import (
	"context"
	"errors"

	"jokerboard/internal/models"
	"jokerboard/internal/observability"
	"jokerboard/internal/repository"
	"jokerboard/internal/store"

	"go.opentelemetry.io/otel/attribute"
)

// Guest account provisioned when a page needs a session and none exists.
const (
	GuestNickname = "Joker_Tester"
	GuestEmail    = "test@joker.com"
	GuestPassword = "test1234"
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionService manages the single current-user snapshot of a namespace.
// The snapshot is a copy taken at login and is never refreshed from users.
type SessionService struct {
	store  store.Store
	users  repository.UserRepository
	logger *observability.StructuredLogger
}

func NewSessionService(s store.Store, users repository.UserRepository) *SessionService {
	return &SessionService{
		store:  s,
		users:  users,
		logger: observability.NewStructuredLogger(),
	}
}

// Current returns the session user, or nil when nobody is logged in.
func (s *SessionService) Current(ctx context.Context) (*models.User, error) {
	// A stored JSON null decodes to a nil pointer and means logged out.
	var user *models.User
	found, err := store.GetJSON(ctx, s.store, store.SessionKey, &user)
	switch {
	case errors.Is(err, store.ErrCorrupt):
		observability.NewRepoLogger(store.SessionKey).LogCorrupt(ctx, err)
		return nil, nil
	case err != nil:
		return nil, models.NewInternalError(err)
	case !found:
		return nil, nil
	}
	return user, nil
}

// ResolveSession returns the session user. When none exists and the caller
// needs one, the guest account is provisioned and logged in.
func (s *SessionService) ResolveSession(ctx context.Context, requiresAuth bool) (*models.User, error) {
	user, err := s.Current(ctx)
	if err != nil || user != nil || !requiresAuth {
		return user, err
	}

	span, ctx := observability.NewSpan(ctx, "SessionService.ProvisionGuest")
	defer span.End()

	guest, err := s.provisionGuest(ctx)
	if err != nil {
		span.SetError(err)
		observability.AuthEvents.WithLabelValues("guest", "failure").Inc()
		return nil, err
	}
	if err := s.setSession(ctx, guest); err != nil {
		span.SetError(err)
		return nil, err
	}
	observability.AuthEvents.WithLabelValues("guest", "success").Inc()
	s.logger.LogServiceCall(ctx, "SessionService", "ProvisionGuest", map[string]interface{}{"user_id": guest.ID})
	return guest, nil
}

// provisionGuest reuses an existing guest record before creating one.
func (s *SessionService) provisionGuest(ctx context.Context) (*models.User, error) {
	existing, err := s.users.FindByEmail(ctx, GuestEmail)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	guest := &models.User{
		Nickname: GuestNickname,
		Email:    GuestEmail,
		Password: GuestPassword,
		Role:     models.RoleAdmin,
	}
	if err := s.users.Append(ctx, guest); err != nil {
		return nil, err
	}
	return guest, nil
}

// Login copies the matching user into the session.
func (s *SessionService) Login(ctx context.Context, email, password string) (*models.User, error) {
	span, ctx := observability.NewSpan(ctx, "SessionService.Login")
	defer span.End()

	user, err := s.users.FindByCredentials(ctx, email, password)
	if err != nil {
		span.SetError(err)
		observability.AuthEvents.WithLabelValues("login", "failure").Inc()
		return nil, err
	}
	if err := s.setSession(ctx, user); err != nil {
		span.SetError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	observability.AuthEvents.WithLabelValues("login", "success").Inc()
	s.logger.LogServiceCall(ctx, "SessionService", "Login", map[string]interface{}{"user_id": user.ID})
	return user, nil
}

// Register appends a new user. It does not log the user in.
func (s *SessionService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	span, ctx := observability.NewSpan(ctx, "SessionService.Register")
	defer span.End()

	user := &models.User{
		Nickname: in.Nickname,
		Email:    in.Email,
		Password: in.Password,
		Role:     models.RoleForEmail(in.Email),
	}
	if err := s.users.Append(ctx, user); err != nil {
		span.SetError(err)
		observability.AuthEvents.WithLabelValues("register", "failure").Inc()
		return nil, err
	}

	observability.AuthEvents.WithLabelValues("register", "success").Inc()
	s.logger.LogServiceCall(ctx, "SessionService", "Register", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return user, nil
}

// Logout clears the session.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.store.Remove(ctx, store.SessionKey); err != nil {
		return models.NewInternalError(err)
	}
	observability.AuthEvents.WithLabelValues("logout", "success").Inc()
	return nil
}

func (s *SessionService) setSession(ctx context.Context, user *models.User) error {
	if err := store.SetJSON(ctx, s.store, store.SessionKey, user); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
