package server

import (
	"jokerboard/internal/middleware"
	"jokerboard/internal/models"
	"jokerboard/internal/repository"
	"jokerboard/internal/service"
	"jokerboard/internal/store"

	"github.com/gofiber/fiber/v2"
)

const (
	scopeLocal   = "scope"
	sessionLocal = "sessionUser"
)

// scope is the set of services bound to one store namespace.
type scope struct {
	sessions *service.SessionService
	board    *service.BoardService
}

// namespace returns the key prefix for the request's browser profile.
func (s *Server) namespace(c *fiber.Ctx) string {
	return s.config.Namespace(middleware.ProfileID(c))
}

func (s *Server) newScope(ns store.Store) *scope {
	users := repository.NewUserRepository(ns, s.ids)
	posts := repository.NewPostRepository(ns, s.ids)
	sessions := service.NewSessionService(ns, users)
	return &scope{
		sessions: sessions,
		board:    service.NewBoardService(sessions, posts, ns, s.config.DefaultTheme),
	}
}

// withScope binds the request to its namespace. It runs after Profile.
func (s *Server) withScope() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(scopeLocal, s.newScope(store.Namespace(s.store, s.namespace(c))))
		return c.Next()
	}
}

func scopeOf(c *fiber.Ctx) *scope {
	return c.Locals(scopeLocal).(*scope)
}

// SessionRequired resolves the session and provisions the guest account when
// nobody is logged in.
func (s *Server) SessionRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := scopeOf(c).sessions.ResolveSession(c.UserContext(), true)
		if err != nil {
			return err
		}
		c.Locals(sessionLocal, user)
		return c.Next()
	}
}

// sessionUser returns the user resolved by SessionRequired, or looks the
// session up without provisioning on public routes.
func sessionUser(c *fiber.Ctx) (*models.User, error) {
	if u, ok := c.Locals(sessionLocal).(*models.User); ok && u != nil {
		return u, nil
	}
	return scopeOf(c).sessions.ResolveSession(c.UserContext(), false)
}

// respondError writes an AppError as JSON with its mapped status.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusFor(err), err)
}
