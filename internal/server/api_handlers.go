package server

import (
	"jokerboard/internal/models"
	"jokerboard/internal/repository"
	"jokerboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetSession handles GET /api/session
func (s *Server) GetSession(c *fiber.Ctx) error {
	sc := scopeOf(c)
	user, err := sc.sessions.Current(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	theme, err := sc.board.Theme(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":  user.Public(),
		"theme": theme,
	})
}

// SetTheme handles PUT /api/theme
func (s *Server) SetTheme(c *fiber.Ctx) error {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}
	if err := scopeOf(c).board.SetTheme(c.UserContext(), req.Theme); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"theme": req.Theme})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := scopeOf(c).sessions.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user.Public())
}

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := scopeOf(c).sessions.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user.Public())
}

// Logout handles POST /api/auth/logout
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := scopeOf(c).sessions.Logout(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPosts handles GET /api/posts
func (s *Server) ListPosts(c *fiber.Ctx) error {
	posts, err := scopeOf(c).board.ListPosts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id and counts one view.
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := scopeOf(c).board.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req repository.CreatePostInput
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := scopeOf(c).board.CreatePost(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, ok := models.ParseLooseID(c.Params("id"))
	if !ok {
		return respondError(c, models.NewNotFoundError("Post", c.Params("id")))
	}
	if err := scopeOf(c).board.DeletePost(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
