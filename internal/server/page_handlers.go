package server

import (
	"errors"
	"strings"

	"jokerboard/internal/models"
	"jokerboard/internal/render"
	"jokerboard/internal/repository"
	"jokerboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Messages shown on the pages.
const (
	msgInvalidLogin   = "Email or password does not match."
	msgDuplicateEmail = "This email is already registered."
	msgRegistered     = "Registration complete. Please log in."
)

// renderPage writes a page with the stored theme and the given status.
func (s *Server) renderPage(c *fiber.Ctx, status int, name string, page render.Page) error {
	theme, err := scopeOf(c).board.Theme(c.UserContext())
	if err != nil {
		return err
	}
	page.Theme = theme
	if page.User == nil {
		if page.User, err = sessionUser(c); err != nil {
			return err
		}
	}

	c.Status(status)
	c.Type("html", "utf-8")
	return s.views.Render(c, name, page)
}

func redirect(c *fiber.Ctx, to string) error {
	return c.Redirect(to, fiber.StatusSeeOther)
}

// IndexPage handles GET /
func (s *Server) IndexPage(c *fiber.Ctx) error {
	return s.renderPage(c, fiber.StatusOK, "index", render.Page{Title: "Home"})
}

// LoginPage handles GET /login
func (s *Server) LoginPage(c *fiber.Ctx) error {
	page := render.Page{Title: "Login"}
	if c.Query("registered") != "" {
		page.Notice = msgRegistered
	}
	return s.renderPage(c, fiber.StatusOK, "login", page)
}

// LoginSubmit handles POST /login and sends the user to the dashboard.
func (s *Server) LoginSubmit(c *fiber.Ctx) error {
	email := c.FormValue("email")
	_, err := scopeOf(c).sessions.Login(c.UserContext(), email, c.FormValue("password"))
	if errors.Is(err, models.ErrInvalidCredentials) {
		return s.renderPage(c, fiber.StatusUnauthorized, "login", render.Page{
			Title: "Login",
			Error: msgInvalidLogin,
			Form:  map[string]string{"email": email},
		})
	}
	if err != nil {
		return err
	}
	return redirect(c, "/dashboard")
}

// RegisterPage handles GET /register
func (s *Server) RegisterPage(c *fiber.Ctx) error {
	return s.renderPage(c, fiber.StatusOK, "register", render.Page{Title: "Sign up"})
}

// RegisterSubmit handles POST /register. It does not log the new user in.
func (s *Server) RegisterSubmit(c *fiber.Ctx) error {
	in := service.RegisterInput{
		Nickname: c.FormValue("nickname"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}
	_, err := scopeOf(c).sessions.Register(c.UserContext(), in)
	if errors.Is(err, models.ErrDuplicateEmail) {
		return s.renderPage(c, fiber.StatusConflict, "register", render.Page{
			Title: "Sign up",
			Error: msgDuplicateEmail,
			Form:  map[string]string{"nickname": in.Nickname, "email": in.Email},
		})
	}
	if err != nil {
		return err
	}
	return redirect(c, "/login?registered=1")
}

// LogoutSubmit handles POST /logout
func (s *Server) LogoutSubmit(c *fiber.Ctx) error {
	if err := scopeOf(c).sessions.Logout(c.UserContext()); err != nil {
		return err
	}
	return redirect(c, "/login")
}

// ToggleTheme handles POST /theme and returns to the referring page.
func (s *Server) ToggleTheme(c *fiber.Ctx) error {
	if _, err := scopeOf(c).board.ToggleTheme(c.UserContext()); err != nil {
		return err
	}
	back := c.Get(fiber.HeaderReferer)
	if back == "" || !strings.HasPrefix(back, c.BaseURL()+"/") {
		back = "/"
	}
	return redirect(c, back)
}

// BoardPage handles GET /board
func (s *Server) BoardPage(c *fiber.Ctx) error {
	posts, err := scopeOf(c).board.ListPosts(c.UserContext())
	if err != nil {
		return err
	}
	return s.renderPage(c, fiber.StatusOK, "board", render.Page{Title: "Community", Posts: posts})
}

// WritePage handles GET /write
func (s *Server) WritePage(c *fiber.Ctx) error {
	return s.renderPage(c, fiber.StatusOK, "write", render.Page{Title: "Write"})
}

// CreatePostSubmit handles POST /posts and returns to the board.
func (s *Server) CreatePostSubmit(c *fiber.Ctx) error {
	in := repository.CreatePostInput{
		Title:    c.FormValue("title"),
		Content:  c.FormValue("content"),
		Category: c.FormValue("category"),
	}
	_, err := scopeOf(c).board.CreatePost(c.UserContext(), in)
	if err != nil {
		return err
	}
	return redirect(c, "/board")
}

// PostPage handles GET /post?id= and counts one view. An unknown id renders
// the page without a post.
func (s *Server) PostPage(c *fiber.Ctx) error {
	post, err := scopeOf(c).board.GetPost(c.UserContext(), c.Query("id"))
	if errors.Is(err, models.ErrNotFound) {
		return s.renderPage(c, fiber.StatusNotFound, "post", render.Page{Title: "Post"})
	}
	if err != nil {
		return err
	}
	return s.renderPage(c, fiber.StatusOK, "post", render.Page{Title: post.Title, Post: post})
}

// DeletePostSubmit handles POST /posts/:id/delete
func (s *Server) DeletePostSubmit(c *fiber.Ctx) error {
	board := scopeOf(c).board
	var err error = models.NewNotFoundError("Post", c.Params("id"))
	if id, ok := models.ParseLooseID(c.Params("id")); ok {
		err = board.DeletePost(c.UserContext(), id)
	}
	if err == nil {
		return redirect(c, "/board")
	}

	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code == models.CodeInternal {
		return err
	}
	posts, listErr := board.ListPosts(c.UserContext())
	if listErr != nil {
		return listErr
	}
	return s.renderPage(c, models.StatusFor(err), "board", render.Page{
		Title: "Community",
		Error: appErr.Message,
		Posts: posts,
	})
}

// DashboardPage handles GET /dashboard
func (s *Server) DashboardPage(c *fiber.Ctx) error {
	posts, err := scopeOf(c).board.RecentPosts(c.UserContext())
	if err != nil {
		return err
	}
	return s.renderPage(c, fiber.StatusOK, "dashboard", render.Page{Title: "Dashboard", Posts: posts})
}
