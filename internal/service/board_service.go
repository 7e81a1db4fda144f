package service

import (
	"context"

	"jokerboard/internal/models"
	"jokerboard/internal/observability"
	"jokerboard/internal/repository"
	"jokerboard/internal/store"

	"go.opentelemetry.io/otel/attribute"
)

// Themes the board can be shown in.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// DashboardPostCount is how many posts the dashboard lists.
const DashboardPostCount = 4

// SessionReader yields the current session snapshot.
type SessionReader interface {
	Current(ctx context.Context) (*models.User, error)
}

// BoardService composes posts, session and theme into the board's pages.
// Every authorization decision reads the session snapshot passed in through
// SessionReader.
type BoardService struct {
	sessions     SessionReader
	posts        repository.PostRepository
	store        store.Store
	defaultTheme string
}

func NewBoardService(sessions SessionReader, posts repository.PostRepository, s store.Store, defaultTheme string) *BoardService {
	if defaultTheme == "" {
		defaultTheme = store.DefaultTheme
	}
	return &BoardService{
		sessions:     sessions,
		posts:        posts,
		store:        s,
		defaultTheme: defaultTheme,
	}
}

// CreatePost writes a post as the current session user.
func (s *BoardService) CreatePost(ctx context.Context, in repository.CreatePostInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "BoardService.CreatePost")
	defer span.End()

	author, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.NewUnauthorizedError("Login required")
	}

	post, err := s.posts.Create(ctx, author, in)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("post.id", post.ID))
	return post, nil
}

func (s *BoardService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.posts.List(ctx)
}

func (s *BoardService) RecentPosts(ctx context.Context) ([]models.Post, error) {
	return s.posts.Recent(ctx, DashboardPostCount)
}

// GetPost resolves a raw id from a link and records one view.
func (s *BoardService) GetPost(ctx context.Context, rawID string) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "BoardService.GetPost", attribute.String("post.raw_id", rawID))
	defer span.End()

	found, err := s.posts.FindByRawID(ctx, rawID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	post, err := s.posts.RecordView(ctx, found.ID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	observability.PostViews.Inc()
	return post, nil
}

// DeletePost removes a post when the session user is an admin.
func (s *BoardService) DeletePost(ctx context.Context, id int64) error {
	span, ctx := observability.NewSpan(ctx, "BoardService.DeletePost", attribute.Int64("post.id", id))
	defer span.End()

	requester, err := s.sessions.Current(ctx)
	if err != nil {
		return err
	}
	if requester == nil {
		return models.NewUnauthorizedError("Login required")
	}
	if err := s.posts.Delete(ctx, id, requester.Role); err != nil {
		span.SetError(err)
		return err
	}
	return nil
}

// Theme returns the stored theme or the default.
func (s *BoardService) Theme(ctx context.Context) (string, error) {
	v, ok, err := s.store.Get(ctx, store.ThemeKey)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if !ok || v == "" {
		return s.defaultTheme, nil
	}
	return v, nil
}

func (s *BoardService) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return models.NewValidationError("Theme must be dark or light")
	}
	if err := s.store.Set(ctx, store.ThemeKey, theme); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ToggleTheme flips between dark and light and returns the new theme.
func (s *BoardService) ToggleTheme(ctx context.Context) (string, error) {
	current, err := s.Theme(ctx)
	if err != nil {
		return "", err
	}
	next := ThemeLight
	if current == ThemeLight {
		next = ThemeDark
	}
	if err := s.SetTheme(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}
