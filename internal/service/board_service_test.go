package service

import (
	"context"
	"errors"
	"testing"

	"jokerboard/internal/models"
	"jokerboard/internal/repository"
	"jokerboard/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn      func(context.Context, *models.User, repository.CreatePostInput) (*models.Post, error)
	listFn        func(context.Context) ([]models.Post, error)
	recentFn      func(context.Context, int) ([]models.Post, error)
	getByIDFn     func(context.Context, int64) (*models.Post, error)
	findByRawIDFn func(context.Context, string) (*models.Post, error)
	recordViewFn  func(context.Context, int64) (*models.Post, error)
	deleteFn      func(context.Context, int64, string) error
}

func (s *postRepoStub) Create(ctx context.Context, author *models.User, in repository.CreatePostInput) (*models.Post, error) {
	return s.createFn(ctx, author, in)
}
func (s *postRepoStub) List(ctx context.Context) ([]models.Post, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) Recent(ctx context.Context, n int) ([]models.Post, error) {
	return s.recentFn(ctx, n)
}
func (s *postRepoStub) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) FindByRawID(ctx context.Context, raw string) (*models.Post, error) {
	return s.findByRawIDFn(ctx, raw)
}
func (s *postRepoStub) RecordView(ctx context.Context, id int64) (*models.Post, error) {
	return s.recordViewFn(ctx, id)
}
func (s *postRepoStub) Delete(ctx context.Context, id int64, role string) error {
	return s.deleteFn(ctx, id, role)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.User, _ repository.CreatePostInput) (*models.Post, error) {
			return &models.Post{}, nil
		},
		listFn:        func(_ context.Context) ([]models.Post, error) { return nil, nil },
		recentFn:      func(_ context.Context, _ int) ([]models.Post, error) { return nil, nil },
		getByIDFn:     func(_ context.Context, _ int64) (*models.Post, error) { return &models.Post{}, nil },
		findByRawIDFn: func(_ context.Context, _ string) (*models.Post, error) { return &models.Post{}, nil },
		recordViewFn:  func(_ context.Context, _ int64) (*models.Post, error) { return &models.Post{}, nil },
		deleteFn:      func(_ context.Context, _ int64, _ string) error { return nil },
	}
}

type sessionStub struct {
	user *models.User
	err  error
}

func (s sessionStub) Current(context.Context) (*models.User, error) { return s.user, s.err }

var (
	adminSession  = sessionStub{user: &models.User{ID: 1, Nickname: "Boss", Role: models.RoleAdmin}}
	memberSession = sessionStub{user: &models.User{ID: 2, Nickname: "Kim", Role: models.RoleUser}}
	noSession     = sessionStub{}
)

func TestBoardService_CreatePost(t *testing.T) {
	tests := []struct {
		name     string
		session  sessionStub
		in       repository.CreatePostInput
		wantErr  error
		wantCall bool
	}{
		{"No session", noSession, repository.CreatePostInput{Title: "t", Content: "c"}, models.ErrUnauthorized, false},
		{"Blank fields pass through", memberSession, repository.CreatePostInput{Title: "  ", Content: "\n"}, nil, true},
		{"Member writes", memberSession, repository.CreatePostInput{Title: "t", Content: "c", Category: "free"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := noopPostRepo()
			called := false
			repo.createFn = func(_ context.Context, author *models.User, in repository.CreatePostInput) (*models.Post, error) {
				called = true
				assert.Equal(t, tt.session.user, author)
				return &models.Post{ID: 10, Title: in.Title, Author: author.Nickname}, nil
			}
			svc := NewBoardService(tt.session, repo, store.NewMemory(), "")

			post, err := svc.CreatePost(context.Background(), tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Kim", post.Author)
			}
			assert.Equal(t, tt.wantCall, called)
		})
	}
}

func TestBoardService_DeletePostPassesSessionRole(t *testing.T) {
	tests := []struct {
		name     string
		session  sessionStub
		wantRole string
		wantErr  error
	}{
		{"Admin", adminSession, models.RoleAdmin, nil},
		{"Member", memberSession, models.RoleUser, models.ErrForbidden},
		{"Anonymous", noSession, "", models.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := noopPostRepo()
			var gotRole string
			repo.deleteFn = func(_ context.Context, id int64, role string) error {
				assert.Equal(t, int64(7), id)
				gotRole = role
				if role != models.RoleAdmin {
					return models.NewForbiddenError("only administrators can delete posts")
				}
				return nil
			}
			svc := NewBoardService(tt.session, repo, store.NewMemory(), "")

			err := svc.DeletePost(context.Background(), 7)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantRole, gotRole)
		})
	}
}

func TestBoardService_GetPostRecordsView(t *testing.T) {
	repo := noopPostRepo()
	repo.findByRawIDFn = func(_ context.Context, raw string) (*models.Post, error) {
		assert.Equal(t, " 17 ", raw)
		return &models.Post{ID: 17, Views: 2}, nil
	}
	var viewed int64
	repo.recordViewFn = func(_ context.Context, id int64) (*models.Post, error) {
		viewed = id
		return &models.Post{ID: id, Views: 3}, nil
	}
	svc := NewBoardService(memberSession, repo, store.NewMemory(), "")

	post, err := svc.GetPost(context.Background(), " 17 ")
	require.NoError(t, err)
	assert.Equal(t, int64(17), viewed)
	assert.Equal(t, 3, post.Views)
}

func TestBoardService_GetPostNotFoundSkipsView(t *testing.T) {
	repo := noopPostRepo()
	repo.findByRawIDFn = func(_ context.Context, raw string) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", raw)
	}
	repo.recordViewFn = func(_ context.Context, _ int64) (*models.Post, error) {
		t.Fatal("view recorded for a missing post")
		return nil, nil
	}
	svc := NewBoardService(memberSession, repo, store.NewMemory(), "")

	_, err := svc.GetPost(context.Background(), "404")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestBoardService_RecentPostsAsksForFour(t *testing.T) {
	repo := noopPostRepo()
	repo.recentFn = func(_ context.Context, n int) ([]models.Post, error) {
		assert.Equal(t, DashboardPostCount, n)
		return []models.Post{{ID: 1}}, nil
	}
	svc := NewBoardService(memberSession, repo, store.NewMemory(), "")

	posts, err := svc.RecentPosts(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestBoardService_SessionErrorsPropagate(t *testing.T) {
	boom := models.NewInternalError(errors.New("store down"))
	svc := NewBoardService(sessionStub{err: boom}, noopPostRepo(), store.NewMemory(), "")

	_, err := svc.CreatePost(context.Background(), repository.CreatePostInput{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, models.ErrInternal)
	assert.ErrorIs(t, svc.DeletePost(context.Background(), 1), models.ErrInternal)
}

func TestBoardService_Theme(t *testing.T) {
	ctx := context.Background()
	svc := NewBoardService(memberSession, noopPostRepo(), store.NewMemory(), "")

	theme, err := svc.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	next, err := svc.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, next)

	theme, err = svc.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	assert.ErrorIs(t, svc.SetTheme(ctx, "neon"), models.ErrValidation)

	custom := NewBoardService(memberSession, noopPostRepo(), store.NewMemory(), ThemeLight)
	theme, err = custom.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)
}
