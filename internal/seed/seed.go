package seed

import (
	"context"
	"errors"
	"log/slog"

	"jokerboard/internal/models"
	"jokerboard/internal/observability"
	"jokerboard/internal/repository"
	"jokerboard/internal/service"
	"jokerboard/internal/store"
)

// Options for random seeding.
type Options struct {
	NumUsers int
	NumPosts int
	Seed     int64
}

// Result counts what a seeding run wrote.
type Result struct {
	Users int
	Posts int
}

// Seeder writes demo data into one store namespace through the repositories,
// so seeded data obeys the same rules as data written through the board.
type Seeder struct {
	store store.Store
	users repository.UserRepository
	posts repository.PostRepository
	board *service.BoardService
}

func NewSeeder(s store.Store, ids *repository.IDGenerator) *Seeder {
	users := repository.NewUserRepository(s, ids)
	posts := repository.NewPostRepository(s, ids)
	sessions := service.NewSessionService(s, users)
	return &Seeder{
		store: s,
		users: users,
		posts: posts,
		board: service.NewBoardService(sessions, posts, s, ""),
	}
}

// Clear removes every key of the namespace.
func (s *Seeder) Clear(ctx context.Context) error {
	for _, key := range []string{store.UsersKey, store.PostsKey, store.SessionKey, store.ThemeKey} {
		if err := s.store.Remove(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// ApplyFixture registers the fixture users and writes their posts. Posts are
// written in reverse so the first fixture post ends up newest.
func (s *Seeder) ApplyFixture(ctx context.Context, f *Fixture) (Result, error) {
	var res Result

	if f.Theme != "" {
		if err := s.board.SetTheme(ctx, f.Theme); err != nil {
			return res, err
		}
	}

	for _, fu := range f.Users {
		password := fu.Password
		if password == "" {
			password = DefaultPassword
		}
		user := &models.User{
			Nickname: fu.Nickname,
			Email:    fu.Email,
			Password: password,
			Role:     models.RoleForEmail(fu.Email),
		}
		if err := s.users.Append(ctx, user); err != nil {
			return res, err
		}
		res.Users++
	}

	for i := len(f.Posts) - 1; i >= 0; i-- {
		fp := f.Posts[i]
		author, err := s.users.FindByEmail(ctx, fp.Author)
		if err != nil {
			return res, err
		}
		in := repository.CreatePostInput{Title: fp.Title, Content: fp.Content, Category: fp.Category}
		if err := s.writePost(ctx, author, in, fp.Views); err != nil {
			return res, err
		}
		res.Posts++
	}

	observability.GlobalLogger.InfoContext(ctx, "fixture applied",
		slog.Int("users", res.Users),
		slog.Int("posts", res.Posts),
	)
	return res, nil
}

// SeedRandom registers NumUsers generated members and spreads NumPosts among them.
func (s *Seeder) SeedRandom(ctx context.Context, opts Options) (Result, error) {
	var res Result
	f := NewFactory(opts.Seed)

	users := make([]*models.User, 0, opts.NumUsers)
	for attempts := 0; len(users) < opts.NumUsers && attempts < opts.NumUsers*10; attempts++ {
		user := f.BuildUser()
		err := s.users.Append(ctx, user)
		if errors.Is(err, models.ErrDuplicateEmail) {
			continue
		}
		if err != nil {
			return res, err
		}
		users = append(users, user)
		res.Users++
	}
	if len(users) == 0 {
		return res, nil
	}

	for i := 0; i < opts.NumPosts; i++ {
		if err := s.writePost(ctx, f.Pick(users), f.BuildPost(), f.Views()); err != nil {
			return res, err
		}
		res.Posts++
	}

	observability.GlobalLogger.InfoContext(ctx, "random data seeded",
		slog.Int("users", res.Users),
		slog.Int("posts", res.Posts),
	)
	return res, nil
}

func (s *Seeder) writePost(ctx context.Context, author *models.User, in repository.CreatePostInput, views int) error {
	post, err := s.posts.Create(ctx, author, in)
	if err != nil {
		return err
	}
	for v := 0; v < views; v++ {
		if _, err := s.posts.RecordView(ctx, post.ID); err != nil {
			return err
		}
	}
	return nil
}
