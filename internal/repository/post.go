package repository

import (
	"context"

	"jokerboard/internal/models"
	"jokerboard/internal/store"
)

// CreatePostInput carries the user-supplied fields of a new post.
type CreatePostInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, author *models.User, in CreatePostInput) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Recent(ctx context.Context, n int) ([]models.Post, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	FindByRawID(ctx context.Context, raw string) (*models.Post, error)
	RecordView(ctx context.Context, id int64) (*models.Post, error)
	Delete(ctx context.Context, id int64, requesterRole string) error
}

type postRepository struct {
	posts collection[models.Post]
	ids   *IDGenerator
}

// NewPostRepository returns a PostRepository over the posts key of s.
func NewPostRepository(s store.Store, ids *IDGenerator) PostRepository {
	return &postRepository{posts: newCollection[models.Post](s, store.PostsKey), ids: ids}
}

// Create snapshots the author's nickname and role into a new post and puts it
// at the front of the collection.
func (r *postRepository) Create(ctx context.Context, author *models.User, in CreatePostInput) (*models.Post, error) {
	if author == nil {
		return nil, models.NewUnauthorizedError("a session is required to write posts")
	}

	posts, err := r.posts.load(ctx)
	if err != nil {
		return nil, err
	}

	var maxID int64
	for _, p := range posts {
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	post := models.Post{
		ID:         r.ids.Next(maxID),
		Title:      in.Title,
		Content:    in.Content,
		Category:   in.Category,
		Author:     author.Nickname,
		AuthorRole: author.Role,
		Date:       r.ids.Now().Format(models.DateTimeLayout),
		Comments:   []models.Comment{},
	}

	posts = append([]models.Post{post}, posts...)
	if err := r.posts.save(ctx, posts); err != nil {
		return nil, err
	}
	r.posts.log.LogCreate(ctx, map[string]interface{}{"post_id": post.ID, "author": post.Author})
	return &post, nil
}

// List returns every post, newest first.
func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	return r.posts.load(ctx)
}

func (r *postRepository) Recent(ctx context.Context, n int) ([]models.Post, error) {
	posts, err := r.posts.load(ctx)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	if len(posts) > n {
		posts = posts[:n]
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	posts, err := r.posts.load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(posts, id); i >= 0 {
		return &posts[i], nil
	}
	return nil, models.NewNotFoundError("Post", id)
}

// FindByRawID looks a post up by an id taken from a query string.
func (r *postRepository) FindByRawID(ctx context.Context, raw string) (*models.Post, error) {
	id, ok := models.ParseLooseID(raw)
	if !ok {
		return nil, models.NewNotFoundError("Post", raw)
	}
	return r.GetByID(ctx, id)
}

// RecordView adds one view to the post and writes the collection back.
func (r *postRepository) RecordView(ctx context.Context, id int64) (*models.Post, error) {
	posts, err := r.posts.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(posts, id)
	if i < 0 {
		return nil, models.NewNotFoundError("Post", id)
	}

	posts[i].Views++
	if err := r.posts.save(ctx, posts); err != nil {
		return nil, err
	}
	r.posts.log.LogUpdate(ctx, map[string]interface{}{"post_id": id, "views": posts[i].Views})
	post := posts[i]
	return &post, nil
}

// Delete removes every post carrying id. Only the admin role may delete.
func (r *postRepository) Delete(ctx context.Context, id int64, requesterRole string) error {
	if requesterRole != models.RoleAdmin {
		return models.NewForbiddenError("only administrators can delete posts")
	}

	posts, err := r.posts.load(ctx)
	if err != nil {
		return err
	}
	kept := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(posts) {
		return models.NewNotFoundError("Post", id)
	}

	if err := r.posts.save(ctx, kept); err != nil {
		return err
	}
	r.posts.log.LogDelete(ctx, map[string]interface{}{"post_id": id})
	return nil
}

func indexOf(posts []models.Post, id int64) int {
	for i := range posts {
		if posts[i].ID == id {
			return i
		}
	}
	return -1
}
