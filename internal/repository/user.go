package repository

import (
	"context"

	"jokerboard/internal/models"
	"jokerboard/internal/store"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByCredentials(ctx context.Context, email, password string) (*models.User, error)
	Append(ctx context.Context, user *models.User) error
}

type userRepository struct {
	users collection[models.User]
	ids   *IDGenerator
}

// NewUserRepository returns a UserRepository over the users key of s.
func NewUserRepository(s store.Store, ids *IDGenerator) UserRepository {
	return &userRepository{users: newCollection[models.User](s, store.UsersKey), ids: ids}
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	return r.users.load(ctx)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.users.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, models.NewNotFoundError("User", email)
}

// FindByCredentials requires an exact match of both fields and does not say
// which one was wrong.
func (r *userRepository) FindByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	users, err := r.users.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email && users[i].Password == password {
			return &users[i], nil
		}
	}
	return nil, models.NewInvalidCredentialsError()
}

// Append adds user at the end of the collection. The id and join date are
// filled in when unset. An email already present is rejected and nothing is
// written.
func (r *userRepository) Append(ctx context.Context, user *models.User) error {
	users, err := r.users.load(ctx)
	if err != nil {
		return err
	}

	var maxID int64
	for _, u := range users {
		if u.Email == user.Email {
			return models.NewDuplicateEmailError(user.Email)
		}
		if u.ID > maxID {
			maxID = u.ID
		}
	}

	if user.ID == 0 {
		user.ID = r.ids.Next(maxID)
	}
	if user.JoinDate == "" {
		user.JoinDate = r.ids.Now().Format(models.DateLayout)
	}

	users = append(users, *user)
	if err := r.users.save(ctx, users); err != nil {
		return err
	}
	r.users.log.LogCreate(ctx, map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return nil
}
