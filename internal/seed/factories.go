// Package seed fills a store namespace with demo data, either from a YAML
// fixture or generated with gofakeit. Intended for development and testing.
package seed

import (
	"jokerboard/internal/models"
	"jokerboard/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
)

// DefaultPassword is given to every generated user.
const DefaultPassword = "password123"

var categories = []string{"General", "Tips", "Questions", "Free"}

// Factory builds random users and posts.
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory returns a factory; the same seed yields the same data.
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// BuildUser returns an unsaved user. Emails never contain "admin", so
// generated users are members.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	user := &models.User{
		Nickname: f.faker.Username(),
		Email:    f.faker.Username() + "@joker.test",
		Password: DefaultPassword,
	}
	for _, override := range overrides {
		override(user)
	}
	user.Role = models.RoleForEmail(user.Email)
	return user
}

// BuildPost returns the input for a random post.
func (f *Factory) BuildPost(overrides ...func(*repository.CreatePostInput)) repository.CreatePostInput {
	in := repository.CreatePostInput{
		Title:    f.faker.Sentence(5),
		Content:  f.faker.Paragraph(1, 3, 8, "\n"),
		Category: f.faker.RandomString(categories),
	}
	for _, override := range overrides {
		override(&in)
	}
	return in
}

// Views returns a plausible view count for a seeded post.
func (f *Factory) Views() int {
	return f.faker.Number(0, 25)
}

// Pick returns a random element of users.
func (f *Factory) Pick(users []*models.User) *models.User {
	return users[f.faker.Number(0, len(users)-1)]
}
