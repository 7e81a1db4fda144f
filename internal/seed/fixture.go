package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture is the YAML layout of a seed file.
type Fixture struct {
	Theme string        `yaml:"theme"`
	Users []FixtureUser `yaml:"users"`
	Posts []FixturePost `yaml:"posts"`
}

// FixtureUser is registered with the role derived from its email.
type FixtureUser struct {
	Nickname string `yaml:"nickname"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// FixturePost is written by the user whose email is Author.
type FixturePost struct {
	Author   string `yaml:"author"`
	Title    string `yaml:"title"`
	Content  string `yaml:"content"`
	Category string `yaml:"category"`
	Views    int    `yaml:"views"`
}

// LoadFixture decodes a fixture and rejects unknown fields.
func LoadFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFixtureFile reads a fixture from path.
func LoadFixtureFile(path string) (*Fixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadFixture(bytes.NewReader(b))
}

func (f *Fixture) validate() error {
	emails := make(map[string]bool, len(f.Users))
	for i, u := range f.Users {
		if u.Email == "" || u.Nickname == "" {
			return fmt.Errorf("user %d: nickname and email are required", i)
		}
		emails[u.Email] = true
	}
	for i, p := range f.Posts {
		if p.Title == "" || p.Content == "" {
			return fmt.Errorf("post %d: title and content are required", i)
		}
		if !emails[p.Author] {
			return fmt.Errorf("post %d: author %q is not a fixture user", i, p.Author)
		}
		if p.Views < 0 {
			return fmt.Errorf("post %d: views cannot be negative", i)
		}
	}
	return nil
}
