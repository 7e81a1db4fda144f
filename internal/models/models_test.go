package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestRoleForEmail(t *testing.T) {
	assert.Equal(t, RoleAdmin, RoleForEmail("x@admin.io"))
	assert.Equal(t, RoleAdmin, RoleForEmail("admin@y.io"))
	assert.Equal(t, RoleUser, RoleForEmail("x@y.io"))
	// substring check is case-sensitive
	assert.Equal(t, RoleUser, RoleForEmail("x@ADMIN.io"))
}

func TestParseLooseID(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"17", 17, true},
		{" 17 ", 17, true},
		{"17.0", 17, true},
		{"1700000000000", 1700000000000, true},
		{"17.5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLooseID(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAppError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewNotFoundError("Post", 3))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.True(t, errors.Is(NewDuplicateEmailError("a@b.c"), ErrDuplicateEmail))
	assert.True(t, errors.Is(NewInvalidCredentialsError(), ErrInvalidCredentials))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, StatusFor(NewNotFoundError("Post", 1)))
	assert.Equal(t, fiber.StatusForbidden, StatusFor(NewForbiddenError("no")))
	assert.Equal(t, fiber.StatusConflict, StatusFor(NewDuplicateEmailError("a")))
	assert.Equal(t, fiber.StatusUnauthorized, StatusFor(NewInvalidCredentialsError()))
	assert.Equal(t, fiber.StatusBadRequest, StatusFor(NewValidationError("bad")))
	assert.Equal(t, fiber.StatusInternalServerError, StatusFor(errors.New("boom")))
}

func TestUserInitial(t *testing.T) {
	u := &User{Nickname: "joker"}
	assert.Equal(t, "J", u.Initial())
	assert.Equal(t, "", (&User{}).Initial())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	var nilUser *User
	assert.False(t, nilUser.IsAdmin())
}
