// Package models contains the domain types stored in the board's key-value store.
package models

import "strings"

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account. Passwords are stored and compared as plain text.
type User struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	JoinDate string `json:"joinDate"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Initial returns the upper-cased first rune of the nickname, used for avatars.
func (u *User) Initial() string {
	if u == nil {
		return ""
	}
	for _, r := range u.Nickname {
		return strings.ToUpper(string(r))
	}
	return ""
}

// RoleForEmail derives the role assigned at registration: any email containing
// "admin" registers an administrator.
func RoleForEmail(email string) string {
	if strings.Contains(email, "admin") {
		return RoleAdmin
	}
	return RoleUser
}

// Display layouts for JoinDate and Post.Date.
const (
	DateLayout     = "2006. 1. 2."
	DateTimeLayout = "2006. 1. 2. 15:04:05"
)

// PublicUser is the user as returned by the API, without the password.
type PublicUser struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	JoinDate string `json:"joinDate"`
}

// Public strips the password. A nil user stays nil.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:       u.ID,
		Nickname: u.Nickname,
		Email:    u.Email,
		Role:     u.Role,
		JoinDate: u.JoinDate,
	}
}
