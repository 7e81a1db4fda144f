package models

import (
	"math"
	"strconv"
	"strings"
)

// Post is a board entry. Author and AuthorRole are snapshots taken at creation
// time and do not follow later changes to the author's user record.
type Post struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	Author     string    `json:"author"`
	AuthorRole string    `json:"authorRole"`
	Date       string    `json:"date"`
	Views      int       `json:"views"`
	Likes      int       `json:"likes"`
	Comments   []Comment `json:"comments"`
}

// Comment is reserved for threaded replies; nothing populates it yet.
type Comment struct {
	Author  string `json:"author"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

// ByAdmin reports whether the post was written by an admin at the time.
func (p Post) ByAdmin() bool {
	return p.AuthorRole == RoleAdmin
}

// ParseLooseID converts an id taken from a query string into a numeric id.
// Surrounding whitespace and an integral decimal form ("17.0") are accepted,
// so "17", " 17 " and "17.0" all select post 17.
func ParseLooseID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
