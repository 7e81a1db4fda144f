package render

import (
	"bytes"
	"testing"

	"jokerboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a & b", "a &amp; b"},
		{"<script>x</script>", "&lt;script&gt;x&lt;/script&gt;"},
		{`say "hi"`, "say &quot;hi&quot;"},
		{"it's", "it&#039;s"},
		{"&lt;", "&amp;lt;"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeHTML(tt.in), tt.in)
	}
}

func TestContentHTML(t *testing.T) {
	assert.Equal(t, "line1<br>&lt;b&gt;line2&lt;/b&gt;", ContentHTML("line1\n<b>line2</b>"))
}

func render(t *testing.T, name string, page Page) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, MustNew().Render(&buf, name, page))
	return buf.String()
}

var hostile = models.Post{
	ID:         42,
	Title:      "<script>x</script>",
	Content:    "first\n<img src=x onerror=alert(1)>",
	Category:   `"><b>`,
	Author:     "<i>me</i>",
	AuthorRole: models.RoleAdmin,
	Date:       "2024. 3. 9. 14:05:06",
	Views:      3,
}

func TestRender_BoardEscapesStoredFields(t *testing.T) {
	out := render(t, "board", Page{Title: "Community", Posts: []models.Post{hostile}})

	assert.Contains(t, out, "&lt;script&gt;x&lt;/script&gt;")
	assert.NotContains(t, out, "<script>x</script>")
	assert.Contains(t, out, "&lt;i&gt;me&lt;/i&gt;")
	assert.Contains(t, out, "&quot;&gt;&lt;b&gt;")
	assert.Contains(t, out, `href="/post?id=42"`)
	assert.Contains(t, out, `<span class="admin-badge">Admin</span>`)
}

func TestRender_BoardDeleteButtonsOnlyForAdmins(t *testing.T) {
	member := &models.User{Nickname: "Kim", Role: models.RoleUser}
	admin := &models.User{Nickname: "Boss", Role: models.RoleAdmin}

	out := render(t, "board", Page{User: member, Posts: []models.Post{hostile}})
	assert.NotContains(t, out, "btn-delete")

	out = render(t, "board", Page{User: admin, Posts: []models.Post{hostile}})
	assert.Contains(t, out, `action="/posts/42/delete"`)
}

func TestRender_BoardEmptyState(t *testing.T) {
	out := render(t, "board", Page{})
	assert.Contains(t, out, "No posts yet.")
}

func TestRender_PostDetail(t *testing.T) {
	out := render(t, "post", Page{Post: &hostile})

	assert.Contains(t, out, "first<br>&lt;img src=x onerror=alert(1)&gt;")
	assert.NotContains(t, out, "<img")
	assert.Contains(t, out, "Views 3")
	assert.Contains(t, out, `href="/board"`)
}

func TestRender_Dashboard(t *testing.T) {
	user := &models.User{Nickname: "joker", Role: models.RoleAdmin, JoinDate: "2024. 3. 9."}
	plain := models.Post{ID: 1, Title: "hello", Author: "joker"}

	out := render(t, "dashboard", Page{User: user, Posts: []models.Post{plain}})
	assert.Contains(t, out, `<div class="profile-avatar">J</div>`)
	assert.Contains(t, out, "[General] hello")
	assert.Contains(t, out, "Admin")

	out = render(t, "dashboard", Page{User: user})
	assert.Contains(t, out, "No posts yet")
}

func TestRender_ThemeAttribute(t *testing.T) {
	assert.Contains(t, render(t, "index", Page{}), `data-theme="dark"`)
	assert.Contains(t, render(t, "index", Page{Theme: "light"}), `data-theme="light"`)
}

func TestRender_FormValuesAreEscaped(t *testing.T) {
	out := render(t, "login", Page{Form: map[string]string{"email": `"><script>`}})
	assert.NotContains(t, out, `"><script>`)

	out = render(t, "login", Page{})
	assert.Contains(t, out, `value=""`)
}

func TestRender_UnknownPage(t *testing.T) {
	err := MustNew().Render(&bytes.Buffer{}, "missing", Page{})
	assert.Error(t, err)
}
