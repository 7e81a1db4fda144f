package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"jokerboard/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_IssuesCookieOnce(t *testing.T) {
	app := fiber.New()
	app.Use(Profile("joker_profile", false))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(ProfileID(c) + "|" + observability.ExtractProfileID(c.UserContext()))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	parts := strings.Split(string(body), "|")
	require.Len(t, parts, 2)
	_, err = uuid.Parse(parts[0])
	assert.NoError(t, err)
	assert.Equal(t, parts[0], parts[1])

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, parts[0], cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookies[0])
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(string(body), parts[0]))
	assert.Empty(t, resp.Cookies())
}

func TestProfile_ReplacesInvalidCookie(t *testing.T) {
	app := fiber.New()
	app.Use(Profile("joker_profile", false))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(ProfileID(c)) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Cookie", "joker_profile=../../etc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.NotEqual(t, "../../etc", string(body))
	require.Len(t, resp.Cookies(), 1)
}

func TestContextMiddleware_LogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "production")

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(ContextMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		logger.InfoContext(c.UserContext(), "hello")
		return nil
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	_, err := app.Test(req)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
}

func TestCtxHandler_KeepsContextWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "production").With("component", "test")

	ctx := observability.WithProfileID(context.Background(), "p-1")
	logger.InfoContext(ctx, "hi")
	assert.Contains(t, buf.String(), `"profile_id":"p-1"`)
	assert.Contains(t, buf.String(), `"component":"test"`)
}

func TestStructuredLogger_PassesThrough(t *testing.T) {
	app := fiber.New()
	app.Use(StructuredLogger())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusTeapot) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
}
