package middleware

import (
	"time"

	"jokerboard/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ProfileLocal is the Fiber locals key holding the browser profile id.
const ProfileLocal = "profileID"

const profileCookieMaxAge = 365 * 24 * time.Hour

// Profile assigns each browser a stable profile id kept in cookieName. The
// id selects the store namespace the request reads and writes, the way a
// browser keeps its own local storage.
func Profile(cookieName string, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(cookieName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     cookieName,
				Value:    id,
				Path:     "/",
				Expires:  time.Now().Add(profileCookieMaxAge),
				HTTPOnly: true,
				Secure:   secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		c.Locals(ProfileLocal, id)
		c.SetUserContext(observability.WithProfileID(c.UserContext(), id))
		return c.Next()
	}
}

// ProfileID returns the profile id set by Profile.
func ProfileID(c *fiber.Ctx) string {
	id, _ := c.Locals(ProfileLocal).(string)
	return id
}
