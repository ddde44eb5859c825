package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	// SessionCookie carries the client session id
	SessionCookie = "iv_session"
	// SessionHeader overrides the cookie for API clients
	SessionHeader = "X-Session-ID"

	sessionLocal = "sessionID"
	sessionTTL   = 365 * 24 * time.Hour
)

// SessionMiddleware resolves the client session from the X-Session-ID header
// or the iv_session cookie. A missing or malformed id is replaced by a new
// UUID, which is sent back as cookie and header.
func SessionMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		sessionID := c.Get(SessionHeader)
		if sessionID == "" {
			sessionID = c.Cookies(SessionCookie)
		}

		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.New().String()
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    sessionID,
				Path:     "/",
				Expires:  time.Now().Add(sessionTTL),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		c.Set(SessionHeader, sessionID)
		c.Locals(sessionLocal, sessionID)

		return c.Next()
	}
}

// SessionID returns the session resolved by SessionMiddleware, or "" when
// the middleware did not run.
func SessionID(c fiber.Ctx) string {
	sessionID, _ := c.Locals(sessionLocal).(string)
	return sessionID
}
