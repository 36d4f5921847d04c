package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"shopdemo/internal/services"
)

// ensureSID returns the caller's sid, minting one if the cookie is missing
// or malformed. The sid keys a long-lived session, so it is copied out of
// the request buffer.
func ensureSID(c *fiber.Ctx) string {
	sid := utils.CopyString(c.Cookies("sid"))
	if _, err := uuid.Parse(sid); err != nil {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

// AttachSession opens the caller's session and exposes it, and the signed in
// user if any, through Locals.
func AttachSession(sessions *services.SessionManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := sessions.Open(ensureSID(c))
		c.Locals("session", sess)
		if u := sess.Auth.User(); u != nil {
			c.Locals("user", u)
		}
		return c.Next()
	}
}

func sessionOf(c *fiber.Ctx) *services.Session {
	sess, _ := c.Locals("session").(*services.Session)
	return sess
}
