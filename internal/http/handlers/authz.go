package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "shopdemo/internal/log"
)

// RequireUser enforces that a user is logged in; otherwise redirect to login
// with a return URL back to the requested page.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := sessionOf(c)
		if sess == nil || !sess.Auth.IsLoggedIn() {
			applog.Security(c, "access.denied.login_required", nil)
			return c.Redirect("/login?returnUrl=" + url.QueryEscape(c.OriginalURL()))
		}
		return c.Next()
	}
}

// safeReturn only allows local absolute paths.
func safeReturn(raw string) string {
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, "\\") {
		return "/"
	}
	return raw
}
