package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopdemo/internal/log"
	"shopdemo/internal/services"
	"shopdemo/internal/validate"
)

type AuthHandler struct {
	Sessions *services.SessionManager
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	ret := safeReturn(c.Query("returnUrl"))
	if sess := sessionOf(c); sess != nil && sess.Auth.IsLoggedIn() {
		return c.Redirect(ret)
	}
	return render(c, "login", fiber.Map{"Err": "", "Email": "", "ReturnURL": ret, "Demo": services.DemoCredentials()})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sess := sessionOf(c)
	rawEmail := c.FormValue("email")
	email := validate.Field(rawEmail, 100)
	pass := c.FormValue("password")
	ret := safeReturn(c.FormValue("returnUrl"))
	fail := func(status int, msg string) error {
		c.Status(status)
		return render(c, "login", fiber.Map{"Err": msg, "Email": email, "ReturnURL": ret, "Demo": services.DemoCredentials()})
	}

	if sess.Auth.IsLoading() {
		return fail(fiber.StatusConflict, "A login is already in progress.")
	}
	if _, ok := validate.Email(rawEmail); !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "malformed email"})
		return fail(fiber.StatusUnauthorized, services.Message(services.ErrUnknownEmail))
	}
	if !sess.Auth.Login(email, pass) {
		err := sess.Auth.LastError()
		if err == nil {
			return fail(fiber.StatusConflict, "A login is already in progress.")
		}
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": err.Error()})
		return fail(fiber.StatusUnauthorized, services.Message(err))
	}

	c.Locals("user", sess.Auth.User())
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect(ret)
}

// Logout signs the user out. A session left with an empty cart has nothing
// worth keeping, so it is ended and its cookie dropped.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess := sessionOf(c)
	sess.Auth.Logout()
	log.Audit(c, "auth.logout", nil)
	if h.Sessions != nil && sess.Cart.ItemCount() == 0 {
		h.Sessions.End(sess.ID)
		c.ClearCookie("sid")
	}
	return c.Redirect("/")
}
