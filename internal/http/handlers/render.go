package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"shopdemo/web"
)

// NewViews builds the template engine over the embedded templates.
func NewViews() *html.Engine {
	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")
	engine.AddFunc("yen", Yen)
	return engine
}

// Yen formats an amount with Japanese digit grouping, e.g. ¥15,800.
func Yen(amount int64) string {
	return message.NewPrinter(language.Japanese).Sprintf("¥%d", amount)
}

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Inject user if present
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	if sess := sessionOf(c); sess != nil {
		data["CartCount"] = sess.Cart.ItemCount()
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		// Fall back to the cookie so forms never render an empty hidden field.
		tok = c.Cookies("csrf_")
	}
	data["CSRFToken"] = tok
	if _, ok := data["Q"]; !ok {
		data["Q"] = ""
	}
	return c.Render(tmpl, data)
}

// ErrorPage renders the friendly error page with status.
func ErrorPage(c *fiber.Ctx, status int, msg string) error {
	c.Status(status)
	return render(c, "notfound", fiber.Map{"Message": msg})
}
