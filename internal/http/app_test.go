package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"shopdemo/internal/http/handlers"
	"shopdemo/internal/repos"
	"shopdemo/internal/services"
)

type testEnv struct {
	app      *fiber.App
	sessions *services.SessionManager
	checkout *services.CheckoutService
	storage  *repos.MemoryStorage
}

// newApp wires the real routes over in-memory session storage with no
// artificial delays. A nil repo means the seeded catalog.
func newApp(t *testing.T, prods *repos.ProductRepo) *testEnv {
	t.Helper()
	if prods == nil {
		prods = repos.NewProductRepo()
	}
	mem := repos.NewMemoryStorage()
	catalog := services.NewCatalogService(prods)
	sessions := services.NewSessionManager(
		func(sid string) services.Storage { return mem.For(sid) },
		catalog,
		services.NewAuthenticator(0),
	)
	sessions.Store = mem
	checkout := services.NewCheckoutService(0)

	app := fiber.New(fiber.Config{Views: handlers.NewViews(), Immutable: true})
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())
	app.Use(handlers.AttachSession(sessions))
	app.Use(limiter.New(limiter.Config{Max: 100, Expiration: time.Minute}))
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	deps := handlers.NewDeps(catalog, checkout, sessions)
	app.Get("/", deps.CatalogHandler.Home)
	app.Get("/products", deps.CatalogHandler.List)
	app.Get("/products/:id", deps.CatalogHandler.Detail)
	app.Get("/api/v1/availability", deps.InventoryHandler.Check)
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Post("/cart/clear", deps.CartHandler.Clear)
	co := app.Group("/checkout", handlers.RequireUser())
	co.Get("/", deps.CheckoutHandler.Form)
	co.Post("/", deps.CheckoutHandler.Place)
	co.Get("/success", deps.CheckoutHandler.Success)
	app.Get("/login", deps.AuthHandler.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{Max: 5, Expiration: 10 * time.Minute}), deps.AuthHandler.Login)
	app.Post("/logout", deps.AuthHandler.Logout)
	app.Use(func(c *fiber.Ctx) error {
		return handlers.ErrorPage(c, fiber.StatusNotFound, "Page not found")
	})

	return &testEnv{app: app, sessions: sessions, checkout: checkout, storage: mem}
}

// client is a cookie-keeping browser stand-in.
type client struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

// newClient primes the sid and csrf_ cookies with a GET of the login page.
func newClient(t *testing.T, env *testEnv) *client {
	t.Helper()
	cl := &client{t: t, app: env.app, cookies: map[string]string{}}
	resp := cl.get("/login")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("prime GET /login: %d", resp.StatusCode)
	}
	if cl.cookies["sid"] == "" || cl.cookies["csrf_"] == "" {
		t.Fatalf("cookies not primed: %v", cl.cookies)
	}
	return cl
}

func (cl *client) do(req *http.Request) *http.Response {
	cl.t.Helper()
	for name, value := range cl.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	resp, err := cl.app.Test(req, -1)
	if err != nil {
		cl.t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	for _, c := range resp.Cookies() {
		if c.Value == "" || c.MaxAge < 0 {
			delete(cl.cookies, c.Name)
			continue
		}
		cl.cookies[c.Name] = c.Value
	}
	return resp
}

func (cl *client) get(path string) *http.Response {
	cl.t.Helper()
	return cl.do(httptest.NewRequest("GET", path, nil))
}

func (cl *client) post(path string, form url.Values) *http.Response {
	cl.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", cl.cookies["csrf_"])
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

func (cl *client) login() {
	cl.t.Helper()
	resp := cl.post("/login", url.Values{"email": {services.DemoEmail}, "password": {services.DemoPassword}})
	if resp.StatusCode != http.StatusFound {
		cl.t.Fatalf("login: expected 302, got %d body=%s", resp.StatusCode, readBody(cl.t, resp))
	}
}

func (cl *client) session(env *testEnv) *services.Session {
	return env.sessions.Open(cl.cookies["sid"])
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func expectRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 to %s, got %d", location, resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("expected Location %q, got %q", location, got)
	}
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	SID    string         `json:"sid"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findAction(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
