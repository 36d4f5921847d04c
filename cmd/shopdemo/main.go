package main

import (
	"errors"
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"shopdemo/internal/config"
	"shopdemo/internal/http/handlers"
	applog "shopdemo/internal/log"
	"shopdemo/internal/repos"
	"shopdemo/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	// Session storage
	var (
		storage services.StorageFunc
		reaper  services.SessionStore
	)
	switch cfg.Storage {
	case "memory":
		mem := repos.NewMemoryStorage()
		storage = func(sid string) services.Storage { return mem.For(sid) }
		reaper = mem
	default:
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			log.Fatal(err)
		}
		kv := repos.NewStorageRepo(db)
		storage = func(sid string) services.Storage { return kv.For(sid) }
		reaper = kv
	}
	log.Printf("[storage] %s", cfg.Storage)

	catalog := services.NewCatalogService(repos.NewProductRepo())
	sessions := services.NewSessionManager(storage, catalog, services.NewAuthenticator(cfg.LoginDelay))
	sessions.Store = reaper
	go reapSessions(sessions, cfg.SessionIdle)
	checkout := services.NewCheckoutService(cfg.CheckoutDelay)

	app := fiber.New(fiber.Config{
		Views: handlers.NewViews(),
		// Cart lines, session ids and handed-off orders outlive the request,
		// so values read from it must not alias fasthttp's buffers.
		Immutable: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and show a friendly message
			applog.Error(c, "server.error", err, nil)
			status := fiber.StatusInternalServerError
			msg := "Something went wrong. Please try again."
			var fe *fiber.Error
			if errors.As(err, &fe) && fe.Code < 500 {
				status, msg = fe.Code, "Page not found"
			}
			if rerr := c.Status(status).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
				return c.Status(status).SendString(msg)
			}
			return nil
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())

	// Health sits ahead of the session middleware so health checks don't mint sessions
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "sessions": sessions.Len()})
	})

	app.Use(handlers.AttachSession(sessions))
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"form": c.FormValue("csrf")})
			return handlers.ErrorPage(c, fiber.StatusForbidden, "Security check failed. Please refresh and try again.")
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(catalog, checkout, sessions)

	// Catalog
	app.Get("/", deps.CatalogHandler.Home)
	app.Get("/products", limiter.New(limiter.Config{Max: 30, Expiration: time.Minute}), deps.CatalogHandler.List)
	app.Get("/products/:id", deps.CatalogHandler.Detail)

	// API
	api := app.Group("/api/v1")
	availLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/availability", availLimiter, deps.InventoryHandler.Check)

	// Cart
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Post("/cart/clear", deps.CartHandler.Clear)

	// Checkout
	co := app.Group("/checkout", handlers.RequireUser())
	co.Get("/", deps.CheckoutHandler.Form)
	co.Post("/", deps.CheckoutHandler.Place)
	co.Get("/success", deps.CheckoutHandler.Success)

	// Auth routes (login throttled)
	app.Get("/login", deps.AuthHandler.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return handlers.ErrorPage(c, fiber.StatusTooManyRequests, "Too many attempts. Please try again later.")
		},
	}), deps.AuthHandler.Login)
	app.Post("/logout", deps.AuthHandler.Logout)

	// 404
	app.Use(func(c *fiber.Ctx) error {
		return handlers.ErrorPage(c, fiber.StatusNotFound, "Page not found")
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}

// reapSessions ends sessions nobody has used for idle.
func reapSessions(sessions *services.SessionManager, idle time.Duration) {
	tick := time.NewTicker(min(idle, time.Minute))
	defer tick.Stop()
	for range tick.C {
		if n := sessions.Sweep(time.Now().Add(-idle)); n > 0 {
			log.Printf("[sessions] reaped %d idle, %d live", n, sessions.Len())
		}
	}
}
