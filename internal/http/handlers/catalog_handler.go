package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopdemo/internal/log"
	"shopdemo/internal/services"
	"shopdemo/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
	Inv     *services.InventoryService
}

// GET /
func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	return render(c, "home", fiber.Map{
		"Featured":   h.Catalog.Featured(4),
		"Newest":     h.Catalog.Newest(8),
		"Categories": h.Catalog.Categories(),
	})
}

// GET /products?category=&q=&sort=&page=
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	sortKey, _ := services.ParseSortKey(c.Query("sort"))
	data := fiber.Map{
		"Categories": h.Catalog.Categories(),
		"Sort":       string(sortKey),
		"Page":       services.Paginate(nil, 1, services.DefaultPageSize),
		"Category":   "",
		"Q":          "",
	}

	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		var ok bool
		if category, ok = validate.Category(category, h.Catalog.Categories()); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "category"})
			data["Err"] = "Unknown category"
			c.Status(fiber.StatusBadRequest)
			return render(c, "products", data)
		}
	}
	data["Category"] = category

	q := ""
	if raw := c.Query("q"); strings.TrimSpace(raw) != "" {
		var ok bool
		if q, ok = validate.Q(raw); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "q", "value": raw})
			data["Err"] = "Enter a valid keyword (letters/numbers only)"
			c.Status(fiber.StatusBadRequest)
			return render(c, "products", data)
		}
	}
	data["Q"] = q

	list := h.Catalog.Filter(category, q, sortKey)
	data["Page"] = services.Paginate(list, validate.Page(c.Query("page")), services.DefaultPageSize)
	return render(c, "products", data)
}

// GET /products/:id
func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return ErrorPage(c, fiber.StatusNotFound, "This item is no longer available")
	}
	p, ok := h.Catalog.GetByID(id)
	if !ok {
		return ErrorPage(c, fiber.StatusNotFound, "This item is no longer available")
	}
	avail, err := h.Inv.CheckAvailability(id)
	if err != nil {
		return err
	}
	return render(c, "product", fiber.Map{
		"P":       p,
		"Avail":   avail,
		"Related": h.Catalog.Related(p, 4),
	})
}
