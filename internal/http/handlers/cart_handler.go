package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shopdemo/internal/log"
	"shopdemo/internal/services"
	"shopdemo/internal/validate"
)

type CartHandler struct {
	Catalog *services.CatalogService
}

// GET /cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	sess := sessionOf(c)
	items, err := sess.Cart.Materialize()
	if err != nil {
		applog.Error(c, "cart.materialize.fail", err, nil)
		return ErrorPage(c, fiber.StatusInternalServerError, "Some items in your cart are no longer available")
	}
	total, err := sess.Cart.Total()
	if err != nil {
		applog.Error(c, "cart.total.fail", err, nil)
		return ErrorPage(c, fiber.StatusInternalServerError, "Some items in your cart are no longer available")
	}
	return render(c, "cart", fiber.Map{
		"Items":     items,
		"Total":     total,
		"ItemCount": sess.Cart.ItemCount(),
	})
}

// POST /cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	p, ok := h.Catalog.GetByID(productID)
	if !ok {
		return ErrorPage(c, fiber.StatusNotFound, "This item is no longer available")
	}
	if p.Stock <= 0 {
		return c.Status(fiber.StatusBadRequest).SendString("out of stock")
	}
	// Stock limits live here, not in the cart store.
	qty := validate.Qty(c.FormValue("qty"), p.Stock)
	sessionOf(c).Cart.AddItem(productID, qty)
	applog.Info(c, "cart.add", map[string]any{"product": productID, "qty": qty})
	return c.Redirect("/cart")
}

// POST /cart/update
func (h *CartHandler) Update(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	qty, ok := validate.SetQty(c.FormValue("qty"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "qty"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid quantity")
	}
	if p, found := h.Catalog.GetByID(productID); found && qty > p.Stock {
		qty = p.Stock
	}
	sessionOf(c).Cart.UpdateItem(productID, qty)
	applog.Info(c, "cart.update", map[string]any{"product": productID, "qty": qty})
	return c.Redirect("/cart")
}

// POST /cart/remove
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	sessionOf(c).Cart.RemoveItem(productID)
	applog.Info(c, "cart.remove", map[string]any{"product": productID})
	return c.Redirect("/cart")
}

// POST /cart/clear
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sessionOf(c).Cart.Clear()
	applog.Info(c, "cart.clear", nil)
	return c.Redirect("/cart")
}
