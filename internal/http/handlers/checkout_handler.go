package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopdemo/internal/domain"
	applog "shopdemo/internal/log"
	"shopdemo/internal/services"
	"shopdemo/internal/validate"
)

type CheckoutHandler struct {
	Checkout *services.CheckoutService
}

func (h *CheckoutHandler) page(c *fiber.Ctx, status int, form services.CheckoutForm, fe services.FieldErrors, general string) error {
	sess := sessionOf(c)
	items, err := sess.Cart.Materialize()
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return ErrorPage(c, fiber.StatusInternalServerError, "Could not load your cart")
	}
	if len(items) == 0 {
		return c.Redirect("/cart")
	}
	total, err := sess.Cart.Total()
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return ErrorPage(c, fiber.StatusInternalServerError, "Could not load your cart")
	}
	c.Status(status)
	return render(c, "checkout", fiber.Map{
		"Form":      form,
		"Errors":    fe,
		"General":   general,
		"Items":     items,
		"Total":     total,
		"ItemCount": sess.Cart.ItemCount(),
	})
}

// GET /checkout
func (h *CheckoutHandler) Form(c *fiber.Ctx) error {
	return h.page(c, fiber.StatusOK, h.Checkout.Prefill(sessionOf(c).Auth.User()), nil, "")
}

func parseCheckoutForm(c *fiber.Ctx) services.CheckoutForm {
	return services.CheckoutForm{
		Address: domain.Address{
			ZipCode:      validate.Field(c.FormValue("zipCode"), 16),
			Prefecture:   validate.Field(c.FormValue("prefecture"), 50),
			City:         validate.Field(c.FormValue("city"), 100),
			AddressLine1: validate.Field(c.FormValue("addressLine1"), 200),
			AddressLine2: validate.Field(c.FormValue("addressLine2"), 200),
			Phone:        validate.Field(c.FormValue("phone"), 30),
		},
		Payment: domain.PaymentMethod(c.FormValue("payment")),
		Card: domain.CardDetails{
			Number: validate.Field(c.FormValue("cardNumber"), 30),
			Expiry: validate.Field(c.FormValue("expiryDate"), 10),
			CVV:    validate.Field(c.FormValue("cvv"), 4),
			Holder: validate.Field(c.FormValue("cardHolder"), 100),
		},
	}
}

// POST /checkout
func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	form := parseCheckoutForm(c)
	order, err := h.Checkout.Submit(sessionOf(c), form)

	var fe services.FieldErrors
	switch {
	case err == nil:
	case errors.As(err, &fe):
		applog.Security(c, "validation.fail", map[string]any{"fields": fe.Error()})
		return h.page(c, fiber.StatusBadRequest, form, fe, "")
	case errors.Is(err, services.ErrEmptyCart):
		return c.Redirect("/cart")
	case errors.Is(err, services.ErrNotLoggedIn):
		return c.Redirect("/login?returnUrl=/checkout")
	case errors.Is(err, services.ErrCheckoutInFlight):
		return h.page(c, fiber.StatusConflict, form, nil, services.Message(err))
	case errors.Is(err, services.ErrCheckoutFailed):
		applog.Error(c, "order.place.fail", err, nil)
		return h.page(c, fiber.StatusInternalServerError, form, nil, services.Message(err))
	default:
		applog.Error(c, "order.place.fail", err, nil)
		return ErrorPage(c, fiber.StatusInternalServerError, "Could not load your cart")
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id": order.ID,
		"total":    order.TotalAmount,
		"items":    len(order.Items),
	})
	return c.Redirect("/checkout/success")
}

// GET /checkout/success shows the order handed over by Place, once.
func (h *CheckoutHandler) Success(c *fiber.Ctx) error {
	order, ok := sessionOf(c).Orders.Take()
	if !ok {
		return c.Redirect("/")
	}
	return render(c, "success", fiber.Map{"Order": order})
}
