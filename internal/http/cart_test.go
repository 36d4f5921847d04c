package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"shopdemo/internal/domain"
	"shopdemo/internal/repos"
)

func TestCartFlow(t *testing.T) {
	env := newApp(t, nil)
	cl := newClient(t, env)

	expectRedirect(t, cl.post("/cart", url.Values{"productId": {"1"}, "qty": {"2"}}), "/cart")
	expectRedirect(t, cl.post("/cart", url.Values{"productId": {"3"}, "qty": {"1"}}), "/cart")

	resp := cl.get("/cart")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /cart: %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	for _, want := range []string{"Wireless Earphones Pro", "Casual T-Shirt", "¥31,600", "¥34,800", "Cart (3)"} {
		if !strings.Contains(body, want) {
			t.Fatalf("cart page missing %q; body=%s", want, body)
		}
	}

	// update to zero removes the line
	expectRedirect(t, cl.post("/cart/update", url.Values{"productId": {"1"}, "qty": {"0"}}), "/cart")
	cart := cl.session(env).Cart
	if n := cart.ItemCount(); n != 1 {
		t.Fatalf("expected 1 item after update, got %d", n)
	}

	expectRedirect(t, cl.post("/cart/remove", url.Values{"productId": {"3"}}), "/cart")
	if body := readBody(t, cl.get("/cart")); !strings.Contains(body, "Your cart is empty.") {
		t.Fatalf("expected empty cart page; body=%s", body)
	}
}

func TestCartClear(t *testing.T) {
	env := newApp(t, nil)
	cl := newClient(t, env)
	cl.post("/cart", url.Values{"productId": {"2"}, "qty": {"1"}})
	cl.post("/cart", url.Values{"productId": {"9"}, "qty": {"4"}})

	expectRedirect(t, cl.post("/cart/clear", nil), "/cart")
	if items := cl.session(env).Cart.Items(); len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}
}

func TestCartAddRespectsStock(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prods := repos.NewProductRepoWith([]domain.Product{
		{ID: "low", Name: "Last Two", Price: 1000, Category: domain.CategoryBooks, Stock: 2, CreatedAt: now, UpdatedAt: now},
		{ID: "gone", Name: "Sold Out", Price: 1000, Category: domain.CategoryBooks, Stock: 0, CreatedAt: now, UpdatedAt: now},
	}, []string{domain.CategoryBooks})
	env := newApp(t, prods)
	cl := newClient(t, env)

	expectRedirect(t, cl.post("/cart", url.Values{"productId": {"low"}, "qty": {"5"}}), "/cart")
	if items := cl.session(env).Cart.Items(); len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("expected quantity clamped to 2, got %+v", items)
	}

	// update beyond stock is clamped too
	cl.post("/cart/update", url.Values{"productId": {"low"}, "qty": {"9"}})
	if items := cl.session(env).Cart.Items(); items[0].Quantity != 2 {
		t.Fatalf("expected update clamped to 2, got %+v", items)
	}

	if resp := cl.post("/cart", url.Values{"productId": {"gone"}, "qty": {"1"}}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for out of stock, got %d", resp.StatusCode)
	}
	if resp := cl.post("/cart", url.Values{"productId": {"999"}, "qty": {"1"}}); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", resp.StatusCode)
	}
}

func TestCartRejectsBadInput(t *testing.T) {
	env := newApp(t, nil)
	cl := newClient(t, env)

	for _, form := range []url.Values{
		{"productId": {""}},
		{"productId": {"<x>"}},
	} {
		if resp := cl.post("/cart", form); resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("add %v: expected 400, got %d", form, resp.StatusCode)
		}
	}
	for _, qty := range []string{"-1", "abc", "1000"} {
		resp := cl.post("/cart/update", url.Values{"productId": {"1"}, "qty": {qty}})
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("update qty=%q: expected 400, got %d", qty, resp.StatusCode)
		}
	}
}
