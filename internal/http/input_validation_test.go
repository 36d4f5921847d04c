package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"shopdemo/internal/domain"
	"shopdemo/internal/repos"
)

func TestAvailabilityAPI(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prods := repos.NewProductRepoWith([]domain.Product{
		{ID: "many", Name: "Many", Price: 100, Category: domain.CategoryBooks, Stock: 20, CreatedAt: now},
		{ID: "few", Name: "Few", Price: 100, Category: domain.CategoryBooks, Stock: 3, CreatedAt: now},
		{ID: "none", Name: "None", Price: 100, Category: domain.CategoryBooks, Stock: 0, CreatedAt: now},
	}, []string{domain.CategoryBooks})
	env := newApp(t, prods)
	cl := newClient(t, env)

	for id, want := range map[string]string{"many": "IN_STOCK", "few": "LOW_STOCK", "none": "OUT_OF_STOCK"} {
		resp := cl.get("/api/v1/availability?productId=" + id)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", id, resp.StatusCode)
		}
		var got domain.Availability
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("%s: decode: %v", id, err)
		}
		if got.Status != want {
			t.Fatalf("%s: expected %s, got %s", id, want, got.Status)
		}
	}
}

func TestValidationBadInputs(t *testing.T) {
	env := newApp(t, nil)
	cl := newClient(t, env)

	cases := []struct {
		path string
		want int
	}{
		{"/api/v1/availability", http.StatusBadRequest},
		{"/api/v1/availability?productId=%3Cx%3E", http.StatusBadRequest},
		{"/api/v1/availability?productId=999", http.StatusNotFound},
		{"/products?q=" + strings.Repeat("%3B", 3), http.StatusBadRequest},
	}
	for _, tc := range cases {
		resp := cl.get(tc.path)
		if resp.StatusCode != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.want, resp.StatusCode)
		}
	}
}

func TestTemplateAutoEscape(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prods := repos.NewProductRepoWith([]domain.Product{
		{ID: "xss-1", Name: "<script>alert(1)</script>", Description: "<b>desc</b>", Price: 999, Category: domain.CategoryBooks, Stock: 1, CreatedAt: now},
	}, []string{domain.CategoryBooks})
	env := newApp(t, prods)
	cl := newClient(t, env)

	body := readBody(t, cl.get("/products/xss-1"))
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Fatalf("found unescaped script tag in output")
	}
	if !strings.Contains(body, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Fatalf("escaped script not found; output=%s", body)
	}
}
