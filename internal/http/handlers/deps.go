package handlers

import (
	"shopdemo/internal/services"
)

type Deps struct {
	CatalogHandler   *CatalogHandler
	InventoryHandler *InventoryHandler
	CartHandler      *CartHandler
	AuthHandler      *AuthHandler
	CheckoutHandler  *CheckoutHandler
}

func NewDeps(catalog *services.CatalogService, checkout *services.CheckoutService, sessions *services.SessionManager) *Deps {
	invSvc := services.NewInventoryService(catalog)

	return &Deps{
		CatalogHandler:   &CatalogHandler{Catalog: catalog, Inv: invSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		CartHandler:      &CartHandler{Catalog: catalog},
		AuthHandler:      &AuthHandler{Sessions: sessions},
		CheckoutHandler:  &CheckoutHandler{Checkout: checkout},
	}
}
