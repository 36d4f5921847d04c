package services

import (
	"fmt"

	"shopdemo/internal/domain"
)

type InventoryService struct {
	Catalog *CatalogService
}

func NewInventoryService(catalog *CatalogService) *InventoryService {
	return &InventoryService{Catalog: catalog}
}

// CheckAvailability converts stock into IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *InventoryService) CheckAvailability(productID string) (domain.Availability, error) {
	p, ok := s.Catalog.GetByID(productID)
	if !ok {
		return domain.Availability{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	status := "OUT_OF_STOCK"
	switch {
	case p.Stock >= 5:
		status = "IN_STOCK"
	case p.Stock > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: p.Stock}, nil
}
