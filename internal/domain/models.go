package domain

import "time"

// Category values, in the order the storefront lists them.
const (
	CategoryElectronics = "Electronics"
	CategoryFashion     = "Fashion"
	CategoryHomeGarden  = "Home & Garden"
	CategorySports      = "Sports"
	CategoryBooks       = "Books"
)

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"` // yen
	Images      []string  `json:"images"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
}

// CartEntry is the persisted shape of one cart line.
type CartEntry struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CartEntryWithProduct struct {
	CartEntry
	Product Product
}

// Subtotal is price times quantity for the line.
func (e CartEntryWithProduct) Subtotal() int64 {
	return e.Product.Price * int64(e.Quantity)
}
