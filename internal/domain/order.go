package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
)

type PaymentMethod string

const (
	PaymentCredit PaymentMethod = "credit"
	PaymentCOD    PaymentMethod = "cod" // cash on delivery
)

type Address struct {
	ZipCode      string `json:"zipCode"`
	Prefecture   string `json:"prefecture"`
	City         string `json:"city"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	Phone        string `json:"phone"`
}

// CardDetails are only checked for presence; nothing is charged.
type CardDetails struct {
	Number string
	Expiry string
	CVV    string
	Holder string
}

// OrderItem is a snapshot of a cart line taken at checkout, detached from
// the live catalog.
type OrderItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
}

func (i OrderItem) Subtotal() int64 { return i.Price * int64(i.Quantity) }

type Order struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId"`
	Items           []OrderItem   `json:"items"`
	TotalAmount     int64         `json:"totalAmount"`
	ShippingAddress Address       `json:"shippingAddress"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	Status          OrderStatus   `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}
