package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopdemo/internal/domain"
)

type CheckoutForm struct {
	Address domain.Address
	Payment domain.PaymentMethod
	Card    domain.CardDetails
}

// ValidateCheckout checks required fields for presence only. Card fields
// are required only when paying by credit card.
func ValidateCheckout(f CheckoutForm) FieldErrors {
	fe := FieldErrors{}
	required := func(field, value, msg string) {
		if strings.TrimSpace(value) == "" {
			fe[field] = msg
		}
	}
	required("zipCode", f.Address.ZipCode, "Zip code is required")
	required("prefecture", f.Address.Prefecture, "Prefecture is required")
	required("city", f.Address.City, "City is required")
	required("addressLine1", f.Address.AddressLine1, "Address is required")
	required("phone", f.Address.Phone, "Phone number is required")

	switch f.Payment {
	case domain.PaymentCredit:
		required("cardNumber", f.Card.Number, "Card number is required")
		required("expiryDate", f.Card.Expiry, "Expiry date is required")
		required("cvv", f.Card.CVV, "Security code is required")
		required("cardHolder", f.Card.Holder, "Card holder is required")
	case domain.PaymentCOD:
	default:
		fe["payment"] = "Choose a payment method"
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Processor stands in for the payment backend.
type Processor func(domain.Order) error

type CheckoutService struct {
	Delay   time.Duration
	Process Processor
	sleep   func(time.Duration)
	now     func() time.Time
}

func NewCheckoutService(delay time.Duration) *CheckoutService {
	return &CheckoutService{Delay: delay, sleep: time.Sleep, now: time.Now}
}

// Prefill returns a form seeded from the user's profile.
func (s *CheckoutService) Prefill(u *domain.AuthUser) CheckoutForm {
	f := CheckoutForm{Payment: domain.PaymentCredit}
	if u != nil {
		f.Card.Holder = u.FullName()
		f.Address.Phone = u.Phone
	}
	return f
}

// Submit places the session's cart as an order. On success the ordered
// quantities come off the cart, so lines added while the order was being
// processed survive, and the order is left in the session's handoff for
// the confirmation page. On a processing failure the cart is left as it was.
func (s *CheckoutService) Submit(sess *Session, f CheckoutForm) (domain.Order, error) {
	user := sess.Auth.User()
	if user == nil {
		return domain.Order{}, ErrNotLoggedIn
	}
	items, err := sess.Cart.Materialize()
	if err != nil {
		return domain.Order{}, err
	}
	if len(items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}
	if fe := ValidateCheckout(f); fe != nil {
		return domain.Order{}, fe
	}
	if !sess.processing.CompareAndSwap(false, true) {
		return domain.Order{}, ErrCheckoutInFlight
	}
	defer sess.processing.Store(false)

	order := s.buildOrder(*user, items, f)
	if err := s.process(order); err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}
	ordered := make([]domain.CartEntry, 0, len(items))
	for _, it := range items {
		ordered = append(ordered, it.CartEntry)
	}
	sess.Cart.Subtract(ordered)
	sess.Orders.Put(order)
	return order, nil
}

func (s *CheckoutService) process(o domain.Order) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if s.Delay > 0 {
		s.sleep(s.Delay)
	}
	if s.Process != nil {
		return s.Process(o)
	}
	return nil
}

func (s *CheckoutService) buildOrder(u domain.AuthUser, items []domain.CartEntryWithProduct, f CheckoutForm) domain.Order {
	now := s.now()
	o := domain.Order{
		ID:              newOrderID(),
		UserID:          u.ID,
		Items:           make([]domain.OrderItem, 0, len(items)),
		ShippingAddress: f.Address,
		PaymentMethod:   f.Payment,
		Status:          domain.OrderConfirmed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, it := range items {
		oi := domain.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.Product.Name,
			Price:       it.Product.Price,
			Quantity:    it.Quantity,
		}
		o.Items = append(o.Items, oi)
		o.TotalAmount += oi.Subtotal()
	}
	return o
}

// newOrderID returns a short display token. It is not guaranteed unique.
func newOrderID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:9]
}
