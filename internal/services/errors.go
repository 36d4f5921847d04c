package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrProductNotFound marks a cart entry whose product is gone from the
	// catalog. Reads that need product data fail on it.
	ErrProductNotFound = errors.New("product not found")

	ErrUnknownEmail  = errors.New("unknown email")
	ErrWrongPassword = errors.New("wrong password")
	ErrLoginFailed   = errors.New("login failed")

	ErrNotLoggedIn      = errors.New("login required")
	ErrEmptyCart        = errors.New("cart empty")
	ErrCheckoutInFlight = errors.New("checkout already in progress")
	ErrCheckoutFailed   = errors.New("checkout processing failed")
)

// Message returns the copy shown to the shopper for err.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownEmail):
		return "The email address is not correct."
	case errors.Is(err, ErrWrongPassword):
		return "The password is not correct."
	case errors.Is(err, ErrLoginFailed):
		return "Login failed. Please try again."
	case errors.Is(err, ErrCheckoutFailed):
		return "An error occurred while processing your payment."
	case errors.Is(err, ErrEmptyCart):
		return "Your cart is empty."
	case errors.Is(err, ErrNotLoggedIn):
		return "Please log in to continue."
	case errors.Is(err, ErrCheckoutInFlight):
		return "Your order is already being processed."
	}
	var fe FieldErrors
	if errors.As(err, &fe) {
		return "Please fill in the required fields."
	}
	return "Something went wrong. Please try again."
}

// FieldErrors maps a form field to a user-facing message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid fields: " + strings.Join(keys, ", ")
}
