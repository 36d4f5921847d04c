package services

import "shopdemo/internal/domain"

// OrderHandoff carries the last placed order from checkout to the
// confirmation page. It holds at most one order and gives it out once.
type OrderHandoff struct {
	ch chan domain.Order
}

func NewOrderHandoff() *OrderHandoff {
	return &OrderHandoff{ch: make(chan domain.Order, 1)}
}

// Put stores o, replacing an order nobody picked up.
func (h *OrderHandoff) Put(o domain.Order) {
	for {
		select {
		case h.ch <- o:
			return
		default:
			select {
			case <-h.ch:
			default:
			}
		}
	}
}

// Take returns the pending order and empties the slot.
func (h *OrderHandoff) Take() (domain.Order, bool) {
	select {
	case o := <-h.ch:
		return o, true
	default:
		return domain.Order{}, false
	}
}
