package services

import "shopdemo/internal/domain"

// CartState is the cart entries plus the values derived from them. The
// derived fields are recomputed from Entries on every action.
type CartState struct {
	Entries   []domain.CartEntry
	Total     int64
	ItemCount int
	// Missing lists product ids in Entries that the catalog can't resolve.
	Missing []string
}

type CartAction interface{ cartAction() }

type AddItem struct {
	ProductID string
	Quantity  int
}

type UpdateItem struct {
	ProductID string
	Quantity  int
}

type RemoveItem struct{ ProductID string }

type ClearCart struct{}

// LoadCart replaces the entries, e.g. when hydrating from storage.
type LoadCart struct{ Entries []domain.CartEntry }

// SubtractItems takes the given quantities off their lines, e.g. the lines
// an order was placed for. Anything added meanwhile stays.
type SubtractItems struct{ Entries []domain.CartEntry }

func (AddItem) cartAction()       {}
func (UpdateItem) cartAction()    {}
func (RemoveItem) cartAction()    {}
func (ClearCart) cartAction()     {}
func (LoadCart) cartAction()      {}
func (SubtractItems) cartAction() {}

// CartReducer resolves prices against a catalog that never changes, so
// Reduce is a pure function of its arguments.
type CartReducer struct {
	Catalog *CatalogService
}

// Reduce never mutates s.
func (r CartReducer) Reduce(s CartState, a CartAction) CartState {
	var entries []domain.CartEntry
	switch a := a.(type) {
	case AddItem:
		entries = addEntry(s.Entries, a.ProductID, a.Quantity)
	case UpdateItem:
		entries = make([]domain.CartEntry, 0, len(s.Entries))
		for _, e := range s.Entries {
			if e.ProductID == a.ProductID {
				if a.Quantity <= 0 {
					continue
				}
				e.Quantity = a.Quantity
			}
			entries = append(entries, e)
		}
	case RemoveItem:
		entries = make([]domain.CartEntry, 0, len(s.Entries))
		for _, e := range s.Entries {
			if e.ProductID != a.ProductID {
				entries = append(entries, e)
			}
		}
	case ClearCart:
		entries = nil
	case LoadCart:
		for _, e := range a.Entries {
			entries = addEntry(entries, e.ProductID, e.Quantity)
		}
	case SubtractItems:
		entries = s.Entries
		for _, e := range a.Entries {
			if e.Quantity > 0 {
				entries = addEntry(entries, e.ProductID, -e.Quantity)
			}
		}
	default:
		return s
	}
	return r.derive(entries)
}

// addEntry adds qty to productID's line, appending a new line if needed.
// A line that ends up at zero or below is dropped.
func addEntry(in []domain.CartEntry, productID string, qty int) []domain.CartEntry {
	out := make([]domain.CartEntry, 0, len(in)+1)
	found := false
	for _, e := range in {
		if e.ProductID == productID {
			found = true
			e.Quantity += qty
			if e.Quantity <= 0 {
				continue
			}
		}
		out = append(out, e)
	}
	if !found && qty > 0 {
		out = append(out, domain.CartEntry{ProductID: productID, Quantity: qty})
	}
	return out
}

func (r CartReducer) derive(entries []domain.CartEntry) CartState {
	s := CartState{Entries: make([]domain.CartEntry, 0, len(entries))}
	for _, e := range entries {
		s.Entries = append(s.Entries, e)
		s.ItemCount += e.Quantity
		p, ok := r.Catalog.GetByID(e.ProductID)
		if !ok {
			s.Missing = append(s.Missing, e.ProductID)
			continue
		}
		s.Total += p.Price * int64(e.Quantity)
	}
	return s
}
