package services

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"shopdemo/internal/domain"
	applog "shopdemo/internal/log"
)

// CartStore owns one session's cart. Every mutation is written through to
// storage; storage failures are logged and the in-memory state wins.
type CartStore struct {
	mu      sync.Mutex
	reducer CartReducer
	storage Storage
	state   CartState
}

// NewCartStore hydrates from storage. A missing or unreadable snapshot
// starts an empty cart.
func NewCartStore(storage Storage, catalog *CatalogService) *CartStore {
	s := &CartStore{reducer: CartReducer{Catalog: catalog}, storage: storage}
	s.state = s.reducer.Reduce(CartState{}, LoadCart{Entries: s.load()})
	return s
}

func (s *CartStore) load() []domain.CartEntry {
	raw, ok, err := s.storage.GetItem(CartStorageKey)
	if err != nil {
		applog.Warn("cart.load.fail", err, nil)
		return nil
	}
	if !ok {
		return nil
	}
	var entries []domain.CartEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		applog.Warn("cart.load.fail", err, map[string]any{"reason": "unparsable"})
		return nil
	}
	return entries
}

func (s *CartStore) dispatch(a CartAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.reducer.Reduce(s.state, a)
	s.persist()
}

func (s *CartStore) persist() {
	b, err := json.Marshal(s.state.Entries)
	if err == nil {
		err = s.storage.SetItem(CartStorageKey, string(b))
	}
	if err != nil {
		applog.Warn("cart.persist.fail", err, map[string]any{"entries": len(s.state.Entries)})
	}
}

// AddItem adds quantity to the product's line. Stock limits are not
// enforced here.
func (s *CartStore) AddItem(productID string, quantity int) {
	s.dispatch(AddItem{ProductID: productID, Quantity: quantity})
}

// UpdateItem sets the line's quantity; zero or less removes the line.
func (s *CartStore) UpdateItem(productID string, quantity int) {
	s.dispatch(UpdateItem{ProductID: productID, Quantity: quantity})
}

func (s *CartStore) RemoveItem(productID string) {
	s.dispatch(RemoveItem{ProductID: productID})
}

func (s *CartStore) Clear() {
	s.dispatch(ClearCart{})
}

// Subtract takes entries' quantities off the cart, dropping lines that
// reach zero.
func (s *CartStore) Subtract(entries []domain.CartEntry) {
	s.dispatch(SubtractItems{Entries: entries})
}

// State returns a copy of the current state.
func (s *CartStore) State() CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Entries = slices.Clone(st.Entries)
	st.Missing = slices.Clone(st.Missing)
	return st
}

func (s *CartStore) Items() []domain.CartEntry { return s.State().Entries }

func (s *CartStore) ItemCount() int { return s.State().ItemCount }

// Total fails if any entry references a product missing from the catalog.
func (s *CartStore) Total() (int64, error) {
	st := s.State()
	if len(st.Missing) > 0 {
		return 0, fmt.Errorf("cart total: %w: %s", ErrProductNotFound, st.Missing[0])
	}
	return st.Total, nil
}

// Materialize joins every entry with its product, in cart order.
func (s *CartStore) Materialize() ([]domain.CartEntryWithProduct, error) {
	st := s.State()
	out := make([]domain.CartEntryWithProduct, 0, len(st.Entries))
	for _, e := range st.Entries {
		p, ok := s.reducer.Catalog.GetByID(e.ProductID)
		if !ok {
			return nil, fmt.Errorf("materialize cart: %w: %s", ErrProductNotFound, e.ProductID)
		}
		out = append(out, domain.CartEntryWithProduct{CartEntry: e, Product: p})
	}
	return out, nil
}
