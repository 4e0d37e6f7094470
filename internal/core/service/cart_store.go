package service

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/forestplants/storefront/internal/api/metrics"
	"github.com/forestplants/storefront/internal/core/domain"
	"github.com/forestplants/storefront/internal/core/ports"
)

// CartStore holds the shopper's line items and mirrors the full sequence to
// storage after every mutation.
type CartStore struct {
	storage ports.Storage
	log     zerolog.Logger

	mu    sync.RWMutex
	items domain.Cart
}

var _ ports.CartService = (*CartStore)(nil)

// NewCartStore restores the cart from storage. Missing or corrupt data
// yields an empty cart.
func NewCartStore(storage ports.Storage, log zerolog.Logger) *CartStore {
	s := &CartStore{storage: storage, log: log, items: domain.Cart{}}
	s.bootstrap()
	metrics.CartItems.Set(float64(s.items.ItemCount()))
	return s
}

func (s *CartStore) bootstrap() {
	raw, ok := s.storage.Get(domain.StorageKeyCart)
	if !ok || raw == "" {
		return
	}
	var stored []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.log.Warn().Err(err).Msg("persisted cart is corrupt, starting empty")
		return
	}
	// Merge duplicates and drop empty lines a foreign writer may have left.
	for _, it := range stored {
		if it.Quantity <= 0 {
			continue
		}
		if i := s.items.Index(it.PlantID); i >= 0 {
			s.items[i].Quantity += it.Quantity
			continue
		}
		s.items = append(s.items, it)
	}
}

// Items returns a copy of the line items in insertion order.
func (s *CartStore) Items() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(domain.Cart, len(s.items))
	copy(out, s.items)
	return out
}

func (s *CartStore) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.ItemCount()
}

func (s *CartStore) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.Total()
}

// AddItem adds quantity of a plant, merging into an existing line for the
// same plant.
func (s *CartStore) AddItem(plantID domain.ID, name string, price float64, quantity int) error {
	item := domain.LineItem{PlantID: plantID, Name: name, Price: price, Quantity: quantity}
	if err := validate.Struct(item); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidLineItem, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.items.Index(plantID); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, item)
	}
	s.saveLocked("add")
	return nil
}

// AddOne adds a single unit of a plant.
func (s *CartStore) AddOne(plantID domain.ID, name string, price float64) error {
	return s.AddItem(plantID, name, price, 1)
}

// RemoveItem drops the line for plantID, if any.
func (s *CartStore) RemoveItem(plantID domain.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(plantID)
	s.saveLocked("remove")
}

func (s *CartStore) removeLocked(plantID domain.ID) {
	kept := s.items[:0]
	for _, it := range s.items {
		if it.PlantID != plantID {
			kept = append(kept, it)
		}
	}
	s.items = kept
}

// SetQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line. Unknown plants are ignored: the cart never gains a
// line through SetQuantity.
func (s *CartStore) SetQuantity(plantID domain.ID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.items.Index(plantID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		s.removeLocked(plantID)
		s.saveLocked("remove")
		return
	}
	s.items[i].Quantity = quantity
	s.saveLocked("set_quantity")
}

// Clear empties the cart.
func (s *CartStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = domain.Cart{}
	s.saveLocked("clear")
}

func (s *CartStore) saveLocked(action string) {
	metrics.CartMutationsTotal.WithLabelValues(action).Inc()
	metrics.CartItems.Set(float64(s.items.ItemCount()))

	raw, err := json.Marshal(s.items)
	if err != nil {
		s.log.Error().Err(err).Msg("encode cart")
		return
	}
	s.storage.Set(domain.StorageKeyCart, string(raw))
}
