// Package cart keeps the shopping cart and writes the whole cart to its durable slot
// after every change.
package cart

import (
	"context"
	"slices"
	"sync"

	"github.com/nikolayk812/stitchstyle/internal/domain"
	"github.com/nikolayk812/stitchstyle/internal/port"
	"github.com/nikolayk812/stitchstyle/internal/slot"
	"github.com/sirupsen/logrus"
)

const SlotKey = "stitch-style-cart"

// Store never reports errors to callers. Unknown product ids are no-ops and failed
// writes are logged; the in-memory cart stays authoritative.
type Store struct {
	slots port.SlotRepository
	log   logrus.FieldLogger

	mu   sync.RWMutex
	cart domain.Cart
}

func New(ctx context.Context, slots port.SlotRepository, log logrus.FieldLogger) *Store {
	s := &Store{
		slots: slots,
		log:   log.WithField("component", "cart"),
	}

	items, _, err := slot.Load[[]domain.CartItem](ctx, slots, SlotKey)
	if err != nil {
		s.log.WithError(err).Error("failed to restore stored cart")
	}
	s.cart.Items = normalize(items)

	return s
}

// AddItem increments the line for product by quantity, or appends a new line.
// Non-positive quantities are ignored and a line never exceeds domain.MaxQuantity.
func (s *Store) AddItem(ctx context.Context, product domain.Product, quantity int) {
	if quantity <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.cart.IndexOf(product.ID); i >= 0 {
		s.cart.Items[i].Quantity = min(s.cart.Items[i].Quantity+quantity, domain.MaxQuantity)
	} else {
		s.cart.Items = append(s.cart.Items, domain.CartItem{Product: product, Quantity: min(quantity, domain.MaxQuantity)})
	}

	s.save(ctx)
}

func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(ctx, productID)
}

// UpdateQuantity sets the quantity of an existing line; quantity <= 0 removes it.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.remove(ctx, productID)
		return
	}

	if i := s.cart.IndexOf(productID); i >= 0 {
		s.cart.Items[i].Quantity = min(quantity, domain.MaxQuantity)
	}

	s.save(ctx)
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Items = nil
	s.save(ctx)
}

// Checkout returns the current cart and empties the store under one lock.
func (s *Store) Checkout(ctx context.Context) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := domain.Cart{Items: s.cart.Items}
	if len(taken.Items) == 0 {
		return domain.Cart{}
	}

	s.cart.Items = nil
	s.save(ctx)

	return taken
}

// Cart returns a snapshot; mutating it does not touch the store.
func (s *Store) Cart() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Cart{Items: slices.Clone(s.cart.Items)}
}

func (s *Store) Items() []domain.CartItem {
	return s.Cart().Items
}

func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cart.TotalItems()
}

func (s *Store) TotalPrice() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cart.TotalPrice()
}

// remove expects s.mu to be held.
func (s *Store) remove(ctx context.Context, productID string) {
	s.cart.Items = slices.DeleteFunc(s.cart.Items, func(item domain.CartItem) bool {
		return item.ID == productID
	})
	s.save(ctx)
}

// save expects s.mu to be held.
func (s *Store) save(ctx context.Context) {
	items := s.cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}

	if err := slot.Save(ctx, s.slots, SlotKey, items); err != nil {
		s.log.WithError(err).Error("failed to persist cart")
	}
}

// normalize merges duplicate lines and drops non-positive quantities from a stored cart.
func normalize(items []domain.CartItem) []domain.CartItem {
	var out []domain.CartItem
	seen := make(map[string]int, len(items))

	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if i, ok := seen[item.ID]; ok {
			out[i].Quantity = min(out[i].Quantity+item.Quantity, domain.MaxQuantity)
			continue
		}
		item.Quantity = min(item.Quantity, domain.MaxQuantity)
		seen[item.ID] = len(out)
		out = append(out, item)
	}

	return out
}
