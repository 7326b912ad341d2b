package repository

import (
	"sync"

	"balcao/internal/domain"
)

// CartRepository stores the cart each operator is currently building.
// Carts live only in memory for the lifetime of the process; they are
// intentionally never persisted.
type CartRepository interface {
	// Get returns a copy of the operator's cart, creating an empty
	// cart on first access.
	Get(operatorID int64) domain.Cart

	// Update runs fn against the operator's cart under the store's
	// lock. All mutations go through here.
	Update(operatorID int64, fn func(cart *domain.Cart))
}

type memoryCartRepository struct {
	mu    sync.Mutex
	carts map[int64]*domain.Cart
}

// NewMemoryCartRepository creates the in-memory cart store.
func NewMemoryCartRepository() CartRepository {
	return &memoryCartRepository{
		carts: make(map[int64]*domain.Cart),
	}
}

func (r *memoryCartRepository) getOrCreate(operatorID int64) *domain.Cart {
	cart, ok := r.carts[operatorID]
	if !ok {
		cart = domain.NewCart()
		r.carts[operatorID] = cart
	}
	return cart
}

func (r *memoryCartRepository) Get(operatorID int64) domain.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := r.getOrCreate(operatorID)

	// Copy the line items so callers cannot mutate stored state.
	snapshot := *cart
	snapshot.Items = make([]domain.LineItem, len(cart.Items))
	copy(snapshot.Items, cart.Items)
	return snapshot
}

func (r *memoryCartRepository) Update(operatorID int64, fn func(cart *domain.Cart)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn(r.getOrCreate(operatorID))
}
