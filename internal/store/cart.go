package store

import (
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

func (s *Store) Cart() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CartItem{}, s.cart...)
}

// AddToCart suma qty a la línea existente o agrega una con el precio actual del producto
func (s *Store) AddToCart(p models.Product, qty int) {
	if qty <= 0 {
		return
	}
	s.mu.Lock()
	merged := false
	for i := range s.cart {
		if s.cart[i].ID == p.ID {
			s.cart[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		s.cart = append(s.cart, models.CartItem{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Quantity: qty,
			Image:    p.Image,
		})
	}
	if s.currentUser != nil {
		s.appendActivityLocked(models.NewActivity{
			UserID:    s.currentUser.ID,
			Action:    models.ActionAddToCart,
			ProductID: p.ID,
			Details:   fmt.Sprintf("Added %d x %s to cart", qty, p.Name),
		})
	}
	s.mu.Unlock()
	s.persist()
}

// UpdateCartQuantity fija la cantidad sin limitarla al stock; 0 o menos elimina la línea
func (s *Store) UpdateCartQuantity(id string, qty int) {
	if qty <= 0 {
		s.RemoveFromCart(id)
		return
	}
	s.mu.Lock()
	for i := range s.cart {
		if s.cart[i].ID == id {
			s.cart[i].Quantity = qty
		}
	}
	s.mu.Unlock()
	s.persist()
}

func (s *Store) RemoveFromCart(id string) {
	s.mu.Lock()
	kept := s.cart[:0:0]
	for _, item := range s.cart {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.cart = kept
	s.mu.Unlock()
	s.persist()
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	s.cart = []models.CartItem{}
	s.mu.Unlock()
	s.persist()
}

// CartCount es la suma de cantidades
func (s *Store) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, item := range s.cart {
		n += item.Quantity
	}
	return n
}

func (s *Store) CartSubtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, item := range s.cart {
		total = total.Add(item.LineTotal())
	}
	return total
}
