package store

import (
	"fmt"

	"storefront/internal/api"
	"storefront/internal/models"
)

func (s *Store) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOrders(s.orders)
}

func (s *Store) Order(id string) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o.Clone(), nil
		}
	}
	return models.Order{}, ErrNotFound
}

// AddOrder registra el pedido como pending y devuelve su id.
// No valida el total ni el stock y no vacía el carrito: eso es del llamador.
func (s *Store) AddOrder(in models.NewOrder) string {
	now := s.now()
	o := models.Order{
		ID:            "ORD-" + s.newID(),
		Customer:      in.Customer,
		Items:         append([]models.CartItem(nil), in.Items...),
		Total:         in.Total,
		Status:        models.OrderPending,
		PaymentMethod: in.PaymentMethod,
		PaymentProof:  in.PaymentProof,
		OrderDate:     now,
		CreatedAt:     now,
	}

	s.mu.Lock()
	s.orders = append(s.orders, o)
	s.mu.Unlock()

	payload := o.Clone()
	s.sync(api.CollectionOrders, o.ID, api.OrderRequest{Action: api.ActionAdd, Order: &payload})
	return o.ID
}

func (s *Store) UpdateOrderStatus(id string, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid order status %q", status)
	}
	s.mu.Lock()
	found := false
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return ErrNotFound
	}

	s.sync(api.CollectionOrders, id, api.OrderRequest{Action: api.ActionUpdateStatus, OrderID: id, Status: status})
	return nil
}
