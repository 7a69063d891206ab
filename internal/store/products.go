package store

import (
	"storefront/internal/api"
	"storefront/internal/models"
)

func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.products)
}

// Product devuelve ErrNotFound si el id no está en el catálogo local
func (s *Store) Product(id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.productIndex(id); i >= 0 {
		return s.products[i].Clone(), nil
	}
	return models.Product{}, ErrNotFound
}

// productIndex requiere s.mu
func (s *Store) productIndex(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

// AddProduct asigna identidad, recalcula los campos derivados y agrega el producto
func (s *Store) AddProduct(p models.Product) models.Product {
	p = p.Clone()
	p.ID = s.newID()
	p.Normalize()

	s.mu.Lock()
	s.products = append(s.products, p)
	s.mu.Unlock()

	raw, err := api.Raw(p)
	if err != nil {
		s.log.Warn().Err(err).Msg("encode product")
	}
	s.sync(api.CollectionProducts, p.ID, api.ProductRequest{Action: api.ActionAdd, Product: raw})
	return p.Clone()
}

func (s *Store) UpdateProduct(id string, update models.ProductUpdate) error {
	s.mu.Lock()
	i := s.productIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	update.Apply(&s.products[i])
	s.mu.Unlock()

	raw, err := api.Raw(update)
	if err != nil {
		s.log.Warn().Err(err).Msg("encode product update")
	}
	s.sync(api.CollectionProducts, id, api.ProductRequest{Action: api.ActionUpdate, ProductID: id, Product: raw})
	return nil
}

func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	i := s.productIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.products = append(s.products[:i:i], s.products[i+1:]...)
	s.mu.Unlock()

	s.sync(api.CollectionProducts, id, api.ProductRequest{Action: api.ActionDelete, ProductID: id})
	return nil
}

// SyncAll reenvía las cuatro colecciones completas con bulk_update
func (s *Store) SyncAll() {
	s.mu.RLock()
	products := cloneProducts(s.products)
	orders := cloneOrders(s.orders)
	users := append([]models.User(nil), s.users...)
	methods := append([]models.PaymentMethod(nil), s.paymentMethods...)
	s.mu.RUnlock()

	settings := models.Settings{}
	if err := settings.SetPaymentMethods(methods); err != nil {
		s.log.Warn().Err(err).Msg("encode payment methods")
	}

	s.sync(api.CollectionProducts, "", api.ProductRequest{Action: api.ActionBulkUpdate, Products: products})
	s.sync(api.CollectionOrders, "", api.OrderRequest{Action: api.ActionBulkUpdate, Orders: orders})
	s.sync(api.CollectionUsers, "", api.UserRequest{Action: api.ActionBulkUpdate, Users: users})
	s.sync(api.CollectionSettings, "", api.SettingsRequest{Action: api.ActionBulkUpdate, Settings: settings})
}
