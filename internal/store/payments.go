package store

import (
	"fmt"

	"storefront/internal/api"
	"storefront/internal/models"
)

func (s *Store) PaymentMethods() []models.PaymentMethod {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PaymentMethod{}, s.paymentMethods...)
}

// ActivePaymentMethods conserva el orden de la colección
func (s *Store) ActivePaymentMethods() []models.PaymentMethod {
	s.mu.RLock()
	defer s.mu.RUnlock()
	active := []models.PaymentMethod{}
	for _, m := range s.paymentMethods {
		if m.Status == models.PaymentActive {
			active = append(active, m)
		}
	}
	return active
}

func (s *Store) PaymentMethod(id string) (models.PaymentMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.paymentIndex(id); i >= 0 {
		return s.paymentMethods[i], nil
	}
	return models.PaymentMethod{}, ErrNotFound
}

// paymentIndex requiere s.mu
func (s *Store) paymentIndex(id string) int {
	for i := range s.paymentMethods {
		if s.paymentMethods[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) AddPaymentMethod(m models.PaymentMethod) (models.PaymentMethod, error) {
	if !m.Type.Valid() {
		return models.PaymentMethod{}, fmt.Errorf("invalid payment type %q", m.Type)
	}
	if m.Status == "" {
		m.Status = models.PaymentActive
	}
	m.ID = s.newID()

	s.mu.Lock()
	s.paymentMethods = append(s.paymentMethods, m)
	s.mu.Unlock()

	raw, err := api.Raw(m)
	if err != nil {
		s.log.Warn().Err(err).Msg("encode payment method")
	}
	s.sync(api.CollectionSettings, m.ID, api.SettingsRequest{Action: api.ActionAddPaymentMethod, PaymentMethod: raw})
	return m, nil
}

func (s *Store) UpdatePaymentMethod(id string, update models.PaymentMethodUpdate) error {
	if update.Type != nil && !update.Type.Valid() {
		return fmt.Errorf("invalid payment type %q", *update.Type)
	}
	s.mu.Lock()
	i := s.paymentIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	update.Apply(&s.paymentMethods[i])
	s.mu.Unlock()

	raw, err := api.Raw(update)
	if err != nil {
		s.log.Warn().Err(err).Msg("encode payment method update")
	}
	s.sync(api.CollectionSettings, id, api.SettingsRequest{
		Action:          api.ActionUpdatePaymentMethod,
		PaymentMethodID: id,
		PaymentMethod:   raw,
	})
	return nil
}

func (s *Store) DeletePaymentMethod(id string) error {
	s.mu.Lock()
	i := s.paymentIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.paymentMethods = append(s.paymentMethods[:i:i], s.paymentMethods[i+1:]...)
	s.mu.Unlock()

	s.sync(api.CollectionSettings, id, api.SettingsRequest{Action: api.ActionDeletePaymentMethod, PaymentMethodID: id})
	return nil
}
