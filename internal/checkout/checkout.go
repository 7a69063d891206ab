// Package checkout valida el formulario de compra y convierte el carrito en un pedido.
package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"storefront/internal/models"
	"storefront/internal/pricing"
)

// ValidationError nombra el campo que impide completar la compra
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// Store es la parte del store que usa el checkout
type Store interface {
	CurrentUser() *models.User
	Cart() []models.CartItem
	Product(id string) (models.Product, error)
	PaymentMethod(id string) (models.PaymentMethod, error)
	AddActivity(in models.NewActivity) models.UserActivity
	AddOrder(in models.NewOrder) string
	ClearCart()
}

type Form struct {
	Customer        models.Customer
	PaymentMethodID string
	PaymentProof    string
	PromoCode       string
}

type Receipt struct {
	OrderID string
	Quote   pricing.Quote
}

type Service struct {
	store Store
	log   zerolog.Logger
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log.With().Str("component", "checkout").Logger()}
}

// Start registra checkout_started para el usuario actual
func (s *Service) Start() error {
	user := s.store.CurrentUser()
	if user == nil {
		return invalid("user", "Please login to proceed with checkout")
	}
	s.store.AddActivity(models.NewActivity{
		UserID:  user.ID,
		Action:  models.ActionCheckoutStarted,
		Details: "Started checkout process",
	})
	return nil
}

// PlaceOrder crea el pedido con el total cotizado y vacía el carrito.
// Crear el pedido y vaciar el carrito son dos mutaciones independientes.
func (s *Service) PlaceOrder(form Form) (Receipt, error) {
	user := s.store.CurrentUser()
	if user == nil {
		return Receipt{}, invalid("user", "Please login to place an order")
	}
	cart := s.store.Cart()
	if len(cart) == 0 {
		return Receipt{}, invalid("cart", "Your cart is empty")
	}
	if err := validateCustomer(form.Customer); err != nil {
		return Receipt{}, err
	}
	if strings.TrimSpace(form.PaymentProof) == "" {
		return Receipt{}, invalid("paymentProof", "Please upload payment proof")
	}
	if form.PaymentMethodID == "" {
		return Receipt{}, invalid("paymentMethod", "Please select a payment method")
	}
	method, err := s.store.PaymentMethod(form.PaymentMethodID)
	if err != nil || method.Status != models.PaymentActive {
		return Receipt{}, invalid("paymentMethod", "Selected payment method is not available")
	}
	if err := s.checkStock(cart); err != nil {
		return Receipt{}, err
	}

	quote, err := pricing.Calculate(cart, form.PromoCode)
	if errors.Is(err, pricing.ErrInvalidPromo) {
		return Receipt{}, invalid("promoCode", "Invalid promo code")
	}
	if err != nil {
		return Receipt{}, err
	}

	total, _ := quote.Total.Float64()
	orderID := s.store.AddOrder(models.NewOrder{
		Customer:      form.Customer,
		Items:         cart,
		Total:         total,
		PaymentMethod: method.Name,
		PaymentProof:  strings.TrimSpace(form.PaymentProof),
	})
	s.store.AddActivity(models.NewActivity{
		UserID:  user.ID,
		Action:  models.ActionOrderPlaced,
		Details: fmt.Sprintf("Placed order %s for $%s", orderID, quote.Total.StringFixed(2)),
	})
	s.store.ClearCart()

	s.log.Info().Str("order_id", orderID).Str("total", quote.Total.StringFixed(2)).Msg("order placed")
	return Receipt{OrderID: orderID, Quote: quote}, nil
}

func validateCustomer(c models.Customer) error {
	fields := []struct {
		name  string
		value string
	}{
		{"firstName", c.FirstName},
		{"lastName", c.LastName},
		{"email", c.Email},
		{"phone", c.Phone},
		{"address", c.Address},
		{"city", c.City},
		{"state", c.State},
		{"zipCode", c.ZipCode},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return invalid(f.name, "Please fill in all required fields")
		}
	}
	return nil
}

func (s *Service) checkStock(cart []models.CartItem) error {
	for _, item := range cart {
		p, err := s.store.Product(item.ID)
		if err != nil {
			return invalid("cart", fmt.Sprintf("%s is no longer available", item.Name))
		}
		if item.Quantity > p.StockCount {
			return invalid("cart", fmt.Sprintf("Only %d of %s left in stock", p.StockCount, p.Name))
		}
	}
	return nil
}
