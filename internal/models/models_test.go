package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountPercent(t *testing.T) {
	assert.Equal(t, 0, DiscountPercent(100, 100))
	assert.Equal(t, 0, DiscountPercent(120, 100))
	assert.Equal(t, 0, DiscountPercent(10, 0))
	assert.Equal(t, 25, DiscountPercent(899.99, 1199.99))
	assert.Equal(t, 17, DiscountPercent(499.99, 599.99))
	assert.Equal(t, 50, DiscountPercent(50, 100))
}

func TestProductNormalizeOverridesDerivedFields(t *testing.T) {
	p := Product{Price: 75, OriginalPrice: 100, Discount: 3, StockCount: 0, InStock: true,
		Images: []string{"a.png", "b.png"}}
	p.Normalize()

	assert.Equal(t, 25, p.Discount)
	assert.False(t, p.InStock)
	assert.Equal(t, "a.png", p.Image)
}

func TestProductUpdateApply(t *testing.T) {
	p := Product{Name: "Mouse", Price: 100, OriginalPrice: 100, StockCount: 3}
	p.Normalize()

	price := 80.0
	stock := 0
	ProductUpdate{Price: &price, StockCount: &stock}.Apply(&p)

	assert.Equal(t, "Mouse", p.Name)
	assert.Equal(t, 80.0, p.Price)
	assert.Equal(t, 20, p.Discount)
	assert.False(t, p.InStock)
	assert.True(t, ProductUpdate{}.IsEmpty())
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderPending, OrderApproved, OrderRejected, OrderShipped, OrderDelivered} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("cancelled").Valid())
}

func TestPaymentMethodContact(t *testing.T) {
	paypal := PaymentMethod{Type: PaymentPayPal, Email: "pay@shop.test", Handle: "$nope"}
	cashapp := PaymentMethod{Type: PaymentCashApp, Email: "nope@shop.test", Handle: "$shop"}

	assert.Equal(t, "pay@shop.test", paypal.Contact())
	assert.Equal(t, "$shop", cashapp.Contact())
	assert.True(t, PaymentZelle.UsesEmail())
	assert.False(t, PaymentVenmo.UsesEmail())
	assert.False(t, PaymentType("bitcoin").Valid())
}

func TestSettingsPaymentMethods(t *testing.T) {
	s := Settings{}
	methods, err := s.PaymentMethods()
	require.NoError(t, err)
	assert.Empty(t, methods)

	require.NoError(t, s.SetPaymentMethods([]PaymentMethod{{ID: "1", Name: "PayPal", Type: PaymentPayPal, Status: PaymentActive}}))
	methods, err = s.PaymentMethods()
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, "PayPal", methods[0].Name)
}

func TestCartItemLineTotal(t *testing.T) {
	item := CartItem{Price: 19.99, Quantity: 3}
	assert.Equal(t, "59.97", item.LineTotal().StringFixed(2))
}
