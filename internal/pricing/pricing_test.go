package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func items(prices ...float64) []models.CartItem {
	out := make([]models.CartItem, len(prices))
	for i, p := range prices {
		out[i] = models.CartItem{ID: string(rune('a' + i)), Price: p, Quantity: 1}
	}
	return out
}

func TestCalculateWithoutPromo(t *testing.T) {
	q, err := Calculate(items(40, 20), "")
	require.NoError(t, err)

	assert.Equal(t, "60.00", q.Subtotal.StringFixed(2))
	assert.True(t, q.Discount.IsZero())
	assert.Equal(t, "15.99", q.Shipping.StringFixed(2))
	assert.Equal(t, "5.33", q.Tax.StringFixed(2))
	assert.Equal(t, "81.32", q.Total.StringFixed(2))
	assert.Equal(t, "40.00", q.RemainingForFreeShipping().StringFixed(2))
}

func TestCalculateFreeShippingThreshold(t *testing.T) {
	exact, err := Calculate(items(100), "")
	require.NoError(t, err)
	assert.False(t, exact.FreeShipping())

	over, err := Calculate(items(100.01), "")
	require.NoError(t, err)
	assert.True(t, over.FreeShipping())
	assert.True(t, over.RemainingForFreeShipping().IsZero())
}

func TestCalculateWithPromo(t *testing.T) {
	q, err := Calculate([]models.CartItem{{ID: "1", Price: 499.99, Quantity: 2}}, " save20 ")
	require.NoError(t, err)

	assert.Equal(t, "SAVE20", q.PromoCode)
	assert.Equal(t, "999.98", q.Subtotal.StringFixed(2))
	assert.Equal(t, "200.00", q.Discount.StringFixed(2))
	assert.True(t, q.Shipping.IsZero())
	assert.Equal(t, "71.00", q.Tax.StringFixed(2))
	assert.Equal(t, "870.98", q.Total.StringFixed(2))

	q, err = Calculate(items(50), "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, "5.00", q.Discount.StringFixed(2))
}

func TestCalculateUnknownPromo(t *testing.T) {
	_, err := Calculate(items(10), "FREE100")
	assert.ErrorIs(t, err, ErrInvalidPromo)
}
