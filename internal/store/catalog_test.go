package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/api"
	"storefront/internal/models"
)

func catalogStore(t *testing.T) (*Store, *fakeQueue) {
	t.Helper()
	s, q := newTestStore(t, nil)
	for _, p := range []models.Product{
		{Name: "PlayStation 5", Brand: "Sony", Category: "consoles", Price: 450, OriginalPrice: 500, StockCount: 3, Rating: 4.8, Featured: true},
		{Name: "Xbox Series X", Brand: "Microsoft", Category: "consoles", Price: 500, OriginalPrice: 500, StockCount: 20, Rating: 4.6},
		{Name: "DualSense Controller", Brand: "Sony", Category: "accessories", Price: 60, OriginalPrice: 75, StockCount: 50, Rating: 4.9, Featured: true},
		{Name: "Gaming Headset", Brand: "Razer", Category: "accessories", Price: 120, OriginalPrice: 200, StockCount: 0, Rating: 4.2},
	} {
		s.AddProduct(p)
	}
	return s, q
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestSearchProducts(t *testing.T) {
	s, _ := catalogStore(t)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"query matches brand", Filter{Query: "SONY"}, []string{"PlayStation 5", "DualSense Controller"}},
		{"category price low", Filter{Category: "accessories", Sort: SortPriceLow}, []string{"DualSense Controller", "Gaming Headset"}},
		{"price range price high", Filter{MinPrice: 100, MaxPrice: 500, Sort: SortPriceHigh}, []string{"Xbox Series X", "PlayStation 5", "Gaming Headset"}},
		{"newest", Filter{Sort: SortNewest}, []string{"Gaming Headset", "DualSense Controller", "Xbox Series X", "PlayStation 5"}},
		{"rating", Filter{Sort: SortRating}, []string{"DualSense Controller", "PlayStation 5", "Xbox Series X", "Gaming Headset"}},
		{"featured first", Filter{}, []string{"PlayStation 5", "DualSense Controller", "Xbox Series X", "Gaming Headset"}},
		{"brand", Filter{Brand: "razer"}, []string{"Gaming Headset"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(s.SearchProducts(tt.filter)))
		})
	}
}

func TestSearchUsesStoredQuery(t *testing.T) {
	s, _ := catalogStore(t)
	s.SetSearchQuery("headset")
	assert.Equal(t, "headset", s.SearchQuery())
	assert.Equal(t, []string{"Gaming Headset"}, names(s.SearchProducts(Filter{})))
}

func TestParsePriceRange(t *testing.T) {
	lo, hi, err := ParsePriceRange("0-100")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 100}, []float64{lo, hi})

	lo, hi, err = ParsePriceRange("1000+")
	require.NoError(t, err)
	assert.Equal(t, []float64{1000, 0}, []float64{lo, hi})

	lo, hi, err = ParsePriceRange("all")
	require.NoError(t, err)
	assert.Zero(t, lo)
	assert.Zero(t, hi)

	_, _, err = ParsePriceRange("cheap")
	assert.Error(t, err)
}

func TestBrandsFeaturedAndDeals(t *testing.T) {
	s, _ := catalogStore(t)

	assert.Equal(t, []string{"Sony", "Microsoft", "Razer"}, s.Brands())
	assert.Equal(t, []string{"PlayStation 5", "DualSense Controller"}, names(s.FeaturedProducts()))

	deals := s.Deals()
	assert.Equal(t, []string{"Gaming Headset", "DualSense Controller", "PlayStation 5"}, names(deals))
	assert.Equal(t, []int{40, 20, 10}, []int{deals[0].Discount, deals[1].Discount, deals[2].Discount})
	assert.Equal(t, "145.00", s.TotalSavings().StringFixed(2))
}

func TestDashboardStats(t *testing.T) {
	s, _ := catalogStore(t)

	first := s.AddOrder(models.NewOrder{Total: 100.5, PaymentMethod: "PayPal"})
	second := s.AddOrder(models.NewOrder{Total: 50, PaymentMethod: "Venmo"})
	require.NoError(t, s.UpdateOrderStatus(first, models.OrderApproved))

	stats := s.DashboardStats()
	assert.Equal(t, "100.50", stats.TotalRevenue.StringFixed(2))
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 1, stats.PendingOrders)
	assert.Equal(t, 4, stats.TotalProducts)
	assert.Equal(t, 2, stats.LowStockProducts)
	require.Len(t, stats.RecentOrders, 2)
	assert.Equal(t, second, stats.RecentOrders[0].ID)
}

func TestReviews(t *testing.T) {
	s, _ := catalogStore(t)
	id := s.Products()[0].ID

	_, err := s.AddReview(models.NewReview{ProductID: id, User: "Ana", Rating: 0})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = s.AddReview(models.NewReview{ProductID: id, User: "Ana", Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = s.AddReview(models.NewReview{ProductID: id, User: "Ana", Rating: 5, Comment: "great"})
	require.NoError(t, err)
	latest, err := s.AddReview(models.NewReview{ProductID: id, User: "Luis", Rating: 4, Comment: "good"})
	require.NoError(t, err)

	reviews := s.Reviews(id)
	require.Len(t, reviews, 2)
	assert.Equal(t, latest.ID, reviews[0].ID)
	for _, r := range reviews {
		assert.True(t, r.Verified, r.ID)
	}
	assert.Equal(t, 4.5, s.AverageRating(id))
	assert.Zero(t, s.AverageRating("missing"))
}

func TestPaymentMethodCRUD(t *testing.T) {
	s, q := newTestStore(t, nil)

	_, err := s.AddPaymentMethod(models.PaymentMethod{Name: "Coin", Type: "bitcoin"})
	assert.Error(t, err)

	m, err := s.AddPaymentMethod(models.PaymentMethod{Name: "Venmo", Type: models.PaymentVenmo, Handle: "@shop"})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, models.PaymentActive, m.Status)

	inactive := models.PaymentInactive
	require.NoError(t, s.UpdatePaymentMethod(m.ID, models.PaymentMethodUpdate{Status: &inactive}))
	assert.Empty(t, s.ActivePaymentMethods())
	got, err := s.PaymentMethod(m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentInactive, got.Status)

	require.NoError(t, s.DeletePaymentMethod(m.ID))
	assert.ErrorIs(t, s.DeletePaymentMethod(m.ID), ErrNotFound)
	assert.ErrorIs(t, s.UpdatePaymentMethod(m.ID, models.PaymentMethodUpdate{}), ErrNotFound)
	assert.Empty(t, s.PaymentMethods())

	ops := q.Ops()
	require.Len(t, ops, 3)
	for _, op := range ops {
		assert.Equal(t, api.CollectionSettings, op.collection)
		assert.Equal(t, m.ID, op.entityID)
	}
	assert.Equal(t, api.ActionDeletePaymentMethod, ops[2].payload.(api.SettingsRequest).Action)
}
