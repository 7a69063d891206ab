package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

const (
	SortFeatured  = "featured"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortNewest    = "newest"

	recentOrdersLimit = 5
)

// Filter describe una búsqueda del catálogo; los campos vacíos no filtran
type Filter struct {
	Query    string
	Category string
	Brand    string
	MinPrice float64
	MaxPrice float64 // 0 = sin tope
	Sort     string
}

// ParsePriceRange interpreta los rangos del selector ("0-100", "1000+", "all")
func ParsePriceRange(r string) (min, max float64, err error) {
	r = strings.TrimSpace(r)
	if r == "" || r == "all" {
		return 0, 0, nil
	}
	if strings.HasSuffix(r, "+") {
		min, err = strconv.ParseFloat(strings.TrimSuffix(r, "+"), 64)
		return min, 0, err
	}
	lo, hi, ok := strings.Cut(r, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid price range %q", r)
	}
	if min, err = strconv.ParseFloat(lo, 64); err != nil {
		return 0, 0, err
	}
	if max, err = strconv.ParseFloat(hi, 64); err != nil {
		return 0, 0, err
	}
	return min, max, nil
}

func (f Filter) match(p models.Product) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		hit := false
		for _, field := range []string{p.Name, p.Brand, p.Category, p.Description} {
			if strings.Contains(strings.ToLower(field), q) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
		return false
	}
	if p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	return true
}

// SearchProducts filtra y ordena una copia del catálogo. Si f.Query está vacío
// se usa la búsqueda actual del store.
func (s *Store) SearchProducts(f Filter) []models.Product {
	s.mu.RLock()
	if f.Query == "" {
		f.Query = s.searchQuery
	}
	out := []models.Product{}
	for _, p := range s.products {
		if f.match(p) {
			out = append(out, p.Clone())
		}
	}
	s.mu.RUnlock()

	switch f.Sort {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortNewest:
		// los agregados más tarde quedan al final de la colección
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	case SortFeatured, "":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Featured && !out[j].Featured })
	}
	return out
}

// Brands lista las marcas sin repetir, en orden de aparición
func (s *Store) Brands() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	brands := []string{}
	for _, p := range s.products {
		if p.Brand != "" && !seen[p.Brand] {
			seen[p.Brand] = true
			brands = append(brands, p.Brand)
		}
	}
	return brands
}

func (s *Store) FeaturedProducts() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Product{}
	for _, p := range s.products {
		if p.Featured {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Deals son los productos con descuento, mayor descuento primero
func (s *Store) Deals() []models.Product {
	s.mu.RLock()
	out := []models.Product{}
	for _, p := range s.products {
		if p.Discount > 0 {
			out = append(out, p.Clone())
		}
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Discount > out[j].Discount })
	return out
}

// TotalSavings suma originalPrice - price de todas las ofertas
func (s *Store) TotalSavings() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Deals() {
		total = total.Add(p.Savings())
	}
	return total
}

type DashboardStats struct {
	TotalRevenue     decimal.Decimal
	TotalOrders      int
	PendingOrders    int
	TotalProducts    int
	LowStockProducts int
	RecentOrders     []models.Order
}

// DashboardStats resume pedidos y catálogo para el panel de administración.
// Solo los pedidos aprobados cuentan como ingreso.
func (s *Store) DashboardStats() DashboardStats {
	s.mu.RLock()
	stats := DashboardStats{
		TotalRevenue:  decimal.Zero,
		TotalOrders:   len(s.orders),
		TotalProducts: len(s.products),
	}
	for _, o := range s.orders {
		switch o.Status {
		case models.OrderApproved:
			stats.TotalRevenue = stats.TotalRevenue.Add(decimal.NewFromFloat(o.Total))
		case models.OrderPending:
			stats.PendingOrders++
		}
	}
	for _, p := range s.products {
		if p.StockCount < models.LowStockThreshold {
			stats.LowStockProducts++
		}
	}
	recent := cloneOrders(s.orders)
	s.mu.RUnlock()

	sort.SliceStable(recent, func(i, j int) bool { return recent[i].OrderDate.After(recent[j].OrderDate) })
	if len(recent) > recentOrdersLimit {
		recent = recent[:recentOrdersLimit]
	}
	stats.RecentOrders = recent
	return stats
}
