package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold marca un producto con poco inventario en el panel de administración
const LowStockThreshold = 10

// Product representa un producto en el catálogo
type Product struct {
	ID             string    `json:"id" bson:"_id"`
	Name           string    `json:"name" bson:"name"`
	Price          float64   `json:"price" bson:"price"`
	OriginalPrice  float64   `json:"originalPrice" bson:"original_price"`
	Discount       int       `json:"discount" bson:"discount"`
	Category       string    `json:"category" bson:"category"`
	Brand          string    `json:"brand" bson:"brand"`
	Image          string    `json:"image" bson:"image"`
	Images         []string  `json:"images" bson:"images"`
	Rating         float64   `json:"rating" bson:"rating"`
	Reviews        int       `json:"reviews" bson:"reviews"`
	Description    string    `json:"description" bson:"description"`
	Specifications []string  `json:"specifications" bson:"specifications"`
	StockCount     int       `json:"stockCount" bson:"stock_count"`
	InStock        bool      `json:"inStock" bson:"in_stock"`
	Featured       bool      `json:"featured" bson:"featured"`
	IsDeleted      bool      `json:"-" bson:"is_deleted"`
	CreatedAt      time.Time `json:"-" bson:"created_at"`
	UpdatedAt      time.Time `json:"-" bson:"updated_at"`
}

// ProductUpdate representa los campos actualizables de un producto
type ProductUpdate struct {
	Name           *string  `json:"name,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	OriginalPrice  *float64 `json:"originalPrice,omitempty"`
	Category       *string  `json:"category,omitempty"`
	Brand          *string  `json:"brand,omitempty"`
	Image          *string  `json:"image,omitempty"`
	Images         []string `json:"images,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	Reviews        *int     `json:"reviews,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Specifications []string `json:"specifications,omitempty"`
	StockCount     *int     `json:"stockCount,omitempty"`
	Featured       *bool    `json:"featured,omitempty"`
}

// IsEmpty indica que la actualización no trae ningún campo
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Price == nil && u.OriginalPrice == nil && u.Category == nil &&
		u.Brand == nil && u.Image == nil && u.Images == nil && u.Rating == nil &&
		u.Reviews == nil && u.Description == nil && u.Specifications == nil &&
		u.StockCount == nil && u.Featured == nil
}

// Apply aplica la actualización parcial y recalcula los campos derivados
func (u ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.OriginalPrice != nil {
		p.OriginalPrice = *u.OriginalPrice
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Brand != nil {
		p.Brand = *u.Brand
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.Images != nil {
		p.Images = append([]string(nil), u.Images...)
	}
	if u.Rating != nil {
		p.Rating = *u.Rating
	}
	if u.Reviews != nil {
		p.Reviews = *u.Reviews
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Specifications != nil {
		p.Specifications = append([]string(nil), u.Specifications...)
	}
	if u.StockCount != nil {
		p.StockCount = *u.StockCount
	}
	if u.Featured != nil {
		p.Featured = *u.Featured
	}
	p.Normalize()
}

// Normalize recalcula discount e inStock; nunca se confía en los valores recibidos
func (p *Product) Normalize() {
	p.Discount = DiscountPercent(p.Price, p.OriginalPrice)
	p.InStock = p.StockCount > 0
	if p.Image == "" && len(p.Images) > 0 {
		p.Image = p.Images[0]
	}
}

// Savings es la diferencia entre el precio original y el actual
func (p Product) Savings() decimal.Decimal {
	diff := decimal.NewFromFloat(p.OriginalPrice).Sub(decimal.NewFromFloat(p.Price))
	if diff.IsNegative() {
		return decimal.Zero
	}
	return diff
}

// DiscountPercent devuelve round((original-price)/original*100), 0 si no hay descuento
func DiscountPercent(price, original float64) int {
	if original <= 0 || price >= original {
		return 0
	}
	o := decimal.NewFromFloat(original)
	pct := o.Sub(decimal.NewFromFloat(price)).Div(o).Mul(decimal.NewFromInt(100)).Round(0)
	return int(pct.IntPart())
}

// Clone copia el producto incluyendo sus slices
func (p Product) Clone() Product {
	p.Images = append([]string(nil), p.Images...)
	p.Specifications = append([]string(nil), p.Specifications...)
	return p
}
