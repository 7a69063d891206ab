// Package pricing calcula el resumen del carrito: descuento, envío, impuesto y total.
package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

var ErrInvalidPromo = errors.New("invalid promo code")

var (
	freeShippingOver = decimal.NewFromInt(100)
	flatShipping     = decimal.RequireFromString("15.99")
	taxRate          = decimal.RequireFromString("0.08875")
	hundred          = decimal.NewFromInt(100)
)

// promoCodes: código en minúsculas -> porcentaje de descuento
var promoCodes = map[string]int64{
	"welcome10": 10,
	"save20":    20,
}

type Quote struct {
	Subtotal    decimal.Decimal
	PromoCode   string
	DiscountPct int64
	Discount    decimal.Decimal
	Shipping    decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
}

// FreeShipping indica si el subtotal superó el umbral de envío gratis
func (q Quote) FreeShipping() bool {
	return q.Shipping.IsZero()
}

// RemainingForFreeShipping es lo que falta agregar para no pagar envío
func (q Quote) RemainingForFreeShipping() decimal.Decimal {
	if q.FreeShipping() {
		return decimal.Zero
	}
	return freeShippingOver.Sub(q.Subtotal)
}

// Subtotal suma precio * cantidad de cada línea
func Subtotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// PromoPercent devuelve el porcentaje del código (sin distinguir mayúsculas)
func PromoPercent(code string) (int64, error) {
	pct, ok := promoCodes[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return 0, ErrInvalidPromo
	}
	return pct, nil
}

// Calculate arma el resumen. Un código vacío no aplica descuento; uno desconocido es error.
// El envío es gratis solo si el subtotal supera 100; el impuesto se cobra sobre
// subtotal - descuento. Todo se redondea a centavos.
func Calculate(items []models.CartItem, promoCode string) (Quote, error) {
	q := Quote{Subtotal: Subtotal(items).Round(2), Discount: decimal.Zero}

	if strings.TrimSpace(promoCode) != "" {
		pct, err := PromoPercent(promoCode)
		if err != nil {
			return Quote{}, err
		}
		q.PromoCode = strings.ToUpper(strings.TrimSpace(promoCode))
		q.DiscountPct = pct
		q.Discount = q.Subtotal.Mul(decimal.NewFromInt(pct)).Div(hundred).Round(2)
	}

	q.Shipping = flatShipping
	if q.Subtotal.GreaterThan(freeShippingOver) {
		q.Shipping = decimal.Zero
	}
	taxable := q.Subtotal.Sub(q.Discount)
	q.Tax = taxable.Mul(taxRate).Round(2)
	q.Total = taxable.Add(q.Shipping).Add(q.Tax).Round(2)
	return q, nil
}
