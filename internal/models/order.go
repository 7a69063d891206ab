package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderApproved  OrderStatus = "approved"
	OrderRejected  OrderStatus = "rejected"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
)

// Valid no impone transiciones, solo pertenencia al conjunto
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderApproved, OrderRejected, OrderShipped, OrderDelivered:
		return true
	}
	return false
}

// CartItem es una línea del carrito; el precio se captura al agregar
type CartItem struct {
	ID       string  `json:"id" bson:"product_id"`
	Name     string  `json:"name" bson:"name"`
	Price    float64 `json:"price" bson:"price"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Image    string  `json:"image" bson:"image"`
}

// LineTotal es price * quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Customer es la copia de contacto y envío guardada con el pedido
type Customer struct {
	FirstName string `json:"firstName" bson:"first_name"`
	LastName  string `json:"lastName" bson:"last_name"`
	Email     string `json:"email" bson:"email"`
	Phone     string `json:"phone" bson:"phone"`
	Address   string `json:"address" bson:"address"`
	City      string `json:"city" bson:"city"`
	State     string `json:"state" bson:"state"`
	ZipCode   string `json:"zipCode" bson:"zip_code"`
}

type Order struct {
	ID             string      `json:"id" bson:"_id"`
	Customer       Customer    `json:"customer" bson:"customer"`
	Items          []CartItem  `json:"items" bson:"items"`
	Total          float64     `json:"total" bson:"total"`
	Status         OrderStatus `json:"status" bson:"status"`
	PaymentMethod  string      `json:"paymentMethod" bson:"payment_method"`
	PaymentProof   string      `json:"paymentProof,omitempty" bson:"payment_proof,omitempty"`
	TrackingNumber string      `json:"trackingNumber,omitempty" bson:"tracking_number,omitempty"`
	OrderDate      time.Time   `json:"orderDate" bson:"order_date"`
	CreatedAt      time.Time   `json:"-" bson:"created_at"`
}

// NewOrder es lo que entrega el checkout; id, fecha y estado los pone el store
type NewOrder struct {
	Customer      Customer
	Items         []CartItem
	Total         float64
	PaymentMethod string
	PaymentProof  string
}

// Clone copia el pedido y sus líneas
func (o Order) Clone() Order {
	o.Items = append([]CartItem(nil), o.Items...)
	return o
}
