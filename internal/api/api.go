// Package api define el contrato JSON del gateway, compartido por los handlers y el cliente.
package api

import (
	"encoding/json"

	"storefront/internal/models"
)

// Colecciones expuestas en /api/<collection>
const (
	CollectionProducts = "products"
	CollectionOrders   = "orders"
	CollectionUsers    = "users"
	CollectionSettings = "settings"
)

// Valores del discriminador action
const (
	ActionAdd                 = "add"
	ActionUpdate              = "update"
	ActionDelete              = "delete"
	ActionBulkUpdate          = "bulk_update"
	ActionUpdateStatus        = "update_status"
	ActionRegister            = "register"
	ActionLogin               = "login"
	ActionAddPaymentMethod    = "add_payment_method"
	ActionUpdatePaymentMethod = "update_payment_method"
	ActionDeletePaymentMethod = "delete_payment_method"
)

const (
	MsgInvalidAction  = "Invalid action"
	MsgInvalidBody    = "Invalid request body"
	MsgDuplicateEmail = "An account with this email already exists"
	MsgUnauthorized   = "Admin authorization required"
)

type ProductRequest struct {
	Action    string           `json:"action" binding:"required"`
	Product   json.RawMessage  `json:"product,omitempty"`
	ProductID string           `json:"productId,omitempty"`
	Products  []models.Product `json:"products,omitempty"`
}

type OrderRequest struct {
	Action  string             `json:"action" binding:"required"`
	Order   *models.Order      `json:"order,omitempty" binding:"required_if=Action add"`
	OrderID string             `json:"orderId,omitempty"`
	Status  models.OrderStatus `json:"status,omitempty"`
	Orders  []models.Order     `json:"orders,omitempty"`
}

type UserRequest struct {
	Action string        `json:"action" binding:"required"`
	User   *models.User  `json:"user,omitempty" binding:"required_if=Action register"`
	Email  string        `json:"email,omitempty"`
	UserID string        `json:"userId,omitempty"`
	Users  []models.User `json:"users,omitempty"`
}

type SettingsRequest struct {
	Action          string          `json:"action" binding:"required"`
	PaymentMethod   json.RawMessage `json:"paymentMethod,omitempty"`
	PaymentMethodID string          `json:"paymentMethodId,omitempty"`
	Settings        models.Settings `json:"settings,omitempty"`
}

type AdminSessionRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminSessionResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Raw serializa v para los campos json.RawMessage de las peticiones
func Raw(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
