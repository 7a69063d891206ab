package models

import "encoding/json"

type PaymentType string

const (
	PaymentPayPal  PaymentType = "paypal"
	PaymentCashApp PaymentType = "cashapp"
	PaymentVenmo   PaymentType = "venmo"
	PaymentZelle   PaymentType = "zelle"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentPayPal, PaymentCashApp, PaymentVenmo, PaymentZelle:
		return true
	}
	return false
}

// UsesEmail: paypal y zelle se pagan a un email, cashapp y venmo a un handle
func (t PaymentType) UsesEmail() bool {
	return t == PaymentPayPal || t == PaymentZelle
}

type PaymentStatus string

const (
	PaymentActive   PaymentStatus = "active"
	PaymentInactive PaymentStatus = "inactive"
)

type PaymentMethod struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Type        PaymentType   `json:"type"`
	Email       string        `json:"email,omitempty"`
	Handle      string        `json:"handle,omitempty"`
	QRCode      string        `json:"qrCode,omitempty"`
	Status      PaymentStatus `json:"status"`
	Description string        `json:"description,omitempty"`
}

// Contact es el dato que el cliente necesita para pagar con este método
func (m PaymentMethod) Contact() string {
	if m.Type.UsesEmail() {
		return m.Email
	}
	return m.Handle
}

type PaymentMethodUpdate struct {
	Name        *string        `json:"name,omitempty"`
	Type        *PaymentType   `json:"type,omitempty"`
	Email       *string        `json:"email,omitempty"`
	Handle      *string        `json:"handle,omitempty"`
	QRCode      *string        `json:"qrCode,omitempty"`
	Status      *PaymentStatus `json:"status,omitempty"`
	Description *string        `json:"description,omitempty"`
}

func (u PaymentMethodUpdate) Apply(m *PaymentMethod) {
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Type != nil {
		m.Type = *u.Type
	}
	if u.Email != nil {
		m.Email = *u.Email
	}
	if u.Handle != nil {
		m.Handle = *u.Handle
	}
	if u.QRCode != nil {
		m.QRCode = *u.QRCode
	}
	if u.Status != nil {
		m.Status = *u.Status
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
}

// SettingsPaymentMethods es la clave de settings que guarda los métodos de pago
const SettingsPaymentMethods = "paymentMethods"

// Settings es el mapa clave/valor de configuración de la tienda
type Settings map[string]json.RawMessage

// PaymentMethods decodifica la clave paymentMethods; ausente equivale a vacío
func (s Settings) PaymentMethods() ([]PaymentMethod, error) {
	raw, ok := s[SettingsPaymentMethods]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return []PaymentMethod{}, nil
	}
	var methods []PaymentMethod
	if err := json.Unmarshal(raw, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

// SetPaymentMethods reemplaza la clave paymentMethods
func (s Settings) SetPaymentMethods(methods []PaymentMethod) error {
	if methods == nil {
		methods = []PaymentMethod{}
	}
	raw, err := json.Marshal(methods)
	if err != nil {
		return err
	}
	s[SettingsPaymentMethods] = raw
	return nil
}
