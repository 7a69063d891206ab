// Package snapshot guarda el estado durable del cliente entre sesiones.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/outbox"
)

const (
	Name    = "storefront-state"
	Version = 1
)

// ErrNotFound indica que todavía no existe un snapshot guardado
var ErrNotFound = errors.New("snapshot not found")

// Store es el almacenamiento del blob; las fallas nunca son fatales para el cliente
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// State es el subconjunto del store que sobrevive a un reinicio
type State struct {
	Name           string                   `json:"name"`
	Version        int                      `json:"version"`
	CurrentUser    *models.User             `json:"currentUser"`
	Cart           []models.CartItem        `json:"cart"`
	Users          []models.User            `json:"users"`
	Products       []models.Product         `json:"products"`
	Orders         []models.Order           `json:"orders"`
	PaymentMethods []models.PaymentMethod   `json:"paymentMethods"`
	Reviews        []models.Review          `json:"reviews"`
	Activities     []models.UserActivity    `json:"activities"`
	Pending        []outbox.Op              `json:"pending"`
	Statuses       map[string]outbox.Status `json:"statuses,omitempty"`
}

func Encode(s State) ([]byte, error) {
	s.Name = Name
	s.Version = Version
	return json.Marshal(s)
}

// Decode rechaza blobs de otra aplicación o de otra versión
func Decode(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Name != Name || s.Version != Version {
		return State{}, fmt.Errorf("snapshot %q v%d not supported", s.Name, s.Version)
	}
	return s, nil
}
