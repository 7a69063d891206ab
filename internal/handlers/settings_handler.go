package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"storefront/internal/api"
	"storefront/internal/models"
	"storefront/internal/repository"
)

type SettingsHandler struct {
	repo  SettingsStore
	cache *ResponseCache
	log   zerolog.Logger
}

func NewSettingsHandler(repo SettingsStore, rc *ResponseCache, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{repo: repo, cache: rc, log: log}
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	cachedList(c, h.cache, h.log, api.CollectionSettings, func(ctx context.Context) (any, error) {
		return h.repo.Get(ctx)
	})
}

// PostSettings: todas las acciones son de administración y responden la configuración completa
func (h *SettingsHandler) PostSettings(c *gin.Context) {
	var req api.SettingsRequest
	if !bindBody(c, &req) {
		return
	}
	switch req.Action {
	case api.ActionAddPaymentMethod, api.ActionUpdatePaymentMethod, api.ActionDeletePaymentMethod, api.ActionBulkUpdate:
	default:
		invalidAction(c)
		return
	}
	if !requireAdmin(c) {
		return
	}

	ctx := c.Request.Context()
	var settings models.Settings
	var err error
	if req.Action == api.ActionBulkUpdate {
		if req.Settings == nil {
			req.Settings = models.Settings{}
		}
		settings, err = h.repo.Save(ctx, req.Settings)
	} else {
		settings, err = h.mutateMethods(ctx, req)
	}

	var bad *badPayload
	switch {
	case errors.As(err, &bad):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: bad.Error()})
		return
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Payment method not found"})
		return
	case err != nil:
		updateFailed(c, h.log, api.CollectionSettings, err)
		return
	}

	invalidate(h.cache, api.CollectionSettings)
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
}

// mutateMethods aplica add/update/delete sobre la lista paymentMethods y la guarda
func (h *SettingsHandler) mutateMethods(ctx context.Context, req api.SettingsRequest) (models.Settings, error) {
	settings, err := h.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	methods, err := settings.PaymentMethods()
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case api.ActionAddPaymentMethod:
		var m models.PaymentMethod
		if err := decodePayload(req.PaymentMethod, &m, "paymentMethod"); err != nil {
			return nil, err
		}
		if !m.Type.Valid() {
			return nil, &badPayload{field: "paymentMethod.type"}
		}
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.Status == "" {
			m.Status = models.PaymentActive
		}
		replaced := false
		for i := range methods {
			if methods[i].ID == m.ID {
				methods[i], replaced = m, true
			}
		}
		if !replaced {
			methods = append(methods, m)
		}

	case api.ActionUpdatePaymentMethod:
		var update models.PaymentMethodUpdate
		if err := decodePayload(req.PaymentMethod, &update, "paymentMethod"); err != nil {
			return nil, err
		}
		i := methodIndex(methods, req.PaymentMethodID)
		if i < 0 {
			return nil, repository.ErrNotFound
		}
		update.Apply(&methods[i])

	case api.ActionDeletePaymentMethod:
		i := methodIndex(methods, req.PaymentMethodID)
		if i < 0 {
			return nil, repository.ErrNotFound
		}
		methods = append(methods[:i], methods[i+1:]...)
	}

	if err := settings.SetPaymentMethods(methods); err != nil {
		return nil, err
	}
	return h.repo.Save(ctx, settings)
}

func methodIndex(methods []models.PaymentMethod, id string) int {
	for i := range methods {
		if methods[i].ID == id {
			return i
		}
	}
	return -1
}
