package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/internal/api"
	"storefront/internal/models"
	"storefront/internal/repository"
)

type OrderHandler struct {
	repo  OrderStore
	cache *ResponseCache
	log   zerolog.Logger
}

func NewOrderHandler(repo OrderStore, rc *ResponseCache, log zerolog.Logger) *OrderHandler {
	return &OrderHandler{repo: repo, cache: rc, log: log}
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	cachedList(c, h.cache, h.log, api.CollectionOrders, func(ctx context.Context) (any, error) {
		return h.repo.List(ctx)
	})
}

// PostOrders: add lo usa cualquier cliente; update_status y bulk_update son de administración
func (h *OrderHandler) PostOrders(c *gin.Context) {
	var req api.OrderRequest
	if !bindBody(c, &req) {
		return
	}
	ctx := c.Request.Context()

	switch req.Action {
	case api.ActionAdd:
		if req.Order == nil || req.Order.ID == "" {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Missing or invalid order"})
			return
		}
		order := req.Order
		// el estado inicial no lo elige el cliente; cambiarlo es update_status
		order.Status = models.OrderPending
		// un reenvío del mismo pedido ya está guardado
		if err := h.repo.Create(ctx, order); err != nil && !errors.Is(err, repository.ErrDuplicateID) {
			updateFailed(c, h.log, api.CollectionOrders, err)
			return
		}
		invalidate(h.cache, api.CollectionOrders)
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})

	case api.ActionUpdateStatus:
		if !requireAdmin(c) {
			return
		}
		if !req.Status.Valid() {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid status"})
			return
		}
		order, err := h.repo.UpdateStatus(ctx, req.OrderID, req.Status)
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Order not found"})
			return
		}
		if err != nil {
			updateFailed(c, h.log, api.CollectionOrders, err)
			return
		}
		invalidate(h.cache, api.CollectionOrders)
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})

	case api.ActionBulkUpdate:
		if !requireAdmin(c) {
			return
		}
		orders, err := h.repo.ReplaceAll(ctx, req.Orders)
		if err != nil {
			updateFailed(c, h.log, api.CollectionOrders, err)
			return
		}
		invalidate(h.cache, api.CollectionOrders)
		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})

	default:
		invalidAction(c)
	}
}
