package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/internal/api"
	"storefront/internal/models"
	"storefront/internal/repository"
)

type ProductHandler struct {
	repo  ProductStore
	cache *ResponseCache
	log   zerolog.Logger
}

func NewProductHandler(repo ProductStore, rc *ResponseCache, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{repo: repo, cache: rc, log: log}
}

// ListProducts devuelve el catálogo completo (con caché)
func (h *ProductHandler) ListProducts(c *gin.Context) {
	cachedList(c, h.cache, h.log, api.CollectionProducts, func(ctx context.Context) (any, error) {
		return h.repo.List(ctx)
	})
}

// PostProducts despacha según action; todas las acciones son de administración
func (h *ProductHandler) PostProducts(c *gin.Context) {
	var req api.ProductRequest
	if !bindBody(c, &req) {
		return
	}

	var err error
	switch req.Action {
	case api.ActionAdd:
		if !requireAdmin(c) {
			return
		}
		err = h.add(c.Request.Context(), req.Product)
	case api.ActionUpdate:
		if !requireAdmin(c) {
			return
		}
		err = h.update(c.Request.Context(), req.ProductID, req.Product)
	case api.ActionDelete:
		if !requireAdmin(c) {
			return
		}
		err = h.repo.SoftDelete(c.Request.Context(), req.ProductID)
	case api.ActionBulkUpdate:
		if !requireAdmin(c) {
			return
		}
		_, err = h.repo.ReplaceAll(c.Request.Context(), req.Products)
	default:
		invalidAction(c)
		return
	}

	var bad *badPayload
	switch {
	case errors.As(err, &bad):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: bad.Error()})
		return
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Product not found"})
		return
	case err != nil:
		updateFailed(c, h.log, api.CollectionProducts, err)
		return
	}

	// Invalidar caché del listado
	invalidate(h.cache, api.CollectionProducts)

	products, err := h.repo.List(c.Request.Context())
	if err != nil {
		updateFailed(c, h.log, api.CollectionProducts, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

func (h *ProductHandler) add(ctx context.Context, raw json.RawMessage) error {
	var product models.Product
	if err := decodePayload(raw, &product, "product"); err != nil {
		return err
	}
	err := h.repo.Create(ctx, &product)
	if errors.Is(err, repository.ErrDuplicateID) {
		return h.repo.Replace(ctx, &product)
	}
	return err
}

// update aplica la actualización parcial sobre el producto guardado
func (h *ProductHandler) update(ctx context.Context, id string, raw json.RawMessage) error {
	var update models.ProductUpdate
	if err := decodePayload(raw, &update, "product"); err != nil {
		return err
	}
	if update.IsEmpty() {
		return &badPayload{field: "product"}
	}
	if id == "" {
		return &badPayload{field: "productId"}
	}
	product, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	update.Apply(product)
	return h.repo.Replace(ctx, product)
}

// badPayload es un campo ausente o ilegible dentro de una acción válida
type badPayload struct {
	field string
}

func (e *badPayload) Error() string {
	return "Missing or invalid " + e.field
}

func decodePayload(raw json.RawMessage, dst any, field string) error {
	if len(raw) == 0 || string(raw) == "null" {
		return &badPayload{field: field}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &badPayload{field: field}
	}
	return nil
}
