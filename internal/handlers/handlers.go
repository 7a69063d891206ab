// Package handlers implementa el Remote Sync Gateway: un GET y un POST con discriminador
// action por colección.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/internal/api"
	"storefront/internal/cache"
	"storefront/internal/middleware"
	"storefront/internal/models"
)

type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Replace(ctx context.Context, product *models.Product) error
	SoftDelete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, products []models.Product) ([]models.Product, error)
}

type OrderStore interface {
	List(ctx context.Context) ([]models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	ReplaceAll(ctx context.Context, orders []models.Order) ([]models.Order, error)
}

type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) (*models.User, error)
	ReplaceAll(ctx context.Context, users []models.User) ([]models.User, error)
}

type SettingsStore interface {
	Get(ctx context.Context) (models.Settings, error)
	Save(ctx context.Context, settings models.Settings) (models.Settings, error)
}

// ResponseCache guarda las respuestas GET por colección
type ResponseCache = cache.Cache[any]

func cacheKey(collection string) string {
	return "list:" + collection
}

// bindBody decodifica y valida el cuerpo JSON; un cuerpo inválido responde 400
func bindBody(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: api.MsgInvalidBody})
		return false
	}
	return true
}

func invalidAction(c *gin.Context) {
	c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: api.MsgInvalidAction})
}

// requireAdmin corta con 401 si la acción necesita sesión de administración
func requireAdmin(c *gin.Context) bool {
	if middleware.IsAdmin(c) {
		return true
	}
	c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: api.MsgUnauthorized})
	return false
}

func fetchFailed(c *gin.Context, log zerolog.Logger, collection string, err error) {
	_ = c.Error(err)
	log.Error().Err(err).Str("collection", collection).Msg("fetch failed")
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch " + collection})
}

func updateFailed(c *gin.Context, log zerolog.Logger, collection string, err error) {
	_ = c.Error(err)
	log.Error().Err(err).Str("collection", collection).Msg("update failed")
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update " + collection})
}

// cachedList responde desde el caché o carga y guarda
func cachedList(c *gin.Context, rc *ResponseCache, log zerolog.Logger, collection string, load func(ctx context.Context) (any, error)) {
	key := cacheKey(collection)
	if rc != nil {
		if cached, ok := rc.Get(key); ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}
	value, err := load(c.Request.Context())
	if err != nil {
		fetchFailed(c, log, collection, err)
		return
	}
	if rc != nil {
		rc.Set(key, value)
	}
	c.JSON(http.StatusOK, value)
}

func invalidate(rc *ResponseCache, collection string) {
	if rc != nil {
		rc.Delete(cacheKey(collection))
	}
}
