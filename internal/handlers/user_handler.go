package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/internal/api"
	"storefront/internal/repository"
)

type UserHandler struct {
	repo  UserStore
	cache *ResponseCache
	log   zerolog.Logger
	now   func() time.Time
}

func NewUserHandler(repo UserStore, rc *ResponseCache, log zerolog.Logger) *UserHandler {
	return &UserHandler{repo: repo, cache: rc, log: log, now: time.Now}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	cachedList(c, h.cache, h.log, api.CollectionUsers, func(ctx context.Context) (any, error) {
		return h.repo.List(ctx)
	})
}

func (h *UserHandler) PostUsers(c *gin.Context) {
	var req api.UserRequest
	if !bindBody(c, &req) {
		return
	}
	ctx := c.Request.Context()

	switch req.Action {
	case api.ActionRegister:
		if req.User == nil || req.User.Email == "" {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Missing or invalid user"})
			return
		}
		user := req.User
		err := h.repo.Create(ctx, user)
		if errors.Is(err, repository.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": api.MsgDuplicateEmail})
			return
		}
		if err != nil {
			updateFailed(c, h.log, api.CollectionUsers, err)
			return
		}
		invalidate(h.cache, api.CollectionUsers)
		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})

	case api.ActionLogin:
		// la credencial ya se validó en el cliente; aquí solo se registra el acceso
		if _, err := h.repo.TouchLastLogin(ctx, req.UserID, h.now()); err != nil {
			h.log.Warn().Err(err).Str("user_id", req.UserID).Msg("update last login")
		} else {
			invalidate(h.cache, api.CollectionUsers)
		}
		c.JSON(http.StatusOK, gin.H{"success": true})

	case api.ActionBulkUpdate:
		if !requireAdmin(c) {
			return
		}
		users, err := h.repo.ReplaceAll(ctx, req.Users)
		if err != nil {
			updateFailed(c, h.log, api.CollectionUsers, err)
			return
		}
		invalidate(h.cache, api.CollectionUsers)
		c.JSON(http.StatusOK, gin.H{"success": true, "users": users})

	default:
		invalidAction(c)
	}
}
