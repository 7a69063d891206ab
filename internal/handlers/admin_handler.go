package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/internal/api"
	"storefront/internal/auth"
)

// AdminHandler emite tokens de sesión de administración
type AdminHandler struct {
	creds  auth.AdminCredentials
	issuer *auth.TokenIssuer
	log    zerolog.Logger
}

func NewAdminHandler(creds auth.AdminCredentials, issuer *auth.TokenIssuer, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{creds: creds, issuer: issuer, log: log}
}

func (h *AdminHandler) CreateSession(c *gin.Context) {
	var req api.AdminSessionRequest
	if !bindBody(c, &req) {
		return
	}
	if h.issuer == nil {
		c.JSON(http.StatusNotFound, api.AdminSessionResponse{Message: "Admin sessions are disabled"})
		return
	}
	if !h.creds.Check(req.Username, req.Password) {
		h.log.Warn().Str("username", req.Username).Str("client_ip", c.ClientIP()).Msg("admin login rejected")
		c.JSON(http.StatusUnauthorized, api.AdminSessionResponse{Message: "Invalid credentials"})
		return
	}
	token, err := h.issuer.Issue(req.Username)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, api.AdminSessionResponse{Message: "Could not create session"})
		return
	}
	c.JSON(http.StatusOK, api.AdminSessionResponse{Success: true, Token: token})
}

// Pinger comprueba la conexión con la base
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	ping Pinger
}

func NewHealthHandler(ping Pinger) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
