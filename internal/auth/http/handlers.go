package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pedl/portfolio-backend/internal/auth/service"
)

// Handler exposes token verification and logout.
type Handler struct {
	svc *service.AuthService
}

func New(svc *service.AuthService) *Handler {
	return &Handler{svc: svc}
}

// Register attaches auth routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/verify", h.verify)
	rg.POST("/logout", h.logout)
}

func (h *Handler) verify(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
		return
	}

	if !h.svc.VerifyAdminAccess(c.Request.Context(), token) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"admin": true})
}

func (h *Handler) logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
		return
	}

	if err := h.svc.RevokeToken(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
