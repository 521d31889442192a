package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assistant-gateway/internal/middleware"
)

type ProtectedHandler struct{}

// Get echoes the resolved user back to the caller.
func (h *ProtectedHandler) Get(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	c.JSON(http.StatusOK, identity.User)
}
