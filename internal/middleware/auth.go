package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"assistant-gateway/internal/auth"
)

const identityContextKey = "identity"

func IdentityFromContext(c *gin.Context) (auth.Identity, bool) {
	value, ok := c.Get(identityContextKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok && identity.User.ID != ""
}

// RequireAuth resolves the access token to a user and subscription on every
// request. The token may arrive as the access_token query parameter, an
// access_token JSON body field, or an Authorization bearer header.
func RequireAuth(validator auth.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			c.Abort()
			return
		}

		identity, err := validator.Validate(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(identityContextKey, identity)
		c.Next()
	}
}

// RequireSubscription gates write operations; it assumes RequireAuth ran
// first.
func RequireSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			c.Abort()
			return
		}
		if identity.Subscription == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Active subscription required. Please subscribe to continue."})
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if token := c.Query("access_token"); token != "" {
		return token
	}

	if token := tokenFromBody(c); token != "" {
		return token
	}

	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// tokenFromBody peeks at a JSON body for an access_token field, restoring
// the body so handlers can still bind it.
func tokenFromBody(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	if ct := c.ContentType(); ct != "" && ct != "application/json" {
		return ""
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.AccessToken
}
