package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tripbook/internal/service"
)

// ContextAccountID is the gin context key under which the authenticated
// account ID is stored.
const ContextAccountID = "accountID"

// AuthMiddleware verifies the bearer credential on protected routes and
// stores the bound account ID in the request context. Revoked and
// malformed tokens are both rejected with 401.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		accountID, err := authService.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(ContextAccountID, accountID)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
