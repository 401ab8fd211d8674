package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clipstream/accounts/internal/common"
	"github.com/clipstream/accounts/internal/server/models"
)

// userContextKey is where the auth gate stores the resolved user.
const userContextKey = "currentUser"

// requireAuth resolves the caller's access token and attaches the matching
// user to the request context. The token is read from the accessToken cookie
// first, then from the Authorization Bearer header. Requests without a valid
// token are rejected with 401.
func requireAuth(service UserLifecycle) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookieValue(c, accessTokenCookie)
		if token == "" {
			token = bearerToken(c)
		}

		user, err := service.CurrentUser(c.Request.Context(), token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// authenticatedUser returns the user attached by requireAuth, or nil when
// the gate has not run.
func authenticatedUser(c *gin.Context) *models.User {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
