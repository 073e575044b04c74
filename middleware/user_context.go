package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the authenticated account id, set by the upstream
// gateway after it verifies the session. Token verification itself is not
// this service's concern.
const UserIDHeader = "X-User-ID"

const userIDKey = "auth.userID"

// UserContext rejects requests without a usable account id and stashes the
// id for handlers.
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(UserIDHeader))
		id, err := strconv.ParseUint(raw, 10, 32)
		if raw == "" || err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing or invalid user identity",
			})
			return
		}
		c.Set(userIDKey, uint(id))
		c.Next()
	}
}

// UserID returns the account id stored by UserContext, or zero when the
// middleware did not run.
func UserID(c *gin.Context) uint {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}
