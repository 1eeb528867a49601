package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// userIDHeader carries the numeric identity of the API caller. It plays
	// the role a Telegram user id plays for the bot.
	userIDHeader = "X-User-ID"
	// userIDKey stores the identity as a string for logging and rate keys.
	userIDKey = "userID"
	// userNumKey stores the parsed int64 identity for handlers.
	userNumKey = "userNum"
)

// UserID reads X-User-ID and, when it is a valid int64, stores it in the
// Gin context. Requests without a valid header pass through untouched;
// handlers that need an identity reject them.
func UserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(userIDHeader))
		if raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				c.Set(userIDKey, raw)
				c.Set(userNumKey, id)
			}
		}
		c.Next()
	}
}

// UserFrom returns the identity stored by UserID.
func UserFrom(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userNumKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
