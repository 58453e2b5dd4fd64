package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const ctxUserID = "userID"

// RequireUser extracts the caller identity set by the upstream auth layer.
// Authentication itself is an external collaborator; this service only
// trusts the X-User-ID header it is handed.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.GetHeader("X-User-ID"), 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
				Success: false,
				Status:  "unauthorized",
				Message: "missing or invalid user identity",
			})
			return
		}
		c.Set(ctxUserID, id)
		c.Next()
	}
}

func userID(c *gin.Context) int64 {
	return c.MustGet(ctxUserID).(int64)
}
