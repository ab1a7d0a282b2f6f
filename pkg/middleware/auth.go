package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SessionChecker interface {
	IsAuthenticated() bool
}

// RequireSession rejects requests while no user is signed in.
func RequireSession(s SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.IsAuthenticated() {
			logrus.Debugf("RequireSession: no session for %s", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Please sign in to continue.",
				"kind":    "auth_expired",
			})
			return
		}
		c.Next()
	}
}
