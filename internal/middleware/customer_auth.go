package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/session"
)

// CustomerAuth validates the bearer token, resumes the session and injects
// the customer id into the context. Unless allowPendingReset is set, a
// session carrying the forced-reset marker is refused so a flagged customer
// can only reach the change-password flow.
func CustomerAuth(auth session.Authenticator, allowPendingReset bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			log.Println("[AUTH] [ERROR] missing token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			log.Println("[AUTH] [ERROR] invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		sess, err := auth.Resume(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				log.Println("[AUTH] [ERROR] session resume rejected")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			log.Println("[AUTH] [ERROR] session resume failed:", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		if !allowPendingReset {
			if _, flagged := sess.Get(session.ResetMarkerKey); flagged {
				log.Println("[AUTH] [ERROR] password reset pending for customer", sess.CustomerID())
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "password reset required"})
				return
			}
		}

		c.Set("customerId", sess.CustomerID())
		c.Set("session", sess)
		c.Next()
	}
}
