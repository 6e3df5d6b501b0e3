package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront-service/internal/auth"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// authRequired validates the bearer token and stores the merchant principal
// on the context. No token is 401; a bad or expired one is 403.
func authRequired(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing authorization header",
				"kind":  "unauthenticated",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid authorization header format",
				"kind":  "unauthenticated",
			})
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "invalid or expired token",
				"kind":  "invalid_token",
			})
			return
		}

		c.Set(principalKey, claims)
		c.Next()
	}
}

// principalFrom returns the authenticated merchant claims
func principalFrom(c *gin.Context) *auth.Claims {
	claims, _ := c.MustGet(principalKey).(*auth.Claims)
	return claims
}

// requireOwner checks that the authenticated merchant owns the :id resource.
// Writes a 403 and returns false on mismatch.
func requireOwner(c *gin.Context, resourceMerchantID int64) bool {
	claims := principalFrom(c)
	if claims == nil || claims.MerchantID != resourceMerchantID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "resource belongs to another merchant",
			"kind":  "forbidden",
		})
		return false
	}
	return true
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
