package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"shwedadar-service/internal/auth"
	"shwedadar-service/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sessionMiddleware resolves the session cookie into a request principal.
// Requests without a valid session pass through unauthenticated; the
// permission middleware decides whether that matters for the route.
func (h *Handler) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(h.sessionCfg.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		session, err := h.sessions.GetSession(c.Request.Context(), token, h.sessionTTL())
		if err != nil {
			util.GetLogger().Error("Session lookup failed", zap.Error(err))
			c.Next()
			return
		}
		if session == nil {
			c.Next()
			return
		}

		principal := auth.Principal{
			UserID:   session.UserID,
			Username: session.Username,
			RoleName: session.RoleName,
		}
		ctx := auth.ContextWithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requirePermission gates a route on an exact permission string. The
// role's permission list is re-read on every request, so role edits and
// deletions apply to the very next action.
func (h *Handler) requirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.PrincipalFromContext(c.Request.Context())
		if !ok {
			util.AuthorizationDeniedTotal.WithLabelValues("unauthenticated").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		err := h.gate.Authorize(c.Request.Context(), principal.RoleName, permission)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, auth.ErrUnauthenticated):
			util.AuthorizationDeniedTotal.WithLabelValues("unauthenticated").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
		case errors.Is(err, auth.ErrRoleNotFound):
			util.AuthorizationDeniedTotal.WithLabelValues("role_not_found").Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "role not found",
				"role":  principal.RoleName,
			})
		case errors.Is(err, auth.ErrForbidden):
			util.AuthorizationDeniedTotal.WithLabelValues("forbidden").Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "permission denied",
				"permission": permission,
			})
		default:
			util.GetLogger().Error("Permission check failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "authorization check failed",
			})
		}
	}
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
