package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/credential-auth/internal/core/domain"
	pkgzerolog "github.com/duynhne/credential-auth/pkg/logger/zerolog"
)

const sessionContextKey = "auth.session"

const bearerPrefix = "Bearer "

// SessionMiddleware resolves the session token, if any, and attaches the
// session view to the gin context. Requests without a valid token continue
// unauthenticated.
func (h *Handler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.attachSession(c)
		c.Next()
	}
}

// RequireSession is SessionMiddleware that rejects unauthenticated requests with 401.
func (h *Handler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.attachSession(c) {
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired session")
			return
		}
		c.Next()
	}
}

// SessionFromContext returns the session view attached by SessionMiddleware.
func SessionFromContext(c *gin.Context) (*domain.SessionView, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	view, ok := v.(*domain.SessionView)
	return view, ok
}

func (h *Handler) attachSession(c *gin.Context) bool {
	token := h.tokenFromRequest(c)
	if token == "" {
		return false
	}

	ctx := c.Request.Context()
	view, err := h.auth.ResolveSession(ctx, token)
	if err != nil {
		// Expired or forged tokens are routine; fall back to unauthenticated.
		pkgzerolog.FromContext(ctx).Debug().Err(err).Msg("Session rejected")
		return false
	}

	c.Set(sessionContextKey, view)
	return true
}

// tokenFromRequest prefers the Authorization header over the session cookie.
func (h *Handler) tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, bearerPrefix); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie(h.cookie.Name); err == nil {
		return cookie
	}
	return ""
}
