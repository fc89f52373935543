package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/pocha/internal/domain/errors"
	"github.com/polkiloo/pocha/internal/domain/model"
)

const (
	// CallerContextKey is a gin context key for the resolved model.Caller.
	CallerContextKey = "caller"
	authCookieName   = "pocha_token"
)

// CallerResolver turns a bearer token into the current caller.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, token string) (model.Caller, error)
}

// IdentifyCaller resolves the caller once per request. Requests without a
// token continue anonymously; a bad token is rejected.
func IdentifyCaller(resolver CallerResolver, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Set(CallerContextKey, model.Caller{})
			c.Next()
			return
		}

		caller, err := resolver.ResolveCaller(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domainErrors.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domainErrors.ErrUnauthenticated.Error()})
				return
			}
			logger.Error("resolve caller failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(CallerContextKey, caller)
		c.Next()
	}
}

// RequireCaller rejects anonymous requests.
func RequireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Caller(c).Anonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domainErrors.ErrUnauthenticated.Error()})
			return
		}
		c.Next()
	}
}

// Caller returns the caller stored by IdentifyCaller.
func Caller(c *gin.Context) model.Caller {
	val, ok := c.Get(CallerContextKey)
	if !ok {
		return model.Caller{}
	}
	caller, _ := val.(model.Caller)
	return caller
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// RequireAdmin rejects callers without the admin role before the handler
// reads the payload.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := Caller(c)
		switch {
		case caller.Anonymous():
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domainErrors.ErrUnauthenticated.Error()})
		case !caller.IsAdmin():
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": domainErrors.ErrForbidden.Error()})
		default:
			c.Next()
		}
	}
}
