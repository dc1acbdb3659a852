package middleware

import (
	"context"
	"net/http"

	"github.com/hieptuanle/baby-tracker/internal/service"
	"github.com/hieptuanle/baby-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const currentUserKey = "currentUser"

// IdentityResolver maps a session token to the user that owns it.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*service.Identity, error)
}

// Authenticate resolves the session cookie and, when it is valid, stores
// the identity in the context. Requests without a valid session continue
// anonymously; only a store failure aborts the request.
func Authenticate(resolver IdentityResolver, cookieName string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.SessionToken(c.Request, cookieName)
		if token == "" {
			c.Next()
			return
		}

		identity, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("resolve session failed")
			util.Error(c, http.StatusInternalServerError, "Internal server error")
			c.Abort()
			return
		}
		if identity != nil {
			c.Set(currentUserKey, identity)
		}
		c.Next()
	}
}

// CurrentUser returns the identity resolved by Authenticate, or nil.
func CurrentUser(c *gin.Context) *service.Identity {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*service.Identity)
	return identity
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			util.Error(c, http.StatusUnauthorized, service.ErrNotAuthenticated.Msg)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAuthRedirect sends anonymous requests to location instead.
func RequireAuthRedirect(location string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, location)
			c.Abort()
			return
		}
		c.Next()
	}
}
