package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/voyahq/tripdesk/internal/apiserver/scope"
	"github.com/voyahq/tripdesk/internal/auth/jwt"
	"github.com/voyahq/tripdesk/internal/common/cnst"
	"github.com/voyahq/tripdesk/internal/common/errorx"
)

// principalKey is the gin context key holding the authenticated principal.
const principalKey = "principal"

// Auth validates the bearer token and stores the resulting principal on the
// request context. Requests without a valid token are rejected before any
// handler runs.
func Auth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			errorx.Abort(c, errorx.ErrUnauthorized)
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			errorx.Abort(c, errorx.ErrUnauthorized)
			return
		}

		c.Set(principalKey, scope.Principal{
			UserID: claims.UserID,
			Role:   cnst.Role(claims.Role),
		})
		c.Next()
	}
}

// PrincipalFromContext returns the principal stored by Auth. The boolean is
// false on unauthenticated routes.
func PrincipalFromContext(c *gin.Context) (scope.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return scope.Principal{}, false
	}
	p, ok := value.(scope.Principal)
	return p, ok
}
