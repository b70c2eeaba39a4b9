package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/photo-gallery/pkg/response"
)

// RequireAuth rejects guests with 401. It must run after ResolveActor.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).IsAuthenticated() {
			response.Error[any](c, http.StatusUnauthorized, "unauthenticated", nil)
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects guests with 401 and non-admins with 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		a := ActorFrom(c)
		switch {
		case !a.IsAuthenticated():
			response.Error[any](c, http.StatusUnauthorized, "unauthenticated", nil)
		case !a.IsAdmin():
			response.Error[any](c, http.StatusForbidden, "this action is unauthorized", nil)
		default:
			c.Next()
		}
	}
}
