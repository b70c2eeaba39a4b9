package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/photo-gallery/internal/application"
	"github.com/oksasatya/photo-gallery/internal/domain/entity"
	"github.com/oksasatya/photo-gallery/pkg/helpers"
)

const (
	CtxActorKey  = "actor"
	CtxUserIDKey = "userID"
)

// ResolveActor turns the access token (cookie, or Bearer header) into an entity.Actor.
// Requests without a usable token continue as guests; RequireAuth decides whether that is fatal.
func ResolveActor(accounts *application.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := entity.Guest()
		if token := accessToken(c); token != "" {
			if claims, err := accounts.JWT.ParseAccessToken(token); err == nil {
				ctx := c.Request.Context()
				if accounts.SessionValid(ctx, claims.UserID, claims.SessionID) {
					if u, err := accounts.Repo.GetByID(ctx, claims.UserID); err == nil && u != nil {
						actor = entity.ActorFor(u)
					}
				}
			}
		}
		c.Set(CtxActorKey, actor)
		if actor.UserID != "" {
			c.Set(CtxUserIDKey, actor.UserID)
		}
		c.Next()
	}
}

func accessToken(c *gin.Context) string {
	if v, err := c.Cookie(helpers.AccessCookie); err == nil && v != "" {
		return v
	}
	if h := c.GetHeader("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// ActorFrom returns the actor set by ResolveActor, or a guest.
func ActorFrom(c *gin.Context) entity.Actor {
	if v, ok := c.Get(CtxActorKey); ok {
		if a, ok := v.(entity.Actor); ok {
			return a
		}
	}
	return entity.Guest()
}
