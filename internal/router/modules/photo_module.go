package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/photo-gallery/internal/interface/http"
	"github.com/oksasatya/photo-gallery/internal/interface/middleware"
)

// PhotoModule wires the public gallery and the owner write routes under /photos.
type PhotoModule struct {
	Handler *handlers.PhotoHandler
	Redis   *redis.Client
}

func NewPhotoModule(h *handlers.PhotoHandler, rdb *redis.Client) *PhotoModule {
	return &PhotoModule{Handler: h, Redis: rdb}
}

func (m *PhotoModule) Register(rg *gin.RouterGroup) {
	downloadLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	photos := rg.Group("/photos")
	photos.GET("", m.Handler.List)
	photos.GET("/search", m.Handler.Search)
	photos.GET("/:id", m.Handler.Show)
	photos.GET("/:id/download", downloadLimiter, m.Handler.Download)
	photos.GET("/:id/watermarked", m.Handler.Watermarked)

	owner := photos.Group("")
	owner.Use(middleware.RequireAuth())
	{
		owner.POST("", middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByUserID(), nil), m.Handler.Upload)
		owner.PUT("/:id", m.Handler.Update)
		owner.DELETE("/:id", m.Handler.Delete)
	}
}
