package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/photo-gallery/internal/interface/http"
	"github.com/oksasatya/photo-gallery/internal/interface/middleware"
)

// AdminModule wires the moderation back office under /admin. Every route needs an administrator.
type AdminModule struct {
	Handler *handlers.AdminHandler
}

func NewAdminModule(h *handlers.AdminHandler) *AdminModule {
	return &AdminModule{Handler: h}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/stats", m.Handler.Stats)

	admin.GET("/users", m.Handler.ListUsers)
	admin.POST("/users", m.Handler.CreateUser)
	admin.GET("/users/:id", m.Handler.ShowUser)
	admin.PUT("/users/:id", m.Handler.UpdateUser)
	admin.DELETE("/users/:id", m.Handler.DeleteUser)

	admin.GET("/photos", m.Handler.ListPhotos)
	admin.GET("/photos/:id", m.Handler.ShowPhoto)
	admin.PUT("/photos/:id", m.Handler.UpdatePhoto)
	admin.DELETE("/photos/:id", m.Handler.DeletePhoto)
}
