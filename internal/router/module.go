package router

import "github.com/gin-gonic/gin"

// Module is a feature area (photos, account, admin, debug) that mounts its routes on the /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
