package router

import "github.com/gin-gonic/gin"

// Module is a feature area (users, analytics, debug) that mounts its own
// routes on the API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
