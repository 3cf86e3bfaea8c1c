// internal/api/routes.go
package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all HTTP endpoints onto the router.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	router.POST("/process-ticket", handler.ProcessTicket)
}
