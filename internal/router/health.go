package router

import (
	"travelmail/internal/handler"

	"github.com/gin-gonic/gin"
)

type HealthRouter struct {
	healthHandler *handler.HealthHandler
}

func NewHealthRouter(healthHandler *handler.HealthHandler) *HealthRouter {
	return &HealthRouter{healthHandler: healthHandler}
}

// RegisterRoutes 探針與版本資訊，不經過金鑰與限流
func (hr *HealthRouter) RegisterRoutes(r *gin.Engine) {
	probes := r.Group("/health")
	probes.GET("/liveness", hr.healthHandler.Liveness)
	probes.GET("/readiness", hr.healthHandler.Readiness)
	r.GET("/version", hr.healthHandler.Version)
}
