package router

import (
	"travelmail/internal/handler"
	"travelmail/internal/middleware"

	"github.com/gin-gonic/gin"
)

type AdminRouter struct {
	adminHandler    *handler.AdminHandler
	adminMiddleware *middleware.Admin
}

func NewAdminRouter(
	adminHandler *handler.AdminHandler,
	adminMiddleware *middleware.Admin,
) *AdminRouter {
	return &AdminRouter{
		adminHandler:    adminHandler,
		adminMiddleware: adminMiddleware,
	}
}

func (ar *AdminRouter) RegisterRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(ar.adminMiddleware.Handler())
	{
		admin.GET("/history", ar.adminHandler.ListHistory)
		admin.GET("/history/:recordID", ar.adminHandler.GetHistory)
		admin.DELETE("/ratelimit/:fingerprint", ar.adminHandler.ResetRateLimit)
	}
}
