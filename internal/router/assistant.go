package router

import (
	"travelmail/internal/handler"
	"travelmail/internal/middleware"

	"github.com/gin-gonic/gin"
)

type AssistantRouter struct {
	assistantHandler     *handler.AssistantHandler
	completionHandler    *handler.CompletionHandler
	credentialMiddleware *middleware.Credential
	ratelimitMiddleware  *middleware.RateLimit
}

func NewAssistantRouter(
	assistantHandler *handler.AssistantHandler,
	completionHandler *handler.CompletionHandler,
	credentialMiddleware *middleware.Credential,
	ratelimitMiddleware *middleware.RateLimit,
) *AssistantRouter {
	return &AssistantRouter{
		assistantHandler:     assistantHandler,
		completionHandler:    completionHandler,
		credentialMiddleware: credentialMiddleware,
		ratelimitMiddleware:  ratelimitMiddleware,
	}
}

func (ar *AssistantRouter) RegisterRoutes(engine *gin.Engine) {
	router := engine.Group("/assistant/v1")
	router.GET("/tasks", ar.assistantHandler.ListTasks)

	// 需要金鑰，但不計入額度
	keyed := router.Group("")
	keyed.Use(ar.credentialMiddleware.Handler())
	{
		keyed.GET("/quota", ar.assistantHandler.Quota)
		keyed.GET("/models/resolve", ar.completionHandler.Resolve)
	}

	// 會呼叫 generateContent 的路由才限流
	limited := router.Group("")
	limited.Use(ar.credentialMiddleware.Handler(), ar.ratelimitMiddleware.Guard())
	{
		limited.POST("/tasks/:task", ar.assistantHandler.RunTask)
		limited.POST("/completions", ar.completionHandler.Complete)
	}
}
