package router

import (
	"net/http"
	docs "travelmail/cmd/docs"
	"travelmail/config"
	"travelmail/internal/middleware"
	cErr "travelmail/internal/pkg/error"
	"travelmail/internal/pkg/response"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var ProviderSet = wire.NewSet(
	NewRouter,
	NewAdminRouter,
	NewAssistantRouter,
	NewHealthRouter,
)

// 透過依賴注入組出 gin.Engine
func NewRouter(
	config *config.Configuration,
	traceEntry *middleware.TraceEntry,
	recovery *middleware.Recovery,
	cors *middleware.Cors,
	logger *middleware.Logger,
	responseMiddleware *middleware.Response,
	adminRouter *AdminRouter,
	assistantRouter *AssistantRouter,
	healthRouter *HealthRouter,
) *gin.Engine {

	gin.SetMode(ginMode(config.App.Env))
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		traceEntry.Handler(),
		logger.LoggerHandler(),
		cors.CorsHandler(),
		recovery.ErrorHandler(),
		responseMiddleware.FormatHandler(),
	)
	// 全域 middleware 也會套用在 NoRoute，錯誤交給 Recovery 輸出信封
	router.NoRoute(func(c *gin.Context) {
		response.AbortWithError(c, cErr.NotFound("route not found: "+c.Request.URL.Path))
	})
	router.NoMethod(func(c *gin.Context) {
		response.AbortWithError(c, cErr.New(http.StatusMethodNotAllowed, cErr.BAD_REQUEST_PARAMS, "method-not-allowed", c.Request.Method+" is not allowed here"))
	})

	router.GET("/health-check", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Response{
			Code:        0,
			Data:        "ok",
			Message:     "success",
			Description: "service is alive",
		})
		c.Abort()
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if config.App.SwaggerEnabled {
		router.GET("/swagger/*any", func(c *gin.Context) {
			docs.SwaggerInfo.Host = c.Request.Host
			if config.App.PublicBasePath != "" {
				docs.SwaggerInfo.BasePath = config.App.PublicBasePath
			}
			if config.App.Env == "production" {
				docs.SwaggerInfo.Schemes = []string{"https"}
			}
		}, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	healthRouter.RegisterRoutes(router)
	assistantRouter.RegisterRoutes(router)
	adminRouter.RegisterRoutes(router)
	if config.App.Env != "production" {
		pprof.Register(router)
	}
	return router
}

func ginMode(env string) string {
	switch env {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
