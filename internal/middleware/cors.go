package middleware

import (
	"net/http"
	"travelmail/internal/core"
	"travelmail/internal/telemetry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Cors struct {
	trace *telemetry.Trace
}

func NewCors(trace *telemetry.Trace) *Cors {
	return &Cors{trace: trace}
}

// CorsHandler 允許瀏覽器端的桌面工具直接帶 X-Goog-Api-Key 呼叫
func (m *Cors) CorsHandler() gin.HandlerFunc {
	cfg := cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{"Content-Type", "Authorization", core.HeaderGoogAPIKey},
		ExposeHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
	}
	corsHandler := cors.New(cfg)

	type corsMeta struct {
		AllowMethods  []string `trace:"http.cors.allow_methods"`
		AllowHeaders  []string `trace:"http.cors.allow_headers"`
		ExposeHeaders []string `trace:"http.cors.expose_headers"`
	}

	return func(c *gin.Context) {
		// 維運路徑不做 tracing，但仍需套用 CORS
		if isOpsPath(c.FullPath()) {
			corsHandler(c)
			return
		}

		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanCorsMiddleware))
		m.trace.ApplyTraceAttributes(span, corsMeta{
			AllowMethods:  cfg.AllowMethods,
			AllowHeaders:  cfg.AllowHeaders,
			ExposeHeaders: cfg.ExposeHeaders,
		})
		end(nil)

		corsHandler(c)
	}
}
