package middleware

import (
	"travelmail/config"
	"travelmail/internal/core"
	cErr "travelmail/internal/pkg/error"
	"travelmail/internal/pkg/response"
	"travelmail/internal/telemetry"
	"travelmail/utils/apikey"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Credential 取得呼叫端自帶的 Google API Key，本服務不保存任何金鑰
type Credential struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	config *config.Configuration
}

func NewCredential(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
) *Credential {
	return &Credential{
		logger: logger,
		trace:  trace,
		config: config,
	}
}

func (m *Credential) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanCredentialMiddleware))
		credential, where := apikey.Extract(c)
		meta := core.TraceCredentialMiddlewareMeta{
			Where:    where,
			ClientIP: c.ClientIP(),
		}

		if credential == "" {
			meta.Status = "missing_credential"
			m.trace.ApplyTraceAttributes(span, meta)
			err := cErr.MissingCredential("provide a Google API key via X-Goog-Api-Key header or key query")
			response.AbortWithError(c, err)
			end(err)
			return
		}

		fingerprint := apikey.Fingerprint(credential, m.config.App.SecretKey)
		meta.Fingerprint = fingerprint
		meta.Status = "success"
		m.trace.ApplyTraceAttributes(span, meta)
		m.logger.Debug("[Credential] accepted",
			zap.String("where", where),
			zap.String("credential", apikey.Mask(credential)),
			zap.String("fingerprint", fingerprint),
		)
		end(nil)

		// 下游（ratelimit、handler）透過 apikey.FromContext 讀取
		c.Set(core.ContextCredentialKey, credential)
		c.Set(core.ContextFingerprintKey, fingerprint)
		c.Next()
	}
}
