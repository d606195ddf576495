package middleware

import (
	"strings"
	"travelmail/config"
	"travelmail/internal/core"
	cErr "travelmail/internal/pkg/error"
	"travelmail/internal/pkg/response"
	"travelmail/internal/telemetry"
	"travelmail/utils/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Admin 驗證 Authorization: Bearer <jwt>，僅允許 admin 角色
type Admin struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	config *config.Configuration
}

func NewAdmin(logger *zap.Logger, trace *telemetry.Trace, config *config.Configuration) *Admin {
	return &Admin{logger: logger, trace: trace, config: config}
}

func (m *Admin) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanAdminMiddleware))
		meta := core.TraceAdminMiddlewareMeta{}

		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			meta.Status = "missing_token"
			m.trace.ApplyTraceAttributes(span, meta)
			err := cErr.Unauthorized("missing bearer token")
			response.AbortWithError(c, err)
			end(err)
			return
		}

		claims, err := token.Parse(m.config.App.SecretKey, raw)
		if err != nil {
			meta.Status = "invalid_token"
			m.trace.ApplyTraceAttributes(span, meta)
			cause := cErr.InvalidSession("invalid or expired token")
			response.AbortWithError(c, cause)
			end(err)
			return
		}
		meta.Username = claims.Username
		meta.Role = string(claims.Role)

		if claims.Role != core.RoleAdmin {
			meta.Status = "forbidden_role"
			m.trace.ApplyTraceAttributes(span, meta)
			cause := cErr.Forbidden("admin role required")
			response.AbortWithError(c, cause)
			end(cause)
			return
		}

		meta.Status = "success"
		m.trace.ApplyTraceAttributes(span, meta)
		m.logger.Info("[Admin Authenticated]", zap.String("username", claims.Username))
		end(nil)

		c.Set(core.ContextClaimsKey, claims)
		c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
