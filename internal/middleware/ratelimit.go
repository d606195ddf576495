package middleware

import (
	"context"
	"errors"
	"strconv"
	"travelmail/config"
	"travelmail/internal/core"
	"travelmail/internal/database/redis/repository"
	cErr "travelmail/internal/pkg/error"
	"travelmail/internal/pkg/response"
	"travelmail/internal/telemetry"
	"travelmail/utils/apikey"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultWindowSeconds int64 = 60

// QuotaStore 由 Redis RateLimiterRepository 實作
type QuotaStore interface {
	Enabled() bool
	Consume(ctx context.Context, fingerprint string, windowSeconds int64, limitCount int) (int, int64, error)
}

type RateLimit struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	metric *telemetry.Metric
	config *config.Configuration
	store  QuotaStore
}

func NewRateLimit(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	config *config.Configuration,
	store QuotaStore,
) *RateLimit {
	return &RateLimit{
		logger: logger,
		trace:  trace,
		metric: metric,
		config: config,
		store:  store,
	}
}

// Active 限流是否生效（設定開啟且 Redis 可用）
func (m *RateLimit) Active() bool {
	return m.config.RateLimit.Enabled && m.config.RateLimit.Limit > 0 && m.store.Enabled()
}

func (m *RateLimit) Window() int64 {
	if m.config.RateLimit.WindowSeconds > 0 {
		return m.config.RateLimit.WindowSeconds
	}
	return defaultWindowSeconds
}

func (m *RateLimit) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Active() {
			c.Next()
			return
		}
		ctx, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanRateLimitMiddleware))

		_, fingerprint, ok := apikey.FromContext(c)
		if !ok {
			err := cErr.MissingCredential("missing credential context")
			response.AbortWithError(c, err)
			end(err)
			return
		}

		limit := m.config.RateLimit.Limit
		remaining, ttlSec, err := m.store.Consume(ctx, fingerprint, m.Window(), limit)
		blocked := errors.Is(err, repository.ErrRateLimitExceeded)
		m.trace.ApplyTraceAttributes(span, core.TraceRateLimitMiddlewareMeta{
			Fingerprint: fingerprint,
			ConfigLimit: limit,
			Remaining:   remaining,
			TTLSeconds:  ttlSec,
			Blocked:     blocked,
		})

		if err != nil && !blocked {
			m.logger.Warn("[RateLimit] store unavailable",
				zap.String("fingerprint", fingerprint),
				zap.Error(err),
			)
			cause := cErr.RateLimiterUnavailable("rate limiter unavailable")
			response.AbortWithError(c, cause)
			end(err)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if ttlSec > 0 {
			c.Header("X-RateLimit-Reset", strconv.FormatInt(ttlSec, 10))
		}

		if blocked {
			if ttlSec > 0 {
				c.Header("Retry-After", strconv.FormatInt(ttlSec, 10))
			}
			m.metric.IncRateLimited()
			cause := cErr.RateLimitExceeded("rate limit exceeded")
			response.AbortWithError(c, cause)
			end(cause)
			return
		}
		end(nil)
		c.Next()
	}
}
