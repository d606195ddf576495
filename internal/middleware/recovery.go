package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"
	"travelmail/config"
	"travelmail/internal/core"
	"travelmail/internal/database/fluentd/model"
	"travelmail/internal/database/fluentd/repository"
	cErr "travelmail/internal/pkg/error"
	res "travelmail/internal/pkg/response"
	"travelmail/internal/telemetry"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Recovery struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewRecovery(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Recovery {
	return &Recovery{
		logger:            logger,
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// RequestID 取得本次請求編號；第一次呼叫時產生 uuid v7 並寫入回應標頭
func RequestID(c *gin.Context) string {
	if id := c.GetString(core.ContextRequestIDKey); id != "" {
		return id
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	requestID := id.String()
	c.Set(core.ContextRequestIDKey, requestID)
	c.Header(core.HeaderRequestID, requestID)
	return requestID
}

// ErrorHandler 把 panic 與 c.Errors 統一輸出成錯誤信封
func (middleware *Recovery) ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestTime := time.Now()
		if startTime, exists := c.Get("requestDuration"); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		}
		requestID := RequestID(c)

		// panic recover 必須在 c.Next() 之前註冊
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			duration := time.Since(requestTime)
			ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanRecoveryMiddleware))
			meta := core.TracePanicMeta{
				Path:       c.Request.URL.Path,
				Method:     c.Request.Method,
				ClientIP:   c.ClientIP(),
				UserAgent:  c.Request.UserAgent(),
				DurationMs: float64(duration.Milliseconds()),
				Message:    toSafeString(fmt.Sprint(rec)),
				Stack:      toSafeStack(debug.Stack()),
				Status:     http.StatusInternalServerError,
			}
			middleware.trace.ApplyTraceAttributes(span, meta)

			middleware.logger.Error("[PANIC] Recovered",
				zap.String("path", meta.Path),
				zap.String("method", meta.Method),
				zap.String("client_ip", meta.ClientIP),
				zap.Duration("duration", duration),
				zap.String("panic", meta.Message),
				zap.String("stacktrace", meta.Stack),
				zap.String("requestId", requestID),
			)

			appErr := cErr.InternalServer("unexpected panic")
			if !c.Writer.Written() {
				res.FailByErr(c, requestID, appErr)
			}
			middleware.logResponse(ctx, c, appErr, meta.Message, duration)
			end(appErr)
			c.Abort()
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		duration := time.Since(requestTime)
		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanRecoveryMiddleware))

		// 第一個 *cErr.Error 決定回應
		for _, e := range c.Errors {
			var appErr *cErr.Error
			if !errors.As(e.Err, &appErr) {
				continue
			}
			middleware.trace.ApplyTraceAttributes(span, core.TraceErrorMeta{
				Code:       appErr.ErrorCode(),
				Message:    appErr.Error(),
				Detail:     appErr.ErrorDesc(),
				DurationMs: float64(duration.Milliseconds()),
				Status:     appErr.HttpCode(),
			})
			middleware.logger.Warn(appErr.Error(),
				zap.Int("code", appErr.ErrorCode()),
				zap.String("data", appErr.ErrorDesc()),
				zap.Duration("duration", duration),
				zap.String("requestId", requestID),
			)
			res.FailByErr(c, requestID, appErr)
			middleware.logResponse(ctx, c, appErr, appErr.ErrorDesc(), duration)
			end(appErr)
			c.Abort()
			return
		}

		unknown := c.Errors.String()
		middleware.trace.ApplyTraceAttributes(span, core.TraceErrorMeta{
			Code:       cErr.INTERNAL_ERROR,
			Message:    "unknown-error",
			Detail:     toSafeString(unknown),
			DurationMs: float64(duration.Milliseconds()),
			Status:     http.StatusInternalServerError,
		})
		middleware.logger.Warn("[ERROR] unknown",
			zap.String("error", unknown),
			zap.Duration("duration", duration),
			zap.String("requestId", requestID),
		)
		unknownErr := cErr.New(http.StatusInternalServerError, cErr.INTERNAL_ERROR, "unknown-error", unknown)
		res.FailByErr(c, requestID, unknownErr)
		middleware.logResponse(ctx, c, unknownErr, toSafeString(unknown), duration)
		end(c.Errors.Last().Err)
		c.Abort()
	}
}

func (middleware *Recovery) logResponse(ctx context.Context, c *gin.Context, appErr *cErr.Error, detail string, duration time.Duration) {
	err := middleware.fluentdRepository.LogResponse(ctx, model.ResponseLog{
		RequestID:  RequestID(c),
		Route:      c.FullPath(),
		Code:       appErr.ErrorCode(),
		StatusCode: appErr.HttpCode(),
		ErrorSlug:  appErr.Error(),
		Error:      detail,
		DurationMs: duration.Milliseconds(),
		ResponseTS: time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC"),
	})
	if err != nil {
		middleware.logger.Debug("[Response] fluentd post failed", zap.Error(err))
	}
}

func toSafeString(s string) string {
	const max = 8000
	if utf8.ValidString(s) {
		if len(s) > max {
			return s[:max] + "…"
		}
		return s
	}
	b := []byte(s)
	if len(b) > max {
		b = b[:max]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}

func toSafeStack(b []byte) string {
	const max = 16000
	if utf8.Valid(b) {
		if len(b) > max {
			return string(b[:max]) + "…"
		}
		return string(b)
	}
	if len(b) > max {
		b = b[:max]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}
