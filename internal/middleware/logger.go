package middleware

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
	"travelmail/config"
	"travelmail/internal/core"
	"travelmail/internal/database/fluentd/model"
	"travelmail/internal/database/fluentd/repository"
	"travelmail/internal/telemetry"
	"travelmail/utils/apikey"
	"travelmail/utils/text"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const bodyPreviewRunes = 2000

// 寫入 log 前一律遮蔽的標頭
var sensitiveHeaders = map[string]struct{}{
	strings.ToLower(core.HeaderGoogAPIKey): {},
	"authorization":                        {},
	"cookie":                               {},
}

type Logger struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewLogger(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Logger {
	return &Logger{
		logger:            logger,
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// LoggerHandler 記錄請求摘要；金鑰不論在標頭或 query 都先遮蔽
func (m *Logger) LoggerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if isOpsPath(endpoint) {
			c.Next()
			return
		}

		ctx, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanLoggerMiddleware))

		requestTime := time.Now().UTC()
		if startTime, exists := c.Get("requestDuration"); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		}

		mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
		var bodyRaw string
		if c.Request.Body != nil && c.Request.ContentLength != 0 {
			// 讀完後回填，下游仍可綁定
			data, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(data))
			bodyRaw = previewBody(mediaType, data)
		}

		redactedURL := apikey.RedactURL(c.Request.URL)
		query := ""
		if i := strings.IndexByte(redactedURL, '?'); i >= 0 {
			query = redactedURL[i+1:]
		}
		headers := redactHeaders(c.Request.Header)

		paramsMap := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			paramsMap[p.Key] = p.Value
		}

		m.trace.ApplyTraceAttributes(span, core.LoggerRequestMeta{
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			FullPath:   endpoint,
			Query:      query,
			Body:       bodyRaw,
			Scheme:     c.Request.URL.Scheme,
			Host:       c.Request.Host,
			UserAgent:  c.Request.UserAgent(),
			ContentLen: c.Request.ContentLength,
			Proto:      c.Request.Proto,
			ClientIP:   c.ClientIP(),
			Headers:    headers,
			Params:     paramsMap,
		})

		traceID := span.SpanContext().TraceID()
		spanID := span.SpanContext().SpanID()
		logFields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("headers", headers),
		}
		if query != "" {
			logFields = append(logFields, zap.String("query", query))
		}
		if len(paramsMap) > 0 {
			logFields = append(logFields, zap.Any("params", paramsMap))
		}
		if bodyRaw != "" {
			logFields = append(logFields, zap.String("body", bodyRaw))
		}
		logFields = append(logFields,
			zap.String("requestId", RequestID(c)),
			zap.String("spanId", fmt.Sprintf("%x", spanID[:])),
			zap.String("traceId", fmt.Sprintf("%x", traceID[:])),
		)
		m.logger.Info("[Request] logging middleware message", logFields...)

		fingerprint := ""
		if credential, _ := apikey.Extract(c); credential != "" {
			fingerprint = apikey.Fingerprint(credential, m.config.App.SecretKey)
		}
		if err := m.fluentdRepository.LogRequest(ctx, model.RequestLog{
			RequestID:             RequestID(c),
			TraceID:               fmt.Sprintf("%x", traceID[:]),
			Method:                c.Request.Method,
			Path:                  c.Request.URL.Path,
			Route:                 endpoint,
			RequestTS:             requestTime.Format("2006-01-02 15:04:05.999999 UTC"),
			Body:                  bodyRaw,
			CredentialFingerprint: fingerprint,
			IPHash:                apikey.Fingerprint(c.ClientIP(), m.config.App.SecretKey),
			UserAgent:             c.Request.UserAgent(),
		}); err != nil {
			m.logger.Debug("[Request] fluentd post failed", zap.Error(err))
		}
		end(nil)
		c.Next()
	}
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		lk := strings.ToLower(k)
		joined := strings.Join(v, ",")
		if _, ok := sensitiveHeaders[lk]; ok {
			joined = apikey.Mask(joined)
		}
		out[lk] = joined
	}
	return out
}

// 文字內容截斷預覽；非 UTF-8 以 base64 表示；二進位只留標記
func previewBody(mediaType string, b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if isBinaryContent(mediaType) {
		return fmt.Sprintf("(binary %s, %d bytes)", mediaType, len(b))
	}
	if utf8.Valid(b) {
		return text.TruncateRunes(string(b), bodyPreviewRunes)
	}
	if len(b) > bodyPreviewRunes {
		b = b[:bodyPreviewRunes]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}

func isBinaryContent(mediaType string) bool {
	return strings.HasPrefix(mediaType, "multipart/") ||
		strings.HasPrefix(mediaType, "image/") ||
		strings.HasPrefix(mediaType, "audio/") ||
		strings.HasPrefix(mediaType, "video/") ||
		mediaType == "application/octet-stream"
}
