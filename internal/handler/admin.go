package handler

import (
	"travelmail/internal/core"
	"travelmail/internal/database/redis/repository"
	"travelmail/internal/dto"
	cErr "travelmail/internal/pkg/error"
	"travelmail/internal/pkg/response"
	"travelmail/internal/service"
	"travelmail/internal/telemetry"
	"travelmail/utils/validate"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	trace          *telemetry.Trace
	historyService *service.HistoryService
	rateLimiter    *repository.RateLimiterRepository
}

func NewAdminHandler(
	trace *telemetry.Trace,
	historyService *service.HistoryService,
	rateLimiter *repository.RateLimiterRepository,
) *AdminHandler {
	return &AdminHandler{trace: trace, historyService: historyService, rateLimiter: rateLimiter}
}

// ListHistory 完成紀錄列表
// @Summary 取得完成紀錄列表
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "頁碼（從 0 開始）"
// @Param size query int false "每頁筆數"
// @Param task query string false "任務名稱"
// @Param status query string false "success / failure"
// @Param fingerprint query string false "金鑰指紋"
// @Success 200 {object} dto.HistoryListDto
// @Failure 400 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /admin/history [get]
func (h *AdminHandler) ListHistory(c *gin.Context) {
	ctx, span, end := h.trace.WithSpan(c)
	var query dto.HistoryQueryDto
	if cause, err := validate.BindQueryAndValidate(c, &query); err != nil {
		end(cause)
		response.AbortWithError(c, err)
		return
	}

	result, err := h.historyService.List(ctx, query)
	meta := core.TraceHistoryListMeta{
		Page: query.Page,
		Size: query.Size,
		Filter: map[string]any{
			"task":        query.Task,
			"status":      string(query.Status),
			"fingerprint": query.Fingerprint,
		},
	}
	if err != nil {
		msg := err.Error()
		meta.Error = &msg
		h.trace.ApplyTraceAttributes(span, meta)
		end(err)
		response.AbortWithError(c, err)
		return
	}
	meta.ResultCount = len(result.Items)
	h.trace.ApplyTraceAttributes(span, meta)
	end(nil)
	response.Success(c, result)
}

// GetHistory 取得單筆完成紀錄
// @Summary 取得單筆完成紀錄
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param recordID path string true "Record ID"
// @Success 200 {object} model.CompletionRecord
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/history/{recordID} [get]
func (h *AdminHandler) GetHistory(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	id, cause, err := validate.ParseObjectID(c, "recordID")
	if err != nil {
		end(cause)
		response.AbortWithError(c, err)
		return
	}
	record, err := h.historyService.Get(ctx, id)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	end(nil)
	response.Success(c, record)
}

// ResetRateLimit 清除指定指紋的限流計數
// @Summary 解除金鑰限流
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param fingerprint path string true "金鑰指紋"
// @Success 200 {object} map[string]string
// @Failure 503 {object} response.Response
// @Router /admin/ratelimit/{fingerprint} [delete]
func (h *AdminHandler) ResetRateLimit(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	if !h.rateLimiter.Enabled() {
		err := cErr.ServiceUnavailable("rate limiter is disabled")
		end(err)
		response.AbortWithError(c, err)
		return
	}
	fingerprint := c.Param("fingerprint")
	if err := h.rateLimiter.Delete(ctx, fingerprint); err != nil {
		end(err)
		response.AbortWithError(c, cErr.RateLimiterUnavailable(err.Error()))
		return
	}
	end(nil)
	response.Success(c, gin.H{"message": "Rate limit reset", "fingerprint": fingerprint})
}
