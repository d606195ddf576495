package handler

import (
	"errors"
	"strings"
	"time"
	"travelmail/config"
	"travelmail/internal/core"
	"travelmail/internal/database/redis/repository"
	"travelmail/internal/dto"
	"travelmail/internal/middleware"
	cErr "travelmail/internal/pkg/error"
	"travelmail/internal/pkg/response"
	"travelmail/internal/service"
	"travelmail/internal/service/assistant"
	"travelmail/internal/service/completion"
	"travelmail/internal/telemetry"
	"travelmail/utils/apikey"
	"travelmail/utils/validate"

	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	trace          *telemetry.Trace
	config         *config.Configuration
	assistant      *assistant.Service
	client         *completion.Client
	historyService *service.HistoryService
	rateLimiter    *repository.RateLimiterRepository
}

func NewAssistantHandler(
	trace *telemetry.Trace,
	config *config.Configuration,
	assistant *assistant.Service,
	client *completion.Client,
	historyService *service.HistoryService,
	rateLimiter *repository.RateLimiterRepository,
) *AssistantHandler {
	return &AssistantHandler{
		trace:          trace,
		config:         config,
		assistant:      assistant,
		client:         client,
		historyService: historyService,
		rateLimiter:    rateLimiter,
	}
}

// ListTasks 助理任務清單
// @Summary 取得可用的助理任務
// @Tags Assistant
// @Produce json
// @Success 200 {object} dto.TaskListDto
// @Router /assistant/v1/tasks [get]
func (h *AssistantHandler) ListTasks(c *gin.Context) {
	response.Success(c, dto.TaskListDto{Tasks: h.assistant.Tasks()})
}

// RunTask 執行助理任務
// @Summary 對貼上的郵件執行助理任務
// @Description 任務：audit、client-to-supplier、supplier-to-client、manifest
// @Tags Assistant
// @Security GoogAPIKey
// @Accept json
// @Produce json
// @Param task path string true "任務名稱"
// @Param body body dto.RunTaskDto true "郵件原文"
// @Success 200 {object} dto.TaskReplyDto
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 429 {object} response.Response
// @Failure 502 {object} response.Response
// @Failure 504 {object} response.Response
// @Router /assistant/v1/tasks/{task} [post]
func (h *AssistantHandler) RunTask(c *gin.Context) {
	ctx, span, end := h.trace.WithSpan(c)
	var req dto.RunTaskDto
	if cause, err := validate.BindAndValidate(c, &req); err != nil {
		end(cause)
		response.AbortWithError(c, err)
		return
	}
	credential, fingerprint, _ := apikey.FromContext(c)
	task := c.Param("task")

	start := time.Now()
	reply, err := h.assistant.Run(ctx, task, credential, req.Text, req.History)
	event := service.CompletionEvent{
		RequestID:   middleware.RequestID(c),
		Fingerprint: fingerprint,
		Task:        task,
		Strategy:    h.client.Strategy(),
		InputChars:  len([]rune(strings.TrimSpace(req.Text))),
		Duration:    time.Since(start),
	}
	h.trace.ApplyTraceAttributes(span, core.TraceCompletionMeta{Strategy: string(event.Strategy), Task: task})

	var failure *completion.Failure
	if errors.As(err, &failure) {
		event.Failure = failure
		h.historyService.Record(ctx, event)
		end(failure)
		response.AbortWithError(c, failure.AppError())
		return
	}
	if err != nil {
		// 參數錯誤沒有呼叫模型，不留紀錄
		end(err)
		response.AbortWithError(c, cErr.From(err))
		return
	}

	event.Model = reply.Model
	event.ModelVersion = reply.ModelVersion
	event.Usage = reply.Usage
	event.OutputChars = len([]rune(reply.Text))
	h.historyService.Record(ctx, event)
	end(nil)
	response.Success(c, reply)
}

// Quota 目前金鑰的剩餘額度
// @Summary 查詢目前金鑰的限流額度
// @Tags Assistant
// @Security GoogAPIKey
// @Produce json
// @Success 200 {object} dto.QuotaDto
// @Failure 401 {object} response.Response
// @Router /assistant/v1/quota [get]
func (h *AssistantHandler) Quota(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	limit := h.config.RateLimit.Limit
	if !h.config.RateLimit.Enabled || limit <= 0 || !h.rateLimiter.Enabled() {
		end(nil)
		response.Success(c, dto.QuotaDto{Enabled: false})
		return
	}
	_, fingerprint, _ := apikey.FromContext(c)
	remaining, ttl, err := h.rateLimiter.GetCurrent(ctx, fingerprint, limit)
	if err != nil {
		end(err)
		response.AbortWithError(c, cErr.RateLimiterUnavailable("rate limiter unavailable"))
		return
	}
	end(nil)
	response.Success(c, dto.QuotaDto{
		Enabled:        true,
		Limit:          limit,
		Remaining:      remaining,
		ResetInSeconds: ttl,
	})
}
