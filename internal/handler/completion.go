package handler

import (
	"errors"
	"time"
	"travelmail/internal/dto"
	"travelmail/internal/middleware"
	cErr "travelmail/internal/pkg/error"
	"travelmail/internal/pkg/response"
	"travelmail/internal/service"
	"travelmail/internal/service/completion"
	"travelmail/internal/service/models"
	"travelmail/internal/telemetry"
	"travelmail/utils/apikey"
	"travelmail/utils/validate"

	"github.com/gin-gonic/gin"
)

const rawTask = "raw"

type CompletionHandler struct {
	trace          *telemetry.Trace
	client         *completion.Client
	resolver       *models.Resolver
	historyService *service.HistoryService
}

func NewCompletionHandler(
	trace *telemetry.Trace,
	client *completion.Client,
	resolver *models.Resolver,
	historyService *service.HistoryService,
) *CompletionHandler {
	return &CompletionHandler{
		trace:          trace,
		client:         client,
		resolver:       resolver,
		historyService: historyService,
	}
}

// Complete 直接送出呼叫端組好的 prompt
// @Summary 送出自訂 prompt（含選填對話紀錄）
// @Tags Completion
// @Security GoogAPIKey
// @Accept json
// @Produce json
// @Param body body dto.CompletionDto true "prompt"
// @Success 200 {object} dto.CompletionResponseDto
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 502 {object} response.Response
// @Failure 504 {object} response.Response
// @Router /assistant/v1/completions [post]
func (h *CompletionHandler) Complete(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	var req dto.CompletionDto
	if cause, err := validate.BindAndValidate(c, &req); err != nil {
		end(cause)
		response.AbortWithError(c, err)
		return
	}
	credential, fingerprint, _ := apikey.FromContext(c)

	start := time.Now()
	res := h.client.Complete(ctx, completion.Request{
		Credential:  credential,
		Prompt:      req.Prompt,
		History:     req.History,
		StripTokens: req.StripTokens,
	})
	event := service.CompletionEvent{
		RequestID:    middleware.RequestID(c),
		Fingerprint:  fingerprint,
		Task:         rawTask,
		Strategy:     h.client.Strategy(),
		InputChars:   len([]rune(req.Prompt)),
		OutputChars:  len([]rune(res.Text)),
		Duration:     time.Since(start),
		Model:        res.Model,
		ModelVersion: res.ModelVersion,
		Usage:        res.Usage,
		Failure:      res.Failure,
	}
	h.historyService.Record(ctx, event)

	if !res.OK() {
		end(res.Failure)
		response.AbortWithError(c, res.Failure.AppError())
		return
	}
	end(nil)
	response.Success(c, dto.CompletionResponseDto{
		Text:         res.Text,
		Model:        res.Model,
		ModelVersion: res.ModelVersion,
		Usage:        res.Usage,
	})
}

// Resolve 顯示這把金鑰會使用的模型
// @Summary 解析金鑰可用的 API 版本與模型
// @Tags Completion
// @Security GoogAPIKey
// @Produce json
// @Success 200 {object} dto.ResolveResponseDto
// @Failure 403 {object} response.Response
// @Router /assistant/v1/models/resolve [get]
func (h *CompletionHandler) Resolve(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	credential, _, _ := apikey.FromContext(c)

	descriptor, err := h.resolver.Resolve(ctx, credential)
	if err != nil {
		end(err)
		if errors.Is(err, models.ErrNoModelAvailable) {
			response.AbortWithError(c, cErr.ProviderCredentialInvalid(completion.MessageResolutionUnavailable))
			return
		}
		response.AbortWithError(c, cErr.From(err))
		return
	}
	end(nil)
	response.Success(c, dto.ResolveResponseDto{
		Strategy: string(h.client.Strategy()),
		Model:    descriptor,
	})
}
