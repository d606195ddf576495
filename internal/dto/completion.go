package dto

import (
	"travelmail/internal/pkg/request"
	"travelmail/internal/service/chat"
	"travelmail/internal/service/models"
)

// 直接送出自行組好的 prompt
type CompletionDto struct {
	Prompt      string      `json:"prompt" binding:"required"`
	History     []chat.Turn `json:"history,omitempty" binding:"omitempty,max=50,dive"`
	StripTokens []string    `json:"stripTokens,omitempty" binding:"omitempty,max=5,dive,min=1,max=8"` // ** 以外要移除的標記
}

func (CompletionDto) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"Prompt.required":   "prompt is required",
		"History.max":       "history accepts at most 50 turns",
		"Role.required":     "history role is required",
		"Role.oneof":        "history role must be user or model",
		"Text.required":     "history text is required",
		"StripTokens.max":   "stripTokens accepts at most 5 tokens",
		"StripTokens.*.min": "strip token must not be empty",
	}
}

type CompletionResponseDto struct {
	Text         string              `json:"text"`
	Model        models.Descriptor   `json:"model"`
	ModelVersion string              `json:"modelVersion,omitempty"`
	Usage        *chat.UsageMetadata `json:"usage,omitempty"`
}

type ResolveResponseDto struct {
	Strategy string            `json:"strategy"`
	Model    models.Descriptor `json:"model"`
}

type QuotaDto struct {
	Enabled        bool  `json:"enabled"`
	Limit          int   `json:"limit,omitempty"`
	Remaining      int   `json:"remaining,omitempty"`
	ResetInSeconds int64 `json:"resetInSeconds,omitempty"`
}
