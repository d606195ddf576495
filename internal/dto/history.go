package dto

import (
	"travelmail/internal/core"
	"travelmail/internal/database/mongodb/model"
	"travelmail/internal/pkg/request"
)

// 歷史紀錄查詢（page 從 0 開始）
type HistoryQueryDto struct {
	Page        int64                 `form:"page" binding:"omitempty,min=0"`
	Size        int64                 `form:"size" binding:"omitempty,min=1,max=100"`
	Task        string                `form:"task"`
	Status      core.CompletionStatus `form:"status" binding:"omitempty,oneof=success failure"`
	Fingerprint string                `form:"fingerprint"`
}

func (HistoryQueryDto) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"Page.min":     "page must be >= 0",
		"Size.min":     "size must be between 1 and 100",
		"Size.max":     "size must be between 1 and 100",
		"Status.oneof": "status must be success or failure",
	}
}

type HistoryListDto struct {
	Items []*model.CompletionRecord `json:"items"`
	Total int64                     `json:"total"`
	Page  int64                     `json:"page"`
	Size  int64                     `json:"size"`
}
