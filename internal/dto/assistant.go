package dto

import (
	"travelmail/internal/pkg/request"
	"travelmail/internal/service/assistant"
	"travelmail/internal/service/chat"
)

// 執行助理任務
type RunTaskDto struct {
	Text    string      `json:"text"`                                              // 貼上的郵件原文；空白由 service 回 EMPTY_INPUT
	History []chat.Turn `json:"history,omitempty" binding:"omitempty,max=20,dive"` // 先前對話（選填）
}

func (RunTaskDto) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"History.max":   "history accepts at most 20 turns",
		"Role.required": "history role is required",
		"Role.oneof":    "history role must be user or model",
		"Text.required": "history text is required",
	}
}

type TaskListDto struct {
	Tasks []assistant.TaskInfo `json:"tasks"`
}

type TaskReplyDto = assistant.Reply
