package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"travelmail/internal/service/models"
)

// Part 內容片段（只使用文字）
type Part struct {
	Text string `json:"text"`
}

// Content 一則對話內容；單純 prompt 時不帶 role
type Content struct {
	Role  string `json:"role,omitempty"` // "user" / "model"
	Parts []Part `json:"parts"`
}

type GenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
}

// GenerateRequest generateContent 的 body
type GenerateRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Turn 呼叫端保留的上下文
type Turn struct {
	Role string `json:"role" binding:"required,oneof=user model"`
	Text string `json:"text" binding:"required"`
}

// NewGenerateRequest 組出請求；沒有 history 時 body 即 {"contents":[{"parts":[{"text":prompt}]}]}
func NewGenerateRequest(prompt string, history []Turn) *GenerateRequest {
	if len(history) == 0 {
		return &GenerateRequest{Contents: []Content{{Parts: []Part{{Text: prompt}}}}}
	}
	contents := make([]Content, 0, len(history)+1)
	for _, h := range history {
		contents = append(contents, Content{Role: h.Role, Parts: []Part{{Text: h.Text}}})
	}
	contents = append(contents, Content{Role: "user", Parts: []Part{{Text: prompt}}})
	return &GenerateRequest{Contents: contents}
}

type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
	Index        int      `json:"index,omitempty"`
}

type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount,omitempty"`
	CandidatesTokenCount int `json:"candidatesTokenCount,omitempty"`
	TotalTokenCount      int `json:"totalTokenCount,omitempty"`
}

// GenerateResponse generateContent 回應
type GenerateResponse struct {
	Candidates     []Candidate     `json:"candidates,omitempty"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  *UsageMetadata  `json:"usageMetadata,omitempty"`
	ModelVersion   string          `json:"modelVersion,omitempty"`
}

// FirstText 取 candidates[0].content.parts[0].text；任何一層缺漏都回 false
func (r *GenerateResponse) FirstText() (string, bool) {
	if r == nil || len(r.Candidates) == 0 {
		return "", false
	}
	c := r.Candidates[0].Content
	if c == nil || len(c.Parts) == 0 {
		return "", false
	}
	return c.Parts[0].Text, true
}

// BlockReason 回傳被過濾的原因（candidate finishReason 或 promptFeedback）
func (r *GenerateResponse) BlockReason() string {
	if r == nil {
		return ""
	}
	if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
		return r.PromptFeedback.BlockReason
	}
	if len(r.Candidates) > 0 {
		switch reason := r.Candidates[0].FinishReason; reason {
		case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT", "SPII":
			return reason
		}
	}
	return ""
}

type Service interface {
	GenerateContent(ctx context.Context, model models.Descriptor, credential string, req *GenerateRequest) (*GenerateResponse, error)
}

// ErrMalformedResponse 2xx 但 body 無法解析
var ErrMalformedResponse = errors.New("malformed generateContent response")

// StatusError 供應商回傳非 200
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("generateContent: status %d: %s", e.StatusCode, e.Body)
}

func trimBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 3000 {
		return s[:3000] + "..."
	}
	return s
}
