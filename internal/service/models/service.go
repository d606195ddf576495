package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Descriptor 一組已確認可用的 (API 版本, 模型名稱)，例如 ("v1beta", "models/gemini-1.5-flash")
type Descriptor struct {
	APIVersion string `json:"apiVersion"`
	ModelID    string `json:"modelID"`
}

func (d Descriptor) IsZero() bool {
	return d.APIVersion == "" && d.ModelID == ""
}

// 單一 Model（Generative Language API models.list 的項目）
type Model struct {
	Name                       string   `json:"name"` // "models/gemini-1.5-flash"
	BaseModelID                string   `json:"baseModelId,omitempty"`
	Version                    string   `json:"version,omitempty"`
	DisplayName                string   `json:"displayName,omitempty"`
	Description                string   `json:"description,omitempty"`
	InputTokenLimit            int      `json:"inputTokenLimit,omitempty"`
	OutputTokenLimit           int      `json:"outputTokenLimit,omitempty"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods,omitempty"`
}

// 列表回應
type ListResponse struct {
	Models        []Model `json:"models"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}

// 服務介面
type Service interface {
	List(ctx context.Context, version, credential string) (*ListResponse, error)
}

var (
	// ErrNoModelAvailable 所有版本都沒有可用的模型（金鑰無效或 API 未啟用）
	ErrNoModelAvailable = errors.New("no usable model for credential")
	// ErrMalformedResponse 供應商回 2xx 但 body 無法解析
	ErrMalformedResponse = errors.New("malformed models response")
)

// StatusError 供應商回傳非 2xx
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("models list: status %d: %s", e.StatusCode, e.Body)
}

func trimBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 3000 {
		return s[:3000] + "..."
	}
	return s
}
