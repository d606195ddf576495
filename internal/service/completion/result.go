package completion

import (
	"fmt"
	cErr "travelmail/internal/pkg/error"
	"travelmail/internal/service/chat"
	"travelmail/internal/service/models"
)

// FailureKind 失敗分類，呼叫端只需依此決定顯示內容
type FailureKind string

const (
	// 找不到可用模型，未送出任何 generateContent
	ResolutionUnavailable FailureKind = "resolution_unavailable"
	// 供應商回傳非 OK
	ProviderError FailureKind = "provider_error"
	// 連線失敗或逾時
	ConnectionError FailureKind = "connection_error"
	// OK 但沒有候選文字（被過濾或格式不符）
	EmptyOrBlockedResponse FailureKind = "empty_or_blocked"
)

const MessageResolutionUnavailable = "invalid credential or API not enabled"

type Failure struct {
	Kind       FailureKind `json:"kind"`
	StatusCode int         `json:"statusCode,omitempty"`
	Body       string      `json:"body,omitempty"`
	Message    string      `json:"message"`
}

func (f *Failure) Error() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", f.Kind, f.StatusCode, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// AppError 轉成 HTTP 錯誤格式
func (f *Failure) AppError() *cErr.Error {
	switch f.Kind {
	case ResolutionUnavailable:
		return cErr.ProviderCredentialInvalid(f.Message)
	case ProviderError:
		desc := f.Message
		if f.Body != "" {
			desc += ": " + f.Body
		}
		return cErr.ExternalRequestError(desc)
	case ConnectionError:
		return cErr.GatewayTimeout(f.Message)
	case EmptyOrBlockedResponse:
		return cErr.ExternalResponseBlocked(f.Message)
	default:
		return cErr.InternalServer(f.Message)
	}
}

// Request 一次完成請求；不可重複使用
type Request struct {
	Credential string
	Prompt     string
	History    []chat.Turn
	// 用於指標與紀錄的任務名稱，空字串代表直接呼叫
	Task string
	// 除了 ** 以外要一併移除的標記
	StripTokens []string
}

// Result Success 時 Failure 為 nil
type Result struct {
	Text         string              `json:"text,omitempty"`
	Model        models.Descriptor   `json:"model"`
	ModelVersion string              `json:"modelVersion,omitempty"`
	Usage        *chat.UsageMetadata `json:"usage,omitempty"`
	Failure      *Failure            `json:"failure,omitempty"`
}

func (r Result) OK() bool { return r.Failure == nil }

func Success(text string, model models.Descriptor, resp *chat.GenerateResponse) Result {
	res := Result{Text: text, Model: model}
	if resp != nil {
		res.ModelVersion = resp.ModelVersion
		res.Usage = resp.UsageMetadata
	}
	return res
}

func Fail(kind FailureKind, message string) Result {
	return Result{Failure: &Failure{Kind: kind, Message: message}}
}
