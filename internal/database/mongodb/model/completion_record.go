package model

import (
	"time"
	"travelmail/internal/core"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletionRecord 一次助理任務或直接完成請求的紀錄；不存金鑰與原文
type CompletionRecord struct {
	ID                    primitive.ObjectID    `json:"id" bson:"_id"`
	RequestID             string                `json:"requestID,omitempty" bson:"requestID,omitempty"`               // 對應回應 envelope 的 requestID
	CredentialFingerprint string                `json:"credentialFingerprint" bson:"credentialFingerprint"`           // HMAC 指紋
	Task                  string                `json:"task" bson:"task"`                                             // audit, manifest... 直接呼叫為 raw
	Strategy              string                `json:"strategy" bson:"strategy"`                                     // discover / fixed
	APIVersion            string                `json:"apiVersion,omitempty" bson:"apiVersion,omitempty"`             // v1 / v1beta
	Model                 string                `json:"model,omitempty" bson:"model,omitempty"`                       // models/gemini-1.5-flash
	Status                core.CompletionStatus `json:"status" bson:"status"`                                         // success / failure
	FailureKind           string                `json:"failureKind,omitempty" bson:"failureKind,omitempty"`           // 失敗分類
	ProviderStatus        int                   `json:"providerStatus,omitempty" bson:"providerStatus,omitempty"`     // 供應商 HTTP 狀態碼
	InputChars            int                   `json:"inputChars" bson:"inputChars"`                                 // 輸入字元數
	OutputChars           int                   `json:"outputChars,omitempty" bson:"outputChars,omitempty"`           // 輸出字元數
	PromptTokens          int                   `json:"promptTokens,omitempty" bson:"promptTokens,omitempty"`         // usageMetadata.promptTokenCount
	CandidatesTokens      int                   `json:"candidatesTokens,omitempty" bson:"candidatesTokens,omitempty"` // usageMetadata.candidatesTokenCount
	DurationMs            int64                 `json:"durationMs" bson:"durationMs"`                                 // 耗時
	CreatedAt             time.Time             `json:"createdAt" bson:"createdAt"`                                   // 建立時間
}
