package model

// ResponseLog 以 request_id 對應 RequestLog；成功時 Code 為 0、沒有 ErrorSlug
type ResponseLog struct {
	RequestID   string `bson:"request_id" json:"request_id"`
	ProjectName string `bson:"project_name,omitempty" json:"project_name,omitempty"`
	Route       string `bson:"route,omitempty" json:"route,omitempty"`
	StatusCode  int    `bson:"status_code" json:"status_code"`
	Code        int    `bson:"code" json:"code"`
	ErrorSlug   string `bson:"error_slug,omitempty" json:"error_slug,omitempty"` // 例如 missing-credential
	Error       string `bson:"error,omitempty" json:"error,omitempty"`
	Body        string `bson:"body,omitempty" json:"body,omitempty"`
	DurationMs  int64  `bson:"duration_ms" json:"duration_ms"`
	Version     string `bson:"version,omitempty" json:"version,omitempty"`
	ResponseTS  string `bson:"response_ts" json:"response_ts"`
	LoggedAt    string `bson:"logged_at" json:"logged_at"`
}
