package model

// RequestLog 進站請求摘要；金鑰只留指紋，body 已截斷
type RequestLog struct {
	RequestID             string `bson:"request_id" json:"request_id"`
	TraceID               string `bson:"trace_id,omitempty" json:"trace_id,omitempty"`
	Method                string `bson:"method" json:"method"`
	Path                  string `bson:"path" json:"path"`
	Route                 string `bson:"route,omitempty" json:"route,omitempty"` // gin FullPath，例如 /assistant/v1/tasks/:task
	ProjectName           string `bson:"project_name,omitempty" json:"project_name,omitempty"`
	Body                  string `bson:"body,omitempty" json:"body,omitempty"`
	CredentialFingerprint string `bson:"credential_fingerprint,omitempty" json:"credential_fingerprint,omitempty"`
	IPHash                string `bson:"ip_hash,omitempty" json:"ip_hash,omitempty"`
	UserAgent             string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Version               string `bson:"version,omitempty" json:"version,omitempty"`
	RequestTS             string `bson:"request_ts" json:"request_ts"`
	LoggedAt              string `bson:"logged_at" json:"logged_at"`
}
