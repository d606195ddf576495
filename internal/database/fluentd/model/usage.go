package model

// UsageLog 一次 generateContent 的用量
type UsageLog struct {
	RequestID             string `bson:"request_id,omitempty" json:"request_id"`
	CredentialFingerprint string `bson:"credential_fingerprint" json:"credential_fingerprint"`
	ProjectName           string `bson:"project_name,omitempty" json:"project_name,omitempty"`
	Provider              string `bson:"provider" json:"provider"`
	Task                  string `bson:"task" json:"task"`
	Strategy              string `bson:"strategy" json:"strategy"`
	APIVersion            string `bson:"api_version,omitempty" json:"api_version,omitempty"`
	Model                 string `bson:"model,omitempty" json:"model,omitempty"`
	ModelVersion          string `bson:"model_version,omitempty" json:"model_version,omitempty"`
	Outcome               string `bson:"outcome" json:"outcome"`
	TokensPrompt          int    `bson:"tokens_prompt,omitempty" json:"tokens_prompt,omitempty"`
	TokensCandidates      int    `bson:"tokens_candidates,omitempty" json:"tokens_candidates,omitempty"`
	TokensTotal           int    `bson:"tokens_total,omitempty" json:"tokens_total,omitempty"`
	DurationMs            int64  `bson:"duration_ms" json:"duration_ms"`
	Version               string `bson:"version" json:"version"`
	LoggedAt              string `bson:"logged_at" json:"logged_at"`
}
