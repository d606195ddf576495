package config

type Gemini struct {
	// Google Generative Language API 根網址（不含版本）
	BaseURL string `mapstructure:"BASE_URL" json:"base_url" yaml:"base_url"`
	// 模型解析：依序嘗試的 API 版本，預設 v1 → v1beta
	APIVersions []string `mapstructure:"API_VERSIONS" json:"api_versions" yaml:"api_versions"`
	// 模型家族標記，名稱需包含此字串才列入候選
	FamilyMarker string `mapstructure:"FAMILY_MARKER" json:"family_marker" yaml:"family_marker"`
	// 偏好的模型層級標記（例如 flash）
	PreferredMarker string `mapstructure:"PREFERRED_MARKER" json:"preferred_marker" yaml:"preferred_marker"`
	// 列表請求逾時（秒）
	ListTimeout int64 `mapstructure:"LIST_TIMEOUT" json:"list_timeout" yaml:"list_timeout"`
	// generateContent 逾時（秒）
	GenerateTimeout int64 `mapstructure:"GENERATE_TIMEOUT" json:"generate_timeout" yaml:"generate_timeout"`
	// discover（列出模型後挑選）或 fixed（依固定模型清單逐一嘗試）
	Strategy string `mapstructure:"STRATEGY" json:"strategy" yaml:"strategy"`
	// fixed 策略使用的模型名稱與 API 版本
	FallbackModels  []string `mapstructure:"FALLBACK_MODELS" json:"fallback_models" yaml:"fallback_models"`
	FallbackVersion string   `mapstructure:"FALLBACK_VERSION" json:"fallback_version" yaml:"fallback_version"`
}
