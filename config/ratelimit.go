package config

type RateLimit struct {
	Enabled bool `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	// 每個視窗可用次數
	Limit int `mapstructure:"LIMIT" json:"limit" yaml:"limit"`
	// 視窗長度（秒）
	WindowSeconds int64 `mapstructure:"WINDOW_SECONDS" json:"window_seconds" yaml:"window_seconds"`
}
