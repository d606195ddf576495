package config

type Configuration struct {
	App       App             `mapstructure:"APP" json:"app" yaml:"app"`
	Log       Log             `mapstructure:"LOG" json:"log" yaml:"log"`
	Gemini    Gemini          `mapstructure:"GEMINI" json:"gemini" yaml:"gemini"`
	Redis     Redis           `mapstructure:"REDIS" json:"redis" yaml:"redis"`
	MongoDB   MongoDB         `mapstructure:"MONGODB" json:"mongodb" yaml:"mongodb"`
	Telemetry TelemetryConfig `mapstructure:"TELEMETRY" yaml:"telemetry"`
	Fluentd   Fluentd         `mapstructure:"FLUENTD" yaml:"fluentd"`
	RateLimit RateLimit       `mapstructure:"RATE_LIMIT" json:"rate_limit" yaml:"rate_limit"`
	History   History         `mapstructure:"HISTORY" json:"history" yaml:"history"`
	Assistant Assistant       `mapstructure:"ASSISTANT" json:"assistant" yaml:"assistant"`
}
