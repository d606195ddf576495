package config

type TelemetryConfig struct {
	Metric MetricConfig `yaml:"metric" mapstructure:"METRIC" json:"metric"`
	Trace  TraceConfig  `yaml:"trace" mapstructure:"TRACE" json:"trace"`
}

// MetricConfig 關閉時 Metric 的 collector 全為 nil，呼叫端不需判斷
type MetricConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"ENABLED" json:"enabled"`
	// 延遲 histogram 的 bucket（秒），留空用 completion 預設值
	Buckets []float64 `yaml:"buckets" mapstructure:"BUCKETS" json:"buckets"`
}

type TraceConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"ENABLED" json:"enabled"`
	// OTLP/HTTP collector，例如 http://otel-collector:4318
	EndpointUrl string `yaml:"endpointUrl" mapstructure:"ENDPOINT_URL" json:"endpointUrl"`
	// 0 或 >=1 代表全取樣；上游已取樣的 span 一律跟隨
	SampleRatio float64 `yaml:"sampleRatio" mapstructure:"SAMPLE_RATIO" json:"sampleRatio"`
	// 匯出逾時（秒），0 為 30
	ExportTimeout int `yaml:"exportTimeout" mapstructure:"EXPORT_TIMEOUT" json:"exportTimeout"`
}
