package config

// Fluentd 請求、回應與用量紀錄的收集端；Host 留空改用 noop client
type Fluentd struct {
	Host      string `mapstructure:"HOST" json:"host" yaml:"host"`
	Port      int    `mapstructure:"PORT" json:"port" yaml:"port"`
	TagPrefix string `mapstructure:"TAG_PREFIX" json:"tagPrefix" yaml:"tagPrefix"`
	// 毫秒
	Timeout int64 `mapstructure:"TIMEOUT" json:"timeout" yaml:"timeout"`
	// 非同步緩衝上限（bytes），0 使用 fluent-logger 預設 8MB
	BufferLimit int `mapstructure:"BUFFER_LIMIT" json:"bufferLimit" yaml:"bufferLimit"`
	MaxRetry    int `mapstructure:"MAX_RETRY" json:"maxRetry" yaml:"maxRetry"`
}
