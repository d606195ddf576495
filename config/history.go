package config

type History struct {
	// 保留天數，0 代表不清除
	RetentionDays int `mapstructure:"RETENTION_DAYS" json:"retention_days" yaml:"retention_days"`
	// 清除排程（cron，含秒）
	RetentionSpec string `mapstructure:"RETENTION_SPEC" json:"retention_spec" yaml:"retention_spec"`
}
