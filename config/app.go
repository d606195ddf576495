package config

type App struct {
	// development / test / production；決定 gin mode 與是否掛 pprof
	Env  string `mapstructure:"ENV" json:"env" yaml:"env"`
	Port uint32 `mapstructure:"PORT" json:"port" yaml:"port"`
	Name string `mapstructure:"NAME" json:"name" yaml:"name"`
	// 出現在 /version、log 與 Fluentd 紀錄
	Version string `mapstructure:"VERSION" json:"version" yaml:"version"`
	// 簽發管理者 JWT，也是憑證指紋的 HMAC key
	SecretKey      string `mapstructure:"SECRET_KEY" json:"secret_key" yaml:"secret_key"`
	SwaggerEnabled bool   `mapstructure:"SWAGGER_ENABLED" json:"swagger_enabled" yaml:"swagger_enabled"`
	// 反向代理後的對外路徑前綴，只影響 swagger 文件
	PublicBasePath string `mapstructure:"PUBLIC_BASE_PATH" json:"public_base_path" yaml:"public_base_path"`
	// 秒；收到 SIGTERM 後等待進行中請求的時間，0 為 5
	ShutdownTimeout int `mapstructure:"SHUTDOWN_TIMEOUT" json:"shutdown_timeout" yaml:"shutdown_timeout"`
}
