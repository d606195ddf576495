package config

// Redis 限流計數用；Host 留空則整個限流停用
type Redis struct {
	Host     string `mapstructure:"HOST" json:"host" yaml:"host"`
	Port     int    `mapstructure:"PORT" json:"port" yaml:"port"`
	Password string `mapstructure:"PASSWORD" json:"password" yaml:"password"`
	DB       int    `mapstructure:"DB" json:"db" yaml:"db"`
	// 0 使用 go-redis 預設（每顆 CPU 10 條）
	PoolSize int `mapstructure:"POOL_SIZE" json:"poolSize" yaml:"poolSize"`
	// 毫秒；啟動 Ping 與單次指令共用，0 為 5000
	TimeoutMs int `mapstructure:"TIMEOUT_MS" json:"timeoutMs" yaml:"timeoutMs"`
}
