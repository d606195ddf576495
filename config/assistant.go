package config

type Assistant struct {
	// 回覆客戶時使用的公司名稱
	Company string `mapstructure:"COMPANY" json:"company" yaml:"company"`
	// 單次輸入長度上限（字元），0 代表不限制
	MaxInputChars int `mapstructure:"MAX_INPUT_CHARS" json:"max_input_chars" yaml:"max_input_chars"`
}
