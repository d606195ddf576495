package text

// TruncateRunes 安全截斷前 n 個 rune，避免 UTF-8 亂碼
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > n {
		return string(r[:n]) + "…"
	}
	return s
}
