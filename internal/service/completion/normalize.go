package completion

import "strings"

// BoldMarker 模型 Markdown 輸出的粗體標記
const BoldMarker = "**"

// Normalize 移除所有 ** 與額外指定的標記，其餘內容不變。
// 反覆替換直到不再變化，移除一種標記後拼出的新標記也會被清掉。
func Normalize(text string, extra ...string) string {
	tokens := append([]string{BoldMarker}, extra...)
	for {
		prev := text
		for _, tok := range tokens {
			if tok == "" {
				continue
			}
			text = strings.ReplaceAll(text, tok, "")
		}
		if text == prev {
			return text
		}
	}
}
