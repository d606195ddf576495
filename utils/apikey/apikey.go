package apikey

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"travelmail/internal/core"

	"github.com/gin-gonic/gin"
)

// Fingerprint 以 HMAC-SHA256(secret) 對 Google API Key 簽章，取前 16 字元。
// 供限流 key、紀錄與 log 使用，原始金鑰不落地。
func Fingerprint(credential, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(credential))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))[:16]
}

// Mask 只保留前 4 與後 4 字元
func Mask(credential string) string {
	if len(credential) <= 8 {
		return strings.Repeat("*", len(credential))
	}
	return credential[:4] + strings.Repeat("*", len(credential)-8) + credential[len(credential)-4:]
}

// Extract 由 X-Goog-Api-Key 標頭或 key query 取得金鑰，標頭優先
func Extract(c *gin.Context) (credential string, where string) {
	if v := strings.TrimSpace(c.GetHeader(core.HeaderGoogAPIKey)); v != "" {
		return v, "header"
	}
	if v := strings.TrimSpace(c.Query(core.QueryCredentialID)); v != "" {
		return v, "query"
	}
	return "", ""
}

// FromContext 取得 credential middleware 放進 gin.Context 的金鑰與指紋
func FromContext(c *gin.Context) (credential string, fingerprint string, ok bool) {
	credential = c.GetString(core.ContextCredentialKey)
	fingerprint = c.GetString(core.ContextFingerprintKey)
	return credential, fingerprint, credential != ""
}

// RedactURL 回傳把 key query 遮蔽後的網址，供 span 與 log 使用
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	if q.Get(core.QueryCredentialID) == "" {
		return u.String()
	}
	q.Set(core.QueryCredentialID, "REDACTED")
	redacted := *u
	redacted.RawQuery = q.Encode()
	return redacted.String()
}

// RedactError 把 *url.Error 內含的請求網址換成遮蔽版；net/http 的錯誤訊息會帶完整網址
func RedactError(err error, u *url.URL) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = RedactURL(u)
	}
	return err
}
