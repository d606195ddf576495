package response

import (
	"errors"
	"net/http"
	cErr "travelmail/internal/pkg/error"

	"github.com/gin-gonic/gin"
)

type Response struct {
	RequestID   string `json:"requestID"`
	Code        int    `json:"code"`
	Data        any    `json:"data"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// Success 把資料交給 Response middleware 包裝輸出
func Success(c *gin.Context, data any) {
	c.Set("data", data)
	c.Set("message", popMessage(data, "Request Success"))
	c.Abort()
}

func Create(c *gin.Context, data any) {
	c.Set("status", http.StatusCreated)
	c.Set("data", data)
	c.Set("message", popMessage(data, "Create Success"))
	c.Abort()
}

func AbortWithError(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

func Fail(c *gin.Context, RequestID string, httpCode int, errorCode int, msg string, desc string) {
	c.JSON(httpCode, Response{
		RequestID:   RequestID,
		Code:        errorCode,
		Data:        nil,
		Message:     msg,
		Description: desc,
	})
	c.Abort()
}

func FailByErr(c *gin.Context, RequestID string, err error) {
	var v *cErr.Error
	if errors.As(err, &v) {
		Fail(c, RequestID, v.HttpCode(), v.ErrorCode(), v.Error(), v.ErrorDesc())
		return
	}
	Fail(c, RequestID, http.StatusInternalServerError, cErr.INTERNAL_ERROR, err.Error(), "internal error")
}

// gin.H 內帶 message 時取出作為回應訊息
func popMessage(data any, fallback string) string {
	msg, ok := data.(gin.H)
	if !ok {
		return fallback
	}
	if m, ok := msg["message"].(string); ok && m != "" {
		delete(msg, "message")
		return m
	}
	return fallback
}
