package error

import (
	"errors"
	"net/http"
)

// Error 對外錯誤：httpCode 決定狀態碼，errorCode 寫進信封 code，errorMsg 為 slug
type Error struct {
	httpCode  int
	errorCode int
	errorMsg  string
	errorDesc string
}

func New(httpCode, errorCode int, errorMsg string, errorDesc string) *Error {
	return &Error{
		httpCode:  httpCode,
		errorCode: errorCode,
		errorMsg:  errorMsg,
		errorDesc: errorDesc,
	}
}

// From 取出錯誤鏈中的 *Error，其餘一律視為 500
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return InternalServer(err.Error())
}

func pick(fallback int, override []int) int {
	if len(override) > 0 {
		return override[0]
	}
	return fallback
}

// 400
func ValidateErr(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_BODY, "bad-request/body", errorDesc)
}

func ValidatePathParamsErr(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_PARAMS, "bad-request/params", errorDesc)
}

func BadRequest(errorDesc string, errorCode ...int) *Error {
	return New(http.StatusBadRequest, pick(BAD_REQUEST_BODY, errorCode), "bad-request", errorDesc)
}

func BadRequestBody(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_BODY, "bad-request-body", errorDesc)
}

// 貼上的郵件全是空白
func EmptyInput(errorDesc string) *Error {
	return New(http.StatusBadRequest, EMPTY_INPUT, "empty-input", errorDesc)
}

// 401 / 403
func Unauthorized(errorDesc string, errorCode ...int) *Error {
	return New(http.StatusUnauthorized, pick(UNAUTHORIZED, errorCode), "unauthorized", errorDesc)
}

func InvalidSession(errorDesc string) *Error {
	return New(http.StatusUnauthorized, INVALID_SESSION, "invalid-session", errorDesc)
}

func MissingCredential(errorDesc string) *Error {
	return New(http.StatusUnauthorized, MISSING_CREDENTIAL, "missing-credential", errorDesc)
}

// 金鑰無效或專案未啟用 Generative Language API，解析不到任何模型
func ProviderCredentialInvalid(errorDesc string) *Error {
	return New(http.StatusForbidden, PROVIDER_CREDENTIAL_INVALID, "provider-credential-invalid", errorDesc)
}

func Forbidden(errorDesc string, errorCode ...int) *Error {
	return New(http.StatusForbidden, pick(FORBIDDEN, errorCode), "forbidden", errorDesc)
}

// 404
func NotFound(errorDesc string, errorCode ...int) *Error {
	return New(http.StatusNotFound, pick(NOT_FOUND, errorCode), "not-found", errorDesc)
}

func UnknownTask(errorDesc string) *Error {
	return New(http.StatusNotFound, UNKNOWN_TASK, "unknown-task", errorDesc)
}

// 429
func RateLimitExceeded(errorDesc string) *Error {
	return New(http.StatusTooManyRequests, RATE_LIMIT_EXCEEDED, "rate-limit-exceeded", errorDesc)
}

// 5xx
func InternalServer(errorDesc string) *Error {
	return New(http.StatusInternalServerError, INTERNAL_ERROR, "internal-server-error", errorDesc)
}

func DatabaseError(errorDesc string) *Error {
	return New(http.StatusInternalServerError, DATABASE_ERROR, "database-error", errorDesc)
}

func ServiceUnavailable(errorDesc string) *Error {
	return New(http.StatusServiceUnavailable, SERVICE_UNAVAILABLE, "service-unavailable", errorDesc)
}

// Redis 連不上時的限流器，fail-closed
func RateLimiterUnavailable(desc string) *Error {
	return New(http.StatusServiceUnavailable, SERVICE_UNAVAILABLE, "rate-limiter-unavailable", desc)
}

// 供應商回非 2xx
func ExternalRequestError(errorDesc string) *Error {
	return New(http.StatusBadGateway, EXTERNAL_REQUEST_ERROR, "external-request-failed", errorDesc)
}

// 供應商回 200 但沒有可用的候選內容（被安全過濾擋下或格式不符）
func ExternalResponseBlocked(errorDesc string) *Error {
	return New(http.StatusBadGateway, EXTERNAL_RESPONSE_BLOCKED, "external-response-blocked", errorDesc)
}

func GatewayTimeout(errorDesc string) *Error {
	return New(http.StatusGatewayTimeout, GATEWAY_TIMEOUT, "gateway-timeout", errorDesc)
}

func (e *Error) HttpCode() int     { return e.httpCode }
func (e *Error) ErrorCode() int    { return e.errorCode }
func (e *Error) ErrorDesc() string { return e.errorDesc }
func (e *Error) Error() string     { return e.errorMsg }

// Is 讓 errors.Is 以 errorCode 比對
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.errorCode == t.errorCode
}

// MapHttpStatusToError handler 只寫了狀態碼、沒有附錯誤時使用
func MapHttpStatusToError(status int, desc string) *Error {
	switch status {
	case http.StatusBadRequest:
		return BadRequest(desc)
	case http.StatusUnauthorized:
		return Unauthorized(desc)
	case http.StatusForbidden:
		return Forbidden(desc)
	case http.StatusNotFound:
		return NotFound(desc)
	case http.StatusTooManyRequests:
		return RateLimitExceeded(desc)
	case http.StatusServiceUnavailable:
		return ServiceUnavailable(desc)
	case http.StatusBadGateway:
		return ExternalRequestError(desc)
	case http.StatusGatewayTimeout:
		return GatewayTimeout(desc)
	default:
		return InternalServer(desc)
	}
}
