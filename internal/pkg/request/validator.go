package request

import (
	"encoding/json"
	"errors"
	"regexp"
	cErr "travelmail/internal/pkg/error"

	"github.com/go-playground/validator/v10"
)

// Validator DTO 實作後可替 binding 規則提供對外訊息
type Validator interface {
	GetMessages() ValidatorMessages
}

// ValidatorMessages key 為 "欄位.規則"，例如 "Text.required"；切片欄位寫成 "Items.*.required"
type ValidatorMessages map[string]string

var indexPattern = regexp.MustCompile(`\[\d+\]`)

// GetError 取第一個違反的規則轉成 cErr；找不到自訂訊息就用 validator 原文
func GetError(request any, err error) *cErr.Error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return cErr.ValidateErr("request body is not valid JSON")
	case errors.As(err, &typeErr):
		return cErr.ValidateErr("field " + typeErr.Field + " has the wrong type")
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return cErr.ValidateErr("Parameter error")
	}
	first := fieldErrs[0]
	if v, ok := request.(Validator); ok {
		if message, found := lookupMessage(v.GetMessages(), first); found {
			return cErr.ValidateErr(message)
		}
	}
	return cErr.ValidateErr(first.Error())
}

func lookupMessage(messages ValidatorMessages, fe validator.FieldError) (string, bool) {
	field := indexPattern.ReplaceAllString(fe.Field(), ".*")
	message, ok := messages[field+"."+fe.Tag()]
	return message, ok
}
