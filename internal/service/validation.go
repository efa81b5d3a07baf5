package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return IsPlausibleEmail(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// IsPlausibleEmail 只做最基本的格式判断：包含 @，且最后一个 @ 之后包含 "."。
func IsPlausibleEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

// hasFailedTag 判断任一字段是否未通过指定规则。
func hasFailedTag(err error, tag string) bool {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return false
	}
	for _, fieldErr := range errs {
		if fieldErr.Tag() == tag {
			return true
		}
	}
	return false
}
