// Package validator 提供统一的配置校验和错误转换
package validator

import (
	"errors"

	"github.com/KOMKZ/go-yogan-ioc/errcode"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrValidation 校验失败（模块码 10 common，业务码 1010）
var ErrValidation = errcode.Register(errcode.New(
	10, 1010,
	"common",
	"error.common.validation_failed",
	"validation failed",
))

// Validatable 可校验接口
type Validatable interface {
	Validate() error
}

// Validate 校验并将 ozzo-validation 错误转换为 LayeredError
// 其他错误原样返回
func Validate(v Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}

	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		return ConvertValidationError(validationErrs)
	}
	return err
}

// ConvertValidationError 将 ozzo-validation 错误转换为 LayeredError
// 嵌套结构的错误展开为点号路径，如 "resolver.max_depth"
func ConvertValidationError(validationErrs validation.Errors) error {
	fields := make(map[string]string)
	flatten("", validationErrs, fields)
	return ErrValidation.WithData("fields", fields)
}

// Fields 取出 ConvertValidationError 附带的字段错误
func Fields(err error) map[string]string {
	var layered *errcode.LayeredError
	if !errors.As(err, &layered) {
		return nil
	}
	fields, _ := layered.Data()["fields"].(map[string]string)
	return fields
}

func flatten(prefix string, errs validation.Errors, out map[string]string) {
	for field, fieldErr := range errs {
		if fieldErr == nil {
			continue
		}
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}
		if nested, ok := fieldErr.(validation.Errors); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = fieldErr.Error()
	}
}
