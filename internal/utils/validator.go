package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"websecurity/internal/apperr"
	"websecurity/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	phonePattern    = regexp.MustCompile(`^(\+\d{1,3}\(\d{1,3}\)*)*\d{4,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// InitValidator 初始化验证器
func InitValidator() {
	validate = validator.New()

	// 错误信息里使用json字段名
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// 注册自定义验证函数
	validate.RegisterValidation("username", validateUsername)
	validate.RegisterValidation("phone", validatePhone)
	validate.RegisterValidation("identifier", validateIdentifier)
	validate.RegisterValidation("notblank", validators.NotBlank)
}

// GetValidator 获取验证器实例
func GetValidator() *validator.Validate {
	validateOnce.Do(InitValidator)
	return validate
}

// validateUsername 验证用户名
func validateUsername(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	if len(username) < 3 || len(username) > 30 {
		return false
	}
	return usernamePattern.MatchString(username)
}

// validatePhone 验证电话，空值由 omitempty 处理
func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

// validateIdentifier 验证 ACT-/OFR- 标识符
func validateIdentifier(fl validator.FieldLevel) bool {
	return models.IdentifierPattern.MatchString(fl.Field().String())
}

// ValidateStruct 验证结构体，失败时返回 ValidationFailed 业务错误
func ValidateStruct(s interface{}) error {
	fields := FieldErrors(s)
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}

// FieldErrors 返回所有字段错误，没有错误时返回nil
func FieldErrors(s interface{}) []apperr.FieldError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []apperr.FieldError{{Field: "", Message: err.Error()}}
	}

	fields := make([]apperr.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, apperr.FieldError{
			Field:   e.Field(),
			Message: fieldMessage(e),
		})
	}
	return fields
}

// fieldMessage 格式化单个字段错误
func fieldMessage(e validator.FieldError) string {
	param := e.Param()
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "notblank":
		return "this field may not be blank"
	case "min":
		return fmt.Sprintf("must have at least %s characters or items", param)
	case "max":
		return fmt.Sprintf("must have at most %s characters", param)
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "username":
		return "may only contain letters, digits and underscores, 3-30 characters"
	case "phone":
		return "does not follow the pattern"
	case "identifier":
		return "must look like ACT-XXXXXXXXXX or OFR-XXXXXXXXXX"
	default:
		return fmt.Sprintf("failed on %s", e.Tag())
	}
}
