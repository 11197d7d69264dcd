package validator

import (
	"mime"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Rishitj1972/Secure-Share/backend/pkg/apperror"
)

// CustomValidator はEcho用のカスタムバリデーターです
type CustomValidator struct {
	validator *validator.Validate
}

// NewCustomValidator は新しいCustomValidatorを作成します
func NewCustomValidator() *CustomValidator {
	v := validator.New()

	// カスタムバリデーション登録
	v.RegisterValidation("filename", validateFileName)
	v.RegisterValidation("mimetype", validateMimeType)

	return &CustomValidator{validator: v}
}

// Validate はリクエストを検証します
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return cv.formatValidationErrors(err)
	}
	return nil
}

// formatValidationErrors はバリデーションエラーをフォーマットします
func (cv *CustomValidator) formatValidationErrors(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.NewValidationError(err.Error(), nil)
	}

	details := make([]apperror.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, apperror.FieldError{
			Field:   toSnakeCase(e.Field()),
			Message: getValidationMessage(e),
		})
	}

	return apperror.NewValidationError("validation failed", details)
}

// validateFileName はファイル名のバリデーション
func validateFileName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return false
	}

	// 禁止文字チェック: / \ : * ? " < > |
	invalidChars := regexp.MustCompile(`[/\\:*?"<>|]`)
	if invalidChars.MatchString(name) {
		return false
	}

	if name == "." || name == ".." {
		return false
	}

	return len(name) <= 255
}

// validateMimeType はMIMEタイプのバリデーション
func validateMimeType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return false
	}
	parsed, _, err := mime.ParseMediaType(value)
	return err == nil && strings.Contains(parsed, "/")
}

// getValidationMessage はバリデーションエラーメッセージを返します
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "value is too small (minimum: " + e.Param() + ")"
	case "max":
		return "value is too large (maximum: " + e.Param() + ")"
	case "uuid":
		return "must be a valid UUID"
	case "filename":
		return "must be a valid file name"
	case "mimetype":
		return "must be a valid MIME type"
	case "gt":
		return "must be greater than " + e.Param()
	default:
		return "invalid value"
	}
}

// toSnakeCase はフィールド名をsnake_caseへ変換します
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
