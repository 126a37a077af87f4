package global

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validatorOnce sync.Once

// InitValidator khởi tạo validator và đăng ký các custom tag. Gọi nhiều lần vẫn an toàn.
func InitValidator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		// Dùng tên json trong thông báo lỗi
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("no_xss", validateNoXSS)
		_ = v.RegisterValidation("strong_password", validateStrongPassword)
		_ = v.RegisterValidation("object_id", validateObjectID)
		Validate = v
	})
	return Validate
}

var xssPatterns = []string{
	"<script",
	"javascript:",
	"onerror=",
	"onload=",
	"onclick=",
	"onmouseover=",
	"eval(",
	"document.cookie",
	"<iframe",
	"<object",
	"<embed",
}

// validateNoXSS chặn các chuỗi HTML/JS nguy hiểm trong text tự do
func validateNoXSS(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	for _, p := range xssPatterns {
		if strings.Contains(value, p) {
			return false
		}
	}
	return true
}

// validateStrongPassword yêu cầu tối thiểu 8 ký tự và ít nhất 3 trong 4 nhóm:
// chữ hoa, chữ thường, số, ký tự đặc biệt
func validateStrongPassword(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) < 8 {
		return false
	}

	var upper, lower, number, special bool
	for _, ch := range value {
		switch {
		case unicode.IsUpper(ch):
			upper = true
		case unicode.IsLower(ch):
			lower = true
		case unicode.IsNumber(ch):
			number = true
		case unicode.IsPunct(ch) || unicode.IsSymbol(ch):
			special = true
		}
	}

	n := 0
	for _, ok := range []bool{upper, lower, number, special} {
		if ok {
			n++
		}
	}
	return n >= 3
}

// validateObjectID kiểm tra chuỗi hex ObjectID
func validateObjectID(fl validator.FieldLevel) bool {
	return primitive.IsValidObjectID(fl.Field().String())
}
