package shared

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/ram-us/internal/storefront"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// PhoneTag 俄罗斯手机号校验标签
const PhoneTag = "ru_phone"

var registerOnce sync.Once

// RegisterValidators 在 gin 绑定引擎上注册自定义校验规则（幂等）。
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation(PhoneTag, func(fl validator.FieldLevel) bool {
			return storefront.IsValidPhone(fl.Field().String())
		})
	})
}

// BindErrorKey 将绑定错误映射为 i18n key。
func BindErrorKey(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == PhoneTag {
				return "error.phone_invalid"
			}
		}
	}
	return "error.bad_request"
}
