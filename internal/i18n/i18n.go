package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleRU      = "ru"
	LocaleEN      = "en"
	DefaultLocale = LocaleRU
)

// ResolveLocale 解析请求语言：上下文 > ?lang > X-Locale > Accept-Language > 默认俄语
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if value, ok := c.Get("locale"); ok {
		if locale, ok := value.(string); ok {
			if normalized := normalize(locale); normalized != "" {
				return normalized
			}
		}
	}
	candidates := []string{c.Query("lang"), c.GetHeader("X-Locale")}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		candidates = append(candidates, strings.SplitN(part, ";", 2)[0])
	}
	for _, candidate := range candidates {
		if normalized := normalize(candidate); normalized != "" {
			return normalized
		}
	}
	return DefaultLocale
}

func normalize(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	switch {
	case strings.HasPrefix(locale, LocaleRU):
		return LocaleRU
	case strings.HasPrefix(locale, LocaleEN):
		return LocaleEN
	default:
		return ""
	}
}

// T 翻译消息，缺失时回退到俄语，再缺失返回 key 本身
func T(locale, key string) string {
	if messages, ok := catalog[normalize(locale)]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
