package storefront

import "strings"

// digitsOnly 提取数字
func digitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhone 归一化为 11 位（7XXXXXXXXXX）；10 位号码补 7，首位 8 改为 7
func NormalizePhone(raw string) string {
	digits := digitsOnly(raw)
	if len(digits) == 10 {
		digits = "7" + digits
	}
	if len(digits) > 0 && digits[0] == '8' {
		digits = "7" + digits[1:]
	}
	if len(digits) > 11 {
		digits = digits[:11]
	}
	return digits
}

// IsValidPhone 数字部分恰好 11 位
func IsValidPhone(raw string) bool {
	return len(digitsOnly(raw)) == 11
}

// FormatPhone 输出 +7 (999) 123-45-67，位数不足时按已有位数渐进格式化
func FormatPhone(raw string) string {
	digits := NormalizePhone(raw)
	if digits == "" {
		return ""
	}
	rest := digits[1:]
	var b strings.Builder
	b.WriteString("+7")
	if len(rest) == 0 {
		return b.String()
	}
	b.WriteString(" (")
	b.WriteString(rest[:min(3, len(rest))])
	if len(rest) < 3 {
		return b.String()
	}
	b.WriteString(")")
	if len(rest) > 3 {
		b.WriteString(" ")
		b.WriteString(rest[3:min(6, len(rest))])
	}
	if len(rest) > 6 {
		b.WriteString("-")
		b.WriteString(rest[6:min(8, len(rest))])
	}
	if len(rest) > 8 {
		b.WriteString("-")
		b.WriteString(rest[8:])
	}
	return b.String()
}
