package models

import (
	"database/sql/driver"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Money 卢布金额，统一保留 2 位小数（копейки）
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal 按копейки四舍五入
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(2)}
}

// NewMoneyFromString 解析 "1499.90"，空串视为 0
func NewMoneyFromString(raw string) (Money, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Money{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, err
	}
	return NewMoneyFromDecimal(d), nil
}

// Times 单价 × 数量
func (m Money) Times(quantity int) Money {
	return NewMoneyFromDecimal(m.Mul(decimal.NewFromInt(int64(quantity))))
}

// Plus 相加
func (m Money) Plus(other Money) Money {
	return NewMoneyFromDecimal(m.Add(other.Decimal))
}

// Equal 按两位精度比较，用于核对支付金额
func (m Money) Equal(other Money) bool {
	return m.Round(2).Equal(other.Round(2))
}

// String 固定两位小数
func (m Money) String() string {
	return m.Round(2).StringFixed(2)
}

// MarshalJSON 以字符串输出，避免前端浮点误差
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON 接受 "1499.90" 或 1499.9
func (m *Money) UnmarshalJSON(b []byte) error {
	raw := string(b)
	if raw == "null" || raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	parsed, err := NewMoneyFromString(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value 写库
func (m Money) Value() (driver.Value, error) {
	return m.Round(2).Value()
}

// Scan 读库
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	*m = NewMoneyFromDecimal(d)
	return nil
}
