package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	RoleUser  = "user"
	RoleModel = "model"

	// MaxHistory 单次请求携带的历史消息上限
	MaxHistory = 10
	// MaxMessageRunes 单条消息长度上限
	MaxMessageRunes = 2000
)

var (
	ErrDisabled       = errors.New("chat consultant disabled")
	ErrMessageEmpty   = errors.New("chat message is empty")
	ErrMessageTooLong = errors.New("chat message too long")
	ErrEmptyAnswer    = errors.New("chat model returned empty answer")
)

const systemPrompt = `Ты консультант магазина автозапчастей RAM-US в Telegram.
Отвечай кратко и по-русски. Помогай подобрать запчасть по марке, модели, году и двигателю автомобиля,
объясняй различия аналогов и оригинала, подсказывай артикулы, если уверен.
Если вопрос не про автомобили или запчасти, вежливо откажись.
Не выдумывай цены и наличие: предложи посмотреть каталог или оставить предзаказ.`

// Message 对话消息
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Generator 文本生成后端
type Generator interface {
	Generate(ctx context.Context, system string, history []Message) (string, error)
}

// Vehicle 用户车库中的车辆，作为上下文提示
type Vehicle struct {
	Make   string
	Model  string
	Year   string
	Engine string
}

// Consultant 配件顾问
type Consultant struct {
	gen Generator
}

// NewConsultant 创建顾问；gen 为 nil 时顾问不可用
func NewConsultant(gen Generator) *Consultant {
	return &Consultant{gen: gen}
}

// Enabled 是否可用
func (c *Consultant) Enabled() bool {
	return c != nil && c.gen != nil
}

// Ask 基于历史与新问题生成回答
func (c *Consultant) Ask(ctx context.Context, history []Message, question string, vehicle *Vehicle) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrMessageEmpty
	}
	if utf8.RuneCountInString(question) > MaxMessageRunes {
		return "", ErrMessageTooLong
	}
	conversation := append(trimHistory(history), Message{Role: RoleUser, Text: question})
	answer, err := c.gen.Generate(ctx, buildSystemPrompt(vehicle), conversation)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	return answer, nil
}

func buildSystemPrompt(vehicle *Vehicle) string {
	if vehicle == nil || strings.TrimSpace(vehicle.Make) == "" {
		return systemPrompt
	}
	return fmt.Sprintf("%s\nАвтомобиль клиента: %s %s %s, двигатель %s.",
		systemPrompt, vehicle.Make, vehicle.Model, vehicle.Year, vehicle.Engine)
}

// trimHistory 丢弃空消息与未知角色，只保留最近 MaxHistory 条
func trimHistory(history []Message) []Message {
	out := make([]Message, 0, len(history))
	for _, msg := range history {
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			continue
		}
		if msg.Role != RoleUser && msg.Role != RoleModel {
			continue
		}
		if utf8.RuneCountInString(text) > MaxMessageRunes {
			text = string([]rune(text)[:MaxMessageRunes])
		}
		out = append(out, Message{Role: msg.Role, Text: text})
	}
	if len(out) > MaxHistory {
		out = out[len(out)-MaxHistory:]
	}
	return out
}
