package service

import (
	"context"
	"errors"

	"github.com/ram-us/internal/chat"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/metrics"
)

// ChatService AI 配件顾问，自动带上用户车库中的车辆
type ChatService struct {
	consultant *chat.Consultant
	garage     *GarageService
	metrics    *metrics.Metrics
}

// NewChatService 创建顾问服务
func NewChatService(consultant *chat.Consultant, garage *GarageService, m *metrics.Metrics) *ChatService {
	return &ChatService{consultant: consultant, garage: garage, metrics: m}
}

// Enabled 是否可用
func (s *ChatService) Enabled() bool {
	return s != nil && s.consultant.Enabled()
}

// Ask 回答用户问题
func (s *ChatService) Ask(ctx context.Context, userID uint, history []chat.Message, question string) (string, error) {
	if !s.Enabled() {
		return "", ErrChatDisabled
	}
	var vehicle *chat.Vehicle
	if s.garage != nil {
		if v := s.garage.Get(ctx, userID); v != nil {
			vehicle = &chat.Vehicle{Make: v.Make, Model: v.Model, Year: v.Year, Engine: v.Engine}
		}
	}
	answer, err := s.consultant.Ask(ctx, history, question, vehicle)
	switch {
	case err == nil:
		s.metrics.ObserveUpstream("gemini", "generate", nil)
		return answer, nil
	case errors.Is(err, chat.ErrMessageEmpty), errors.Is(err, chat.ErrMessageTooLong):
		return "", ErrInvalidInput
	case errors.Is(err, chat.ErrDisabled):
		return "", ErrChatDisabled
	default:
		s.metrics.ObserveUpstream("gemini", "generate", err)
		logger.Warnw("chat_ask_failed", "user_id", userID, "error", err)
		return "", ErrChatFailed
	}
}
