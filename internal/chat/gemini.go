package chat

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// GeminiGenerator 基于 Google GenAI 的生成后端
type GeminiGenerator struct {
	client          *genai.Client
	model           string
	maxOutputTokens int32
}

// NewGeminiGenerator 创建 Gemini 后端
func NewGeminiGenerator(ctx context.Context, apiKey, model string, maxOutputTokens int) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("genai api key is required")
	}
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiGenerator{
		client:          client,
		model:           model,
		maxOutputTokens: int32(maxOutputTokens),
	}, nil
}

// Generate 生成回答
func (g *GeminiGenerator) Generate(ctx context.Context, system string, history []Message) (string, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		var role genai.Role = genai.RoleUser
		if msg.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Text, role))
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.3),
	}
	if g.maxOutputTokens > 0 {
		cfg.MaxOutputTokens = g.maxOutputTokens
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("genai generate failed: %w", err)
	}
	return resp.Text(), nil
}
