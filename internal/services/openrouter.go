package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Ananth-NQI/kilimo-smart/internal/config"
	"github.com/Ananth-NQI/kilimo-smart/internal/models"
)

type chatCompleter interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

var _ Advisor = (*OpenRouterAdvisor)(nil)

// OpenRouterAdvisor implements Advisor through an OpenAI-compatible
// OpenRouter endpoint.
type OpenRouterAdvisor struct {
	completions chatCompleter
	model       string
	temperature float64
	timeout     time.Duration
}

func NewOpenRouterAdvisor(cfg config.RouterConfig, timeout time.Duration) *OpenRouterAdvisor {
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
	}
	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.SiteURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.SiteURL))
	}
	if cfg.SiteName != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.SiteName))
	}

	client := openai.NewClient(opts...)
	return &OpenRouterAdvisor{
		completions: &client.Chat.Completions,
		model:       strings.TrimSpace(cfg.Model),
		temperature: float64(cfg.Temperature),
		timeout:     timeout,
	}
}

func (o *OpenRouterAdvisor) Generate(ctx context.Context, history []models.Turn, prompt string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(Persona))
	for _, turn := range history {
		if turn.Role == models.RoleModel {
			messages = append(messages, openai.AssistantMessage(turn.Text))
		} else {
			messages = append(messages, openai.UserMessage(turn.Text))
		}
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := o.completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.model),
		Messages:    messages,
		Temperature: openai.Float(o.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openrouter chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyAdvice
	}
	return cleanAdvice(resp.Choices[0].Message.Content)
}
