package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/Ananth-NQI/kilimo-smart/internal/config"
	"github.com/Ananth-NQI/kilimo-smart/internal/models"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var _ Advisor = (*GeminiAdvisor)(nil)

// GeminiAdvisor implements Advisor with the Gemini API.
type GeminiAdvisor struct {
	models    contentGenerator
	modelName string
	timeout   time.Duration
	config    *genai.GenerateContentConfig
}

// NewGeminiAdvisor creates a Gemini client bound to the Kilimo Smart persona.
func NewGeminiAdvisor(ctx context.Context, cfg config.GeminiConfig, timeout time.Duration) (*GeminiAdvisor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return newGeminiAdvisor(client.Models, cfg.Model, timeout), nil
}

func newGeminiAdvisor(models contentGenerator, modelName string, timeout time.Duration) *GeminiAdvisor {
	return &GeminiAdvisor{
		models:    models,
		modelName: modelName,
		timeout:   timeout,
		config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(Persona, genai.RoleUser),
			SafetySettings:    permissiveSafety(),
		},
	}
}

// permissiveSafety disables blocking for every adjustable harm category.
func permissiveSafety() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockNone,
		})
	}
	return settings
}

func (g *GeminiAdvisor) Generate(ctx context.Context, history []models.Turn, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == models.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	res, err := g.models.GenerateContent(ctx, g.modelName, contents, g.config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return cleanAdvice(res.Text())
}
