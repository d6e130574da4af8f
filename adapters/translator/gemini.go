package translator

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/satriahrh/penerjemah/domain/entities"
	"github.com/satriahrh/penerjemah/domain/repositories"
)

const (
	defaultModel          = "gemini-2.0-flash"
	defaultTemperature    = 0.2 // translation wants determinism, not creativity
	defaultTimeoutSeconds = 30
)

// GeminiTranslatorConfig holds configuration for the GeminiTranslator
// adapter.
// Required fields:
// - APIKey: Your Google AI API key
// Optional fields with defaults:
// - Model: The model ID to use (default: "gemini-2.0-flash")
// - Temperature: Sampling temperature between 0 and 1 (default: 0.2)
// - TimeoutSeconds: Per-request timeout (default: 30)
type GeminiTranslatorConfig struct {
	APIKey         string
	Model          string
	Temperature    float32
	TimeoutSeconds int
}

// NewGeminiTranslatorConfigFromEnv builds a config from environment
// variables, GEMINI_API_KEY being the only required one.
func NewGeminiTranslatorConfigFromEnv() GeminiTranslatorConfig {
	return GeminiTranslatorConfig{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Model:  os.Getenv("GEMINI_MODEL"),
	}
}

// ValidateGeminiTranslatorConfig validates the GeminiTranslatorConfig
func ValidateGeminiTranslatorConfig(config GeminiTranslatorConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("Google AI API key is required")
	}

	if config.Temperature != 0 && (config.Temperature < 0 || config.Temperature > 1) {
		return fmt.Errorf("temperature must be between 0 and 1, got %f", config.Temperature)
	}

	if config.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout must be positive, got %d", config.TimeoutSeconds)
	}

	return nil
}

// GeminiTranslator implements the Translator interface using Google's
// Gemini API
type GeminiTranslator struct {
	client         *genai.Client
	logger         *zap.Logger
	model          string
	temperature    float32
	timeoutSeconds int
}

var _ repositories.Translator = (*GeminiTranslator)(nil)

// NewGeminiTranslator creates a new Gemini translator instance
func NewGeminiTranslator(config GeminiTranslatorConfig, logger *zap.Logger) (*GeminiTranslator, error) {
	if err := ValidateGeminiTranslatorConfig(config); err != nil {
		return nil, err
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = defaultModel
		logger.Info("Using default model", zap.String("model", model))
	}

	temperature := config.Temperature
	if temperature == 0 {
		temperature = float32(defaultTemperature)
		logger.Info("Using default temperature", zap.Float32("temperature", temperature))
	}

	timeoutSeconds := config.TimeoutSeconds
	if timeoutSeconds == 0 {
		timeoutSeconds = defaultTimeoutSeconds
		logger.Info("Using default timeoutSeconds", zap.Int("timeoutSeconds", timeoutSeconds))
	}

	return &GeminiTranslator{
		client:         client,
		logger:         logger,
		model:          model,
		temperature:    temperature,
		timeoutSeconds: timeoutSeconds,
	}, nil
}

// Translate renders text into every target language, one model call per
// target so the result order matches the registration order exactly.
func (g *GeminiTranslator) Translate(ctx context.Context, text, sourceLanguage string, targetLanguages []string) ([]entities.Translation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	if len(targetLanguages) == 0 {
		return nil, fmt.Errorf("no target languages given")
	}

	translations := make([]entities.Translation, 0, len(targetLanguages))
	for _, target := range targetLanguages {
		translated, err := g.translateOne(ctx, text, sourceLanguage, target)
		if err != nil {
			return nil, fmt.Errorf("translation to %s failed: %w", target, err)
		}
		translations = append(translations, entities.Translation{
			Language: target,
			Text:     translated,
		})
	}

	return translations, nil
}

func (g *GeminiTranslator) translateOne(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error) {
	prompt := fmt.Sprintf(
		"Translate the following text from %s to %s. Reply with the translation only, no explanation.\n\n%s",
		sourceLanguage, targetLanguage, text)

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.timeoutSeconds)*time.Second)
	defer cancel()

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	var translated string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			translated += part.Text
		}
	}

	translated = strings.TrimSpace(translated)
	if translated == "" {
		return "", fmt.Errorf("empty translation")
	}

	g.logger.Debug("Translated segment",
		zap.String("sourceLanguage", sourceLanguage),
		zap.String("targetLanguage", targetLanguage),
		zap.Int("sourceLength", len(text)),
		zap.Int("translatedLength", len(translated)))

	return translated, nil
}
