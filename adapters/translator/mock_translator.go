package translator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/penerjemah/domain/entities"
	"github.com/satriahrh/penerjemah/domain/repositories"
)

// MockTranslator is a placeholder implementation for text translation
type MockTranslator struct {
	logger *zap.Logger
}

// NewMockTranslator creates a new mock translator
func NewMockTranslator(logger *zap.Logger) repositories.Translator {
	return &MockTranslator{
		logger: logger,
	}
}

// Translate tags the source text with each target language, preserving
// target order so pipeline tests can assert ordering
func (m *MockTranslator) Translate(ctx context.Context, text, sourceLanguage string, targetLanguages []string) ([]entities.Translation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	m.logger.Info("Mock translating",
		zap.String("sourceLanguage", sourceLanguage),
		zap.Strings("targetLanguages", targetLanguages))

	translations := make([]entities.Translation, 0, len(targetLanguages))
	for _, target := range targetLanguages {
		translations = append(translations, entities.Translation{
			Language: target,
			Text:     fmt.Sprintf("[%s] %s", target, text),
		})
	}

	return translations, nil
}
