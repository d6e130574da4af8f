package translator

import (
	"context"
	"os"
	"testing"

	"go.uber.org/zap"
)

func TestNewGeminiTranslatorConfigFromEnv(t *testing.T) {
	os.Setenv("GEMINI_API_KEY", "test-api-key")
	os.Setenv("GEMINI_MODEL", "gemini-2.0-pro")
	defer os.Unsetenv("GEMINI_API_KEY")
	defer os.Unsetenv("GEMINI_MODEL")

	config := NewGeminiTranslatorConfigFromEnv()

	if config.APIKey != "test-api-key" {
		t.Errorf("Expected APIKey test-api-key, got %s", config.APIKey)
	}
	if config.Model != "gemini-2.0-pro" {
		t.Errorf("Expected Model gemini-2.0-pro, got %s", config.Model)
	}
}

func TestValidateGeminiTranslatorConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  GeminiTranslatorConfig
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  GeminiTranslatorConfig{APIKey: "key"},
			wantErr: false,
		},
		{
			name:    "missing API key",
			config:  GeminiTranslatorConfig{},
			wantErr: true,
		},
		{
			name:    "temperature out of range",
			config:  GeminiTranslatorConfig{APIKey: "key", Temperature: 1.5},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			config:  GeminiTranslatorConfig{APIKey: "key", TimeoutSeconds: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGeminiTranslatorConfig(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGeminiTranslatorConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMockTranslatorPreservesOrder(t *testing.T) {
	mock := NewMockTranslator(zap.NewNop())

	targets := []string{"en", "ja", "en"}
	translations, err := mock.Translate(context.Background(), "halo dunia", "id-ID", targets)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if len(translations) != len(targets) {
		t.Fatalf("Expected %d translations, got %d", len(targets), len(translations))
	}
	for i, target := range targets {
		if translations[i].Language != target {
			t.Errorf("Translation %d: expected language %s, got %s", i, target, translations[i].Language)
		}
		if translations[i].Text == "" {
			t.Errorf("Translation %d: expected non-empty text", i)
		}
	}
}

func TestMockTranslatorRejectsEmptyText(t *testing.T) {
	mock := NewMockTranslator(zap.NewNop())

	if _, err := mock.Translate(context.Background(), "   ", "id-ID", []string{"en"}); err == nil {
		t.Error("Expected error for blank text")
	}
}
