package tts

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/penerjemah/domain/repositories"
)

// MockSynthesizer is a placeholder implementation for speech synthesis
type MockSynthesizer struct {
	logger *zap.Logger
}

// NewMockSynthesizer creates a new mock speech synthesizer
func NewMockSynthesizer(logger *zap.Logger) repositories.SpeechSynthesizer {
	return &MockSynthesizer{
		logger: logger,
	}
}

// Synthesize emits a few fake PCM chunks and closes the channel
func (m *MockSynthesizer) Synthesize(ctx context.Context, text, voiceName string) (<-chan []byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	m.logger.Info("Mock synthesizing",
		zap.String("voice", voiceName),
		zap.Int("textLength", len(text)))

	audioChan := make(chan []byte, 4)
	go func() {
		defer close(audioChan)
		for i := 0; i < 4; i++ {
			select {
			case audioChan <- []byte{0x00, 0x01, 0x02, 0x03}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return audioChan, nil
}
