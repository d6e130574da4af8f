package stt

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/satriahrh/penerjemah/domain/repositories"
)

// MockRecognizer is a placeholder implementation for speech recognition
type MockRecognizer struct {
	logger *zap.Logger
}

// NewMockRecognizer creates a new mock speech recognizer
func NewMockRecognizer(logger *zap.Logger) repositories.SpeechRecognizer {
	return &MockRecognizer{
		logger: logger,
	}
}

// InitRecognizeStreaming creates a new mock streaming session
func (m *MockRecognizer) InitRecognizeStreaming(ctx context.Context, config repositories.AudioConfig) (repositories.RecognitionStream, error) {
	m.logger.Info("Initializing mock streaming recognition",
		zap.Int("sampleRate", config.SampleRate),
		zap.String("encoding", config.Encoding),
		zap.String("language", config.Language))

	return &mockRecognitionStream{logger: m.logger}, nil
}

// Recognize implements mock non-streaming recognition
func (m *MockRecognizer) Recognize(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	stream, err := m.InitRecognizeStreaming(ctx, config)
	if err != nil {
		return "", err
	}
	if err := stream.Stream(audioData); err != nil {
		return "", err
	}
	return stream.End()
}

type mockRecognitionStream struct {
	logger        *zap.Logger
	audioReceived bool
	transcription string
}

// Stream implements mock streaming audio processing
func (m *mockRecognitionStream) Stream(data []byte) error {
	m.logger.Info("Processing mock audio chunk", zap.Int("size", len(data)))

	if len(data) > 0 {
		m.audioReceived = true
		// Mock different utterances based on cumulative audio size
		switch {
		case len(data) > 10000:
			m.transcription = "Selamat pagi, apakah Anda bisa membantu saya menemukan stasiun kereta?"
		case len(data) > 5000:
			m.transcription = "Terima kasih banyak atas bantuannya."
		case len(data) > 1000:
			m.transcription = "Selamat pagi!"
		default:
			m.transcription = "Halo"
		}
	}

	return nil
}

// End finishes the mock stream and returns the transcription
func (m *mockRecognitionStream) End() (string, error) {
	if !m.audioReceived {
		return "", fmt.Errorf("no audio data received")
	}
	return m.transcription, nil
}
