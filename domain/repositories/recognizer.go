package repositories

import "context"

// SpeechRecognizer abstracts speech recognition services
type SpeechRecognizer interface {
	// Recognize converts a complete utterance to text
	Recognize(ctx context.Context, audioData []byte, config AudioConfig) (string, error)
	// InitRecognizeStreaming initializes a streaming recognition session
	InitRecognizeStreaming(ctx context.Context, config AudioConfig) (RecognitionStream, error)
}

// AudioConfig represents audio configuration for speech recognition.
// Language is the recognition language from the session configuration.
type AudioConfig struct {
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"`
	Language   string `json:"language"`
}

// RecognitionStream is an in-flight streaming recognition
type RecognitionStream interface {
	Stream(data []byte) error
	End() (string, error)
}
