package repositories

import "context"

// SpeechSynthesizer abstracts text-to-speech services for synthesized
// translation output
type SpeechSynthesizer interface {
	// Synthesize speaks text with the given voice, streaming audio chunks
	// until the channel is closed
	Synthesize(ctx context.Context, text, voiceName string) (<-chan []byte, error)
}
