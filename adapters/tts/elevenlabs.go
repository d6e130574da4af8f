package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/penerjemah/domain/repositories"
)

const (
	defaultAPIBaseURL   = "https://api.elevenlabs.io/v1"
	defaultVoiceID      = "21m00Tcm4TlvDq8ikWAM"   // Rachel voice
	defaultChunkSize    = 1024                     // Size of audio chunks to stream
	defaultOutputFormat = "pcm_24000"              // PCM format for real-time applications
	defaultModelID      = "eleven_multilingual_v2" // Default model ID
	defaultStability    = 0.5                      // Default voice stability
	defaultClarity      = 0.75                     // Default voice clarity/similarity_boost
)

// ElevenLabsConfig holds configuration for the ElevenLabsSynthesizer adapter.
// Required fields:
// - APIKey: Your Eleven Labs API key
// Optional fields with defaults:
// - APIBaseURL: The base URL for the Eleven Labs API (default: "https://api.elevenlabs.io/v1")
// - DefaultVoiceID: The voice used when a session did not select one (default: "21m00Tcm4TlvDq8ikWAM" - Rachel voice)
// - ModelID: The model ID to use (default: "eleven_multilingual_v2")
// - OutputFormat: The output format (default: "pcm_24000")
// - ChunkSize: The size of audio chunks to stream (default: 1024)
// - Stability: Voice stability value between 0 and 1 (default: 0.5)
// - Clarity: Voice clarity/similarity boost value between 0 and 1 (default: 0.75)
type ElevenLabsConfig struct {
	APIKey         string
	APIBaseURL     string
	DefaultVoiceID string
	ModelID        string
	OutputFormat   string
	ChunkSize      int
	Stability      float64
	Clarity        float64
}

// ElevenLabsSynthesizer implements SpeechSynthesizer using Eleven Labs API.
// The voice is selected per call: it comes from the translation session's
// configuration, not from the adapter.
type ElevenLabsSynthesizer struct {
	apiKey         string
	apiBaseURL     string
	defaultVoiceID string
	modelID        string
	outputFormat   string
	chunkSize      int
	stability      float64
	clarity        float64
	logger         *zap.Logger
}

// Ensure ElevenLabsSynthesizer implements the SpeechSynthesizer interface
var _ repositories.SpeechSynthesizer = (*ElevenLabsSynthesizer)(nil)

// ElevenLabsVoiceSettings represents voice settings for Eleven Labs API
type ElevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style,omitempty"`
	UseSpeakerBoost bool    `json:"use_speaker_boost,omitempty"`
}

// ElevenLabsRequest represents the request payload for Eleven Labs TTS API
type ElevenLabsRequest struct {
	Text                   string                  `json:"text"`
	ModelID                string                  `json:"model_id"`
	LanguageCode           string                  `json:"language_code,omitempty"`
	VoiceSettings          ElevenLabsVoiceSettings `json:"voice_settings"`
	ApplyTextNormalization string                  `json:"apply_text_normalization,omitempty"`
}

// ValidateElevenLabsConfig validates the ElevenLabsConfig
func ValidateElevenLabsConfig(config ElevenLabsConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("eleven labs API key is required")
	}

	if config.Stability != 0 && (config.Stability < 0 || config.Stability > 1) {
		return fmt.Errorf("stability must be between 0 and 1, got %f", config.Stability)
	}

	if config.Clarity != 0 && (config.Clarity < 0 || config.Clarity > 1) {
		return fmt.Errorf("clarity must be between 0 and 1, got %f", config.Clarity)
	}

	if config.ChunkSize < 0 {
		return fmt.Errorf("chunk size must be positive, got %d", config.ChunkSize)
	}

	return nil
}

// NewElevenLabsSynthesizer creates a new Eleven Labs synthesizer instance
func NewElevenLabsSynthesizer(config ElevenLabsConfig, logger *zap.Logger) (*ElevenLabsSynthesizer, error) {
	if err := ValidateElevenLabsConfig(config); err != nil {
		return nil, err
	}

	apiBaseURL := config.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
		logger.Info("Using default API base URL", zap.String("apiBaseURL", apiBaseURL))
	}

	voiceID := config.DefaultVoiceID
	if voiceID == "" {
		voiceID = defaultVoiceID
		logger.Info("Using default voice ID", zap.String("voiceID", voiceID))
	}

	modelID := config.ModelID
	if modelID == "" {
		modelID = defaultModelID
		logger.Info("Using default model ID", zap.String("modelID", modelID))
	}

	outputFormat := config.OutputFormat
	if outputFormat == "" {
		outputFormat = defaultOutputFormat
		logger.Info("Using default output format", zap.String("outputFormat", outputFormat))
	}

	chunkSize := config.ChunkSize
	if chunkSize == 0 {
		chunkSize = defaultChunkSize
		logger.Info("Using default chunk size", zap.Int("chunkSize", chunkSize))
	}

	stability := config.Stability
	if stability == 0 {
		stability = defaultStability
		logger.Info("Using default stability", zap.Float64("stability", stability))
	}

	clarity := config.Clarity
	if clarity == 0 {
		clarity = defaultClarity
		logger.Info("Using default clarity", zap.Float64("clarity", clarity))
	}

	return &ElevenLabsSynthesizer{
		apiKey:         config.APIKey,
		apiBaseURL:     apiBaseURL,
		defaultVoiceID: voiceID,
		modelID:        modelID,
		outputFormat:   outputFormat,
		chunkSize:      chunkSize,
		stability:      stability,
		clarity:        clarity,
		logger:         logger,
	}, nil
}

// Synthesize speaks text with the given voice using Eleven Labs API,
// streaming audio chunks on the returned channel until it is closed.
// An empty voiceName falls back to the adapter's default voice.
func (e *ElevenLabsSynthesizer) Synthesize(ctx context.Context, text, voiceName string) (<-chan []byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	voice := voiceName
	if voice == "" {
		voice = e.defaultVoiceID
	}

	e.logger.Info("Synthesizing translated text",
		zap.String("voice", voice),
		zap.String("modelID", e.modelID),
		zap.Int("textLength", len(text)))

	request := ElevenLabsRequest{
		Text:                   text,
		ModelID:                e.modelID,
		ApplyTextNormalization: "auto",
		VoiceSettings: ElevenLabsVoiceSettings{
			Stability:       e.stability,
			SimilarityBoost: e.clarity,
			Style:           0.0,
			UseSpeakerBoost: true,
		},
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s/stream?output_format=%s&enable_logging=false",
		e.apiBaseURL, voice, e.outputFormat)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	// PCM format requires audio/pcm accept header
	acceptHeader := "audio/mpeg"
	if strings.HasPrefix(e.outputFormat, "pcm") {
		acceptHeader = "audio/pcm"
	}
	httpReq.Header.Set("Accept", acceptHeader)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", e.apiKey)

	client := &http.Client{
		Timeout: 60 * time.Second, // generous timeout for real-time streaming
	}

	audioChan := make(chan []byte, 10)

	go func() {
		defer close(audioChan)

		e.logger.Debug("Sending request to Eleven Labs API", zap.String("url", url))

		resp, err := client.Do(httpReq)
		if err != nil {
			e.logger.Error("Failed to execute HTTP request", zap.Error(err))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			errorBody, _ := io.ReadAll(resp.Body)
			e.logger.Error("Eleven Labs API returned error",
				zap.Int("statusCode", resp.StatusCode),
				zap.String("response", string(errorBody)))
			return
		}

		// Stream the audio data in chunks
		buffer := make([]byte, e.chunkSize)
		totalBytes := 0
		chunkCount := 0

		for {
			select {
			case <-ctx.Done():
				e.logger.Warn("Context cancelled while streaming audio data")
				return
			default:
				n, err := resp.Body.Read(buffer)
				if n > 0 {
					totalBytes += n
					chunkCount++

					chunk := make([]byte, n)
					copy(chunk, buffer[:n])

					select {
					case audioChan <- chunk:
					case <-ctx.Done():
						e.logger.Warn("Context cancelled while sending audio chunk")
						return
					}
				}

				if err == io.EOF {
					e.logger.Info("Finished streaming audio data",
						zap.Int("totalChunks", chunkCount),
						zap.Int("totalBytes", totalBytes))
					return
				}

				if err != nil {
					e.logger.Error("Error reading response body", zap.Error(err))
					return
				}
			}
		}
	}()

	return audioChan, nil
}

// Voices retrieves available voices from Eleven Labs API
func (e *ElevenLabsSynthesizer) Voices(ctx context.Context) ([]map[string]interface{}, error) {
	url := fmt.Sprintf("%s/voices", e.apiBaseURL)

	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("xi-api-key", e.apiKey)

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned error %d: %s", resp.StatusCode, string(errorBody))
	}

	var voicesResponse struct {
		Voices []map[string]interface{} `json:"voices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&voicesResponse); err != nil {
		return nil, fmt.Errorf("failed to decode voices response: %w", err)
	}

	return voicesResponse.Voices, nil
}

// NewElevenLabsConfigFromEnv creates a new ElevenLabsConfig from environment variables
func NewElevenLabsConfigFromEnv() ElevenLabsConfig {
	config := ElevenLabsConfig{
		APIKey:         os.Getenv("ELEVEN_LABS_API_KEY"),
		APIBaseURL:     os.Getenv("ELEVEN_LABS_API_BASE_URL"),
		DefaultVoiceID: os.Getenv("ELEVEN_LABS_VOICE_ID"),
		ModelID:        os.Getenv("ELEVEN_LABS_MODEL_ID"),
		OutputFormat:   os.Getenv("ELEVEN_LABS_OUTPUT_FORMAT"),
	}

	if chunkSizeStr := os.Getenv("ELEVEN_LABS_CHUNK_SIZE"); chunkSizeStr != "" {
		if chunkSize, err := strconv.Atoi(chunkSizeStr); err == nil && chunkSize > 0 {
			config.ChunkSize = chunkSize
		}
	}

	if stabilityStr := os.Getenv("ELEVEN_LABS_STABILITY"); stabilityStr != "" {
		if stability, err := strconv.ParseFloat(stabilityStr, 64); err == nil && stability >= 0 && stability <= 1 {
			config.Stability = stability
		}
	}

	if clarityStr := os.Getenv("ELEVEN_LABS_CLARITY"); clarityStr != "" {
		if clarity, err := strconv.ParseFloat(clarityStr, 64); err == nil && clarity >= 0 && clarity <= 1 {
			config.Clarity = clarity
		}
	}

	return config
}
