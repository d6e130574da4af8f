package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	// Device to server
	MessageTypeSessionStart   MessageType = "session_start"
	MessageTypeListeningStart MessageType = "listening_start"
	MessageTypeListeningEnd   MessageType = "listening_end"
	MessageTypeAudioChunk     MessageType = "audio_chunk"
	MessageTypeSessionEnd     MessageType = "session_end"
	MessageTypePing           MessageType = "ping"

	// Server to device
	MessageTypeSessionStarted     MessageType = "session_started"
	MessageTypeListeningStarted   MessageType = "listening_started"
	MessageTypeTranslationSegment MessageType = "translation_segment"
	MessageTypeSynthesisStart     MessageType = "synthesis_start"
	MessageTypeSynthesisEnd       MessageType = "synthesis_end"
	MessageTypeSessionEnded       MessageType = "session_ended"
	MessageTypePong               MessageType = "pong"
	MessageTypeError              MessageType = "error"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type" validate:"required"`
	Timestamp string      `json:"timestamp"`
	MessageID string      `json:"message_id,omitempty"`
}

// SessionStartMessage opens a translation session. The settings are
// captured once; later session_start messages replace the session rather
// than mutate it.
type SessionStartMessage struct {
	BaseMessage
	RecognitionLanguage string   `json:"recognition_language" validate:"required"`
	TargetLanguages     []string `json:"target_languages" validate:"required,min=1"`
	VoiceName           string   `json:"voice_name,omitempty"`
	SampleRate          int      `json:"sample_rate,omitempty"`
	Encoding            string   `json:"encoding,omitempty"`
}

// ListeningStartMessage opens a streaming utterance. Binary frames that
// follow carry the audio until listening_end.
type ListeningStartMessage struct {
	BaseMessage
	SampleRate int    `json:"sample_rate,omitempty"`
	Encoding   string `json:"encoding,omitempty"`
}

// ListeningEndMessage closes the current streaming utterance
type ListeningEndMessage struct {
	BaseMessage
}

// AudioChunkMessage carries a complete utterance in one message, for
// devices that do not stream
type AudioChunkMessage struct {
	BaseMessage
	SessionID  string `json:"session_id"`
	AudioData  string `json:"audio_data" validate:"required"` // base64 encoded
	SampleRate int    `json:"sample_rate" validate:"required,min=8000,max=48000"`
	Encoding   string `json:"encoding" validate:"required"`
	ChunkSeq   int    `json:"chunk_sequence" validate:"min=0"`
	IsFinal    bool   `json:"is_final"`
}

// SessionEndMessage closes the translation session
type SessionEndMessage struct {
	BaseMessage
}

// PingMessage represents a ping message for connection health check
type PingMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// PongMessage represents a pong response
type PongMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SessionStartedMessage acknowledges a new session
type SessionStartedMessage struct {
	BaseMessage
	SessionID           string   `json:"session_id"`
	RecognitionLanguage string   `json:"recognition_language"`
	TargetLanguages     []string `json:"target_languages"`
	SynthesisEnabled    bool     `json:"synthesis_enabled"`
}

// SynthesisStartMessage announces that binary synthesized audio frames
// follow, until synthesis_end
type SynthesisStartMessage struct {
	BaseMessage
	SessionID string `json:"session_id"`
	Sequence  int    `json:"sequence"`
	Language  string `json:"language"`
	VoiceName string `json:"voice_name"`
}

// audioEncodings are the encodings the recognizer accepts
var audioEncodings = map[string]bool{
	"LINEAR16": true, "WAV": true, "FLAC": true, "MULAW": true,
	"OGG_OPUS": true, "WEBM_OPUS": true,
}

// MessageValidator provides validation for WebSocket messages
type MessageValidator struct{}

// NewMessageValidator creates a new message validator
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{}
}

// ValidateMessage validates an incoming message and returns it as the
// concrete message type
func (v *MessageValidator) ValidateMessage(messageBytes []byte) (interface{}, error) {
	var base BaseMessage
	if err := json.Unmarshal(messageBytes, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	switch base.Type {
	case MessageTypeSessionStart:
		var msg SessionStartMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid session start message: %w", err)
		}
		if err := v.validateSessionStart(&msg); err != nil {
			return nil, err
		}
		return &msg, nil

	case MessageTypeListeningStart:
		var msg ListeningStartMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid listening start message: %w", err)
		}
		if msg.Encoding != "" && !audioEncodings[msg.Encoding] {
			return nil, fmt.Errorf("unsupported encoding: %s", msg.Encoding)
		}
		return &msg, nil

	case MessageTypeListeningEnd:
		var msg ListeningEndMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid listening end message: %w", err)
		}
		return &msg, nil

	case MessageTypeAudioChunk:
		var msg AudioChunkMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid audio chunk message: %w", err)
		}
		if err := v.validateAudioChunk(&msg); err != nil {
			return nil, err
		}
		return &msg, nil

	case MessageTypeSessionEnd:
		var msg SessionEndMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid session end message: %w", err)
		}
		return &msg, nil

	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid ping message: %w", err)
		}
		return &msg, nil

	default:
		return nil, fmt.Errorf("unsupported message type: %s", base.Type)
	}
}

// validateSessionStart validates session start message fields
func (v *MessageValidator) validateSessionStart(msg *SessionStartMessage) error {
	if msg.RecognitionLanguage == "" {
		return fmt.Errorf("recognition_language is required")
	}
	if len(msg.TargetLanguages) == 0 {
		return fmt.Errorf("at least one target language is required")
	}
	for _, lang := range msg.TargetLanguages {
		if lang == "" {
			return fmt.Errorf("target language must not be empty")
		}
	}
	if msg.Encoding != "" && !audioEncodings[msg.Encoding] {
		return fmt.Errorf("unsupported encoding: %s", msg.Encoding)
	}
	return nil
}

// validateAudioChunk validates audio chunk message fields
func (v *MessageValidator) validateAudioChunk(msg *AudioChunkMessage) error {
	if msg.AudioData == "" {
		return fmt.Errorf("audio_data is required")
	}
	if msg.SampleRate < 8000 || msg.SampleRate > 48000 {
		return fmt.Errorf("sample_rate must be between 8000 and 48000")
	}
	if msg.Encoding == "" {
		return fmt.Errorf("encoding is required")
	}
	if !audioEncodings[msg.Encoding] {
		return fmt.Errorf("unsupported encoding: %s", msg.Encoding)
	}
	return nil
}

// CreateErrorMessage creates a standardized error message
func CreateErrorMessage(code, message, details string) *ErrorMessage {
	return &ErrorMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeError,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Code:    code,
		Message: message,
		Details: details,
	}
}

// CreatePongMessage creates a pong response message
func CreatePongMessage(data string) *PongMessage {
	return &PongMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypePong,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Data: data,
	}
}
