package domain

// AudioChunkMessage represents an incoming audio chunk from a device
type AudioChunkMessage struct {
	Type       string `json:"type"`
	DeviceID   string `json:"device_id"`
	SessionID  string `json:"session_id"`
	AudioData  string `json:"audio_data"` // base64 encoded
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"`
	Timestamp  string `json:"timestamp"`
	ChunkSeq   int    `json:"chunk_sequence"`
	IsFinal    bool   `json:"is_final"`
}

// TranslationSegmentMessage represents one recognized utterance with its
// translations, in target-language registration order
type TranslationSegmentMessage struct {
	Type           string           `json:"type"`
	SessionID      string           `json:"session_id"`
	Sequence       int              `json:"sequence"`
	SourceLanguage string           `json:"source_language"`
	SourceText     string           `json:"source_text"`
	Translations   []TranslatedText `json:"translations"`
	Timestamp      string           `json:"timestamp"`
}

// TranslatedText is one translated rendering inside a segment message
type TranslatedText struct {
	Language string `json:"language"`
	Text     string `json:"text"`
}

// SynthesisMessage carries synthesized audio for a translated segment
type SynthesisMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Sequence  int    `json:"sequence"`
	Language  string `json:"language"`
	VoiceName string `json:"voice_name"`
	AudioData string `json:"audio_data"` // base64 encoded
	Timestamp string `json:"timestamp"`
}
