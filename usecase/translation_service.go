package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/penerjemah/domain"
	"github.com/satriahrh/penerjemah/domain/entities"
	"github.com/satriahrh/penerjemah/domain/repositories"
	"github.com/satriahrh/penerjemah/speech"
)

// TranslationService orchestrates the translation flow: recognize an
// utterance, translate it into every registered target language, and
// synthesize the spoken translation when the session asked for one.
type TranslationService struct {
	recognizer  repositories.SpeechRecognizer
	translator  repositories.Translator
	synthesizer repositories.SpeechSynthesizer
	sessions    repositories.SessionRepository
	logger      *zap.Logger
}

// NewTranslationService creates a new translation service
func NewTranslationService(
	recognizer repositories.SpeechRecognizer,
	translator repositories.Translator,
	synthesizer repositories.SpeechSynthesizer,
	sessions repositories.SessionRepository,
	logger *zap.Logger,
) *TranslationService {
	return &TranslationService{
		recognizer:  recognizer,
		translator:  translator,
		synthesizer: synthesizer,
		sessions:    sessions,
		logger:      logger,
	}
}

// StartSession opens a translation session for a device. The settings are
// copied out of the configuration at this moment: changing the
// configuration afterwards, including refreshing its authorization token,
// does not affect the running session.
func (s *TranslationService) StartSession(ctx context.Context, deviceID string, config *speech.TranslationConfig) (*entities.Session, error) {
	settings := entities.SessionSettings{
		RecognitionLanguage: config.SpeechRecognitionLanguage(),
		TargetLanguages:     config.TargetLanguages(),
		VoiceName:           config.VoiceName(),
		Region:              config.Region(),
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session settings: %w", err)
	}

	session := entities.NewSession(deviceID, settings)
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Info("Translation session started",
		zap.String("sessionID", session.ID),
		zap.String("deviceID", deviceID),
		zap.String("recognitionLanguage", settings.RecognitionLanguage),
		zap.Strings("targetLanguages", settings.TargetLanguages),
		zap.Bool("synthesis", settings.SynthesisEnabled()))

	return session, nil
}

// BeginUtterance opens a streaming recognition for the next utterance in
// the session
func (s *TranslationService) BeginUtterance(ctx context.Context, session *entities.Session, sampleRate int, encoding string) (repositories.RecognitionStream, error) {
	if session.IsExpired() {
		return nil, fmt.Errorf("session %s is no longer active", session.ID)
	}

	return s.recognizer.InitRecognizeStreaming(ctx, repositories.AudioConfig{
		SampleRate: sampleRate,
		Encoding:   encoding,
		Language:   session.Settings.RecognitionLanguage,
	})
}

// CompleteUtterance finishes a streaming recognition, translates the
// recognized text into each target language in registration order, and
// appends the segment to the session
func (s *TranslationService) CompleteUtterance(ctx context.Context, session *entities.Session, stream repositories.RecognitionStream) (*entities.Segment, error) {
	transcription, err := stream.End()
	if err != nil {
		return nil, fmt.Errorf("recognition failed: %w", err)
	}

	return s.translateAndStore(ctx, session, transcription)
}

// ProcessAudioChunk handles the non-streaming path: a single complete
// utterance delivered as one base64-encoded chunk
func (s *TranslationService) ProcessAudioChunk(ctx context.Context, session *entities.Session, msg *domain.AudioChunkMessage) (*domain.TranslationSegmentMessage, error) {
	audioData, err := base64.StdEncoding.DecodeString(msg.AudioData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio data: %w", err)
	}

	if session.IsExpired() {
		return nil, fmt.Errorf("session %s is no longer active", session.ID)
	}

	transcription, err := s.recognizer.Recognize(ctx, audioData, repositories.AudioConfig{
		SampleRate: msg.SampleRate,
		Encoding:   msg.Encoding,
		Language:   session.Settings.RecognitionLanguage,
	})
	if err != nil {
		return nil, fmt.Errorf("recognition failed: %w", err)
	}

	segment, err := s.translateAndStore(ctx, session, transcription)
	if err != nil {
		return nil, err
	}

	return SegmentMessage(session, segment), nil
}

func (s *TranslationService) translateAndStore(ctx context.Context, session *entities.Session, transcription string) (*entities.Segment, error) {
	if strings.TrimSpace(transcription) == "" {
		return nil, fmt.Errorf("nothing recognized")
	}

	translations, err := s.translator.Translate(ctx, transcription,
		session.Settings.RecognitionLanguage, session.Settings.TargetLanguages)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	segment := entities.NewSegment(session.Settings.RecognitionLanguage, transcription)
	segment.Translations = translations
	segment.Synthesized = session.Settings.SynthesisEnabled()

	session.AddSegment(segment)
	stored := session.Segments[len(session.Segments)-1]

	if err := s.sessions.AppendSegment(ctx, session.ID, stored); err != nil {
		return nil, fmt.Errorf("failed to persist segment: %w", err)
	}

	s.logger.Info("Segment translated",
		zap.String("sessionID", session.ID),
		zap.Int("sequence", stored.Sequence),
		zap.Int("translations", len(stored.Translations)))

	return &stored, nil
}

// SynthesizeSegment speaks the translated segment with the session's
// voice. The translation whose language matches the voice is spoken; when
// none matches, the first translation is used.
func (s *TranslationService) SynthesizeSegment(ctx context.Context, session *entities.Session, segment *entities.Segment) (<-chan []byte, string, error) {
	if !session.Settings.SynthesisEnabled() {
		return nil, "", fmt.Errorf("session %s has no synthesis voice", session.ID)
	}
	if len(segment.Translations) == 0 {
		return nil, "", fmt.Errorf("segment %s has no translations", segment.ID)
	}

	translation := segment.Translations[0]
	for _, tr := range segment.Translations {
		if voiceSpeaks(session.Settings.VoiceName, tr.Language) {
			translation = tr
			break
		}
	}

	audioChan, err := s.synthesizer.Synthesize(ctx, translation.Text, session.Settings.VoiceName)
	if err != nil {
		return nil, "", fmt.Errorf("synthesis failed: %w", err)
	}

	return audioChan, translation.Language, nil
}

// EndSession terminates the session and persists its final state
func (s *TranslationService) EndSession(ctx context.Context, session *entities.Session) error {
	session.Terminate()
	if err := s.sessions.Update(ctx, session); err != nil {
		return fmt.Errorf("failed to persist session end: %w", err)
	}

	s.logger.Info("Translation session ended",
		zap.String("sessionID", session.ID),
		zap.Int("segments", len(session.Segments)))

	return nil
}

// SegmentMessage converts a stored segment to its outbound message form
func SegmentMessage(session *entities.Session, segment *entities.Segment) *domain.TranslationSegmentMessage {
	translations := make([]domain.TranslatedText, 0, len(segment.Translations))
	for _, tr := range segment.Translations {
		translations = append(translations, domain.TranslatedText{
			Language: tr.Language,
			Text:     tr.Text,
		})
	}

	return &domain.TranslationSegmentMessage{
		Type:           "translation_segment",
		SessionID:      session.ID,
		Sequence:       segment.Sequence,
		SourceLanguage: segment.SourceLanguage,
		SourceText:     segment.SourceText,
		Translations:   translations,
		Timestamp:      segment.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// voiceSpeaks reports whether a voice name like "en-US-AriaNeural" speaks
// the given BCP-47 language tag
func voiceSpeaks(voiceName, language string) bool {
	return strings.HasPrefix(strings.ToLower(voiceName), strings.ToLower(language)+"-") ||
		strings.EqualFold(voiceName, language)
}
