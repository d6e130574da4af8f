package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the status of a translation session
type SessionStatus string

const (
	SessionStatusActive     SessionStatus = "active"
	SessionStatusExpired    SessionStatus = "expired"
	SessionStatusTerminated SessionStatus = "terminated"
)

// Default session lifetime. Sessions are short-lived; a stream that runs
// longer re-authenticates with a fresh token anyway.
const sessionTTL = 4 * time.Hour

// SessionSettings carries the translation settings captured when the
// session was opened. They are a copy of the configuration at creation
// time: changing the configuration afterwards does not affect a session
// that is already running.
type SessionSettings struct {
	RecognitionLanguage string   `json:"recognition_language" bson:"recognition_language"`
	TargetLanguages     []string `json:"target_languages" bson:"target_languages"`
	VoiceName           string   `json:"voice_name,omitempty" bson:"voice_name,omitempty"`
	Region              string   `json:"region,omitempty" bson:"region,omitempty"`
}

// Validate checks that the settings can drive a translation session.
func (st SessionSettings) Validate() error {
	if st.RecognitionLanguage == "" {
		return errors.New("recognition language is required")
	}
	if len(st.TargetLanguages) == 0 {
		return errors.New("at least one target language is required")
	}
	return nil
}

// SynthesisEnabled reports whether synthesized-voice output was requested.
func (st SessionSettings) SynthesisEnabled() bool {
	return st.VoiceName != ""
}

// Session represents a translation session between a device and the system
type Session struct {
	ID            string          `json:"id" bson:"_id"`
	DeviceID      string          `json:"device_id" bson:"device_id"`
	CreatedAt     time.Time       `json:"created_at" bson:"created_at"`
	LastActiveAt  time.Time       `json:"last_active_at" bson:"last_active_at"`
	LastSegmentAt *time.Time      `json:"last_segment_at" bson:"last_segment_at"`
	ExpiresAt     time.Time       `json:"expires_at" bson:"expires_at"`
	Status        SessionStatus   `json:"status" bson:"status"`
	Settings      SessionSettings `json:"settings" bson:"settings"`
	Segments      []Segment       `json:"segments" bson:"segments"`
}

// NewSession creates a new session for a device with the given settings
func NewSession(deviceID string, settings SessionSettings) *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.NewString(),
		DeviceID:     deviceID,
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    now.Add(sessionTTL),
		Status:       SessionStatusActive,
		Settings:     settings,
		Segments:     make([]Segment, 0),
	}
}

// AddSegment appends a recognized-and-translated segment to the session
func (s *Session) AddSegment(segment Segment) {
	segment.Sequence = len(s.Segments)
	if segment.CreatedAt.IsZero() {
		segment.CreatedAt = time.Now()
	}
	s.Segments = append(s.Segments, segment)
	s.LastActiveAt = segment.CreatedAt
	s.LastSegmentAt = &s.Segments[len(s.Segments)-1].CreatedAt
}

// IsExpired checks whether the session can still accept segments
func (s *Session) IsExpired() bool {
	if s.Status == SessionStatusTerminated || s.Status == SessionStatusExpired {
		return true
	}
	return time.Now().After(s.ExpiresAt)
}

// Terminate marks the session as terminated
func (s *Session) Terminate() {
	s.Status = SessionStatusTerminated
	s.LastActiveAt = time.Now()
}

// Expire marks the session as expired
func (s *Session) Expire() {
	s.Status = SessionStatusExpired
}
