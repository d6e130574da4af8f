package entities

import (
	"testing"
	"time"
)

func testSettings() SessionSettings {
	return SessionSettings{
		RecognitionLanguage: "id-ID",
		TargetLanguages:     []string{"en-US", "ja-JP"},
		Region:              "southeastasia",
	}
}

func TestSessionCreation(t *testing.T) {
	deviceID := "test-device-123"
	session := NewSession(deviceID, testSettings())

	if session.ID == "" {
		t.Error("Expected session ID to be generated")
	}

	if session.DeviceID != deviceID {
		t.Errorf("Expected device ID %s, got %s", deviceID, session.DeviceID)
	}

	if session.Status != SessionStatusActive {
		t.Errorf("Expected status %s, got %s", SessionStatusActive, session.Status)
	}

	if len(session.Segments) != 0 {
		t.Errorf("Expected empty segments, got %d segments", len(session.Segments))
	}

	if session.Settings.RecognitionLanguage != "id-ID" {
		t.Errorf("Expected recognition language id-ID, got %s", session.Settings.RecognitionLanguage)
	}
}

func TestSessionSettingsValidate(t *testing.T) {
	settings := testSettings()
	if err := settings.Validate(); err != nil {
		t.Errorf("Expected valid settings, got %v", err)
	}

	noLanguage := settings
	noLanguage.RecognitionLanguage = ""
	if err := noLanguage.Validate(); err == nil {
		t.Error("Expected error for missing recognition language")
	}

	noTargets := settings
	noTargets.TargetLanguages = nil
	if err := noTargets.Validate(); err == nil {
		t.Error("Expected error for missing target languages")
	}
}

func TestSynthesisEnabled(t *testing.T) {
	settings := testSettings()
	if settings.SynthesisEnabled() {
		t.Error("Expected synthesis disabled without a voice name")
	}

	settings.VoiceName = "en-US-AriaNeural"
	if !settings.SynthesisEnabled() {
		t.Error("Expected synthesis enabled with a voice name")
	}
}

func TestAddSegment(t *testing.T) {
	session := NewSession("test-device", testSettings())

	first := NewSegment("id-ID", "Selamat pagi")
	first.Translations = []Translation{
		{Language: "en-US", Text: "Good morning"},
		{Language: "ja-JP", Text: "おはようございます"},
	}
	session.AddSegment(first)

	if len(session.Segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(session.Segments))
	}

	if session.Segments[0].Sequence != 0 {
		t.Errorf("Expected sequence 0, got %d", session.Segments[0].Sequence)
	}

	if session.LastSegmentAt == nil {
		t.Error("Expected LastSegmentAt to be set")
	}

	second := NewSegment("id-ID", "Terima kasih")
	session.AddSegment(second)

	if len(session.Segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(session.Segments))
	}

	if session.Segments[1].Sequence != 1 {
		t.Errorf("Expected sequence 1, got %d", session.Segments[1].Sequence)
	}
}

func TestSegmentValidate(t *testing.T) {
	segment := NewSegment("id-ID", "Halo")
	segment.Translations = []Translation{{Language: "en-US", Text: "Hello"}}
	if err := segment.Validate(); err != nil {
		t.Errorf("Expected valid segment, got %v", err)
	}

	empty := NewSegment("id-ID", "")
	if err := empty.Validate(); err == nil {
		t.Error("Expected error for empty source text")
	}

	bad := NewSegment("id-ID", "Halo")
	bad.Translations = []Translation{{Language: "", Text: "Hello"}}
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for translation without language")
	}
}

func TestSessionExpiration(t *testing.T) {
	session := NewSession("test-device", testSettings())

	// Should not be expired initially
	if session.IsExpired() {
		t.Error("Session should not be expired initially")
	}

	// Manually set expiration to past
	session.ExpiresAt = time.Now().Add(-1 * time.Hour)
	if !session.IsExpired() {
		t.Error("Session should be expired when ExpiresAt is in the past")
	}

	// Terminated sessions no longer accept segments
	session = NewSession("test-device", testSettings())
	session.Terminate()
	if session.Status != SessionStatusTerminated {
		t.Errorf("Expected status %s, got %s", SessionStatusTerminated, session.Status)
	}
	if !session.IsExpired() {
		t.Error("Terminated session should report expired")
	}
}

func TestDeviceValidate(t *testing.T) {
	device := &Device{
		ID:              "device-1",
		SerialNumber:    "PNJ-0001",
		SubscriptionKey: "subscription-key",
		Region:          "southeastasia",
	}
	if err := device.Validate(); err != nil {
		t.Errorf("Expected valid device, got %v", err)
	}

	device.SubscriptionKey = ""
	if err := device.Validate(); err == nil {
		t.Error("Expected error for missing subscription key")
	}
}
