package speech

import (
	"errors"
	"net/url"
	"testing"

	"github.com/satriahrh/penerjemah/internal/native"
)

func TestMain(m *testing.M) {
	if err := native.Load(); err != nil {
		panic(err)
	}
	m.Run()
}

func mustTranslationConfig(t *testing.T) *TranslationConfig {
	t.Helper()
	cfg, err := TranslationConfigFromSubscription("subscription-key", "southeastasia")
	if err != nil {
		t.Fatalf("TranslationConfigFromSubscription failed: %v", err)
	}
	t.Cleanup(func() { cfg.Close() })
	return cfg
}

func TestTranslationConfigFromSubscriptionValidation(t *testing.T) {
	cases := []struct {
		name            string
		subscriptionKey string
		region          string
	}{
		{"empty key", "", "westus"},
		{"malformed key with space", "abc def", "westus"},
		{"malformed key with tab", "abc\tdef", "westus"},
		{"empty region", "key", ""},
		{"blank region", "key", "   "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := native.LiveHandles()
			cfg, err := TranslationConfigFromSubscription(tc.subscriptionKey, tc.region)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Expected ErrInvalidArgument, got %v", err)
			}
			if cfg != nil {
				t.Error("Expected nil config on validation failure")
			}
			if native.LiveHandles() != before {
				t.Error("Native handle created despite validation failure")
			}
		})
	}
}

func TestTranslationConfigFromSubscription(t *testing.T) {
	cfg := mustTranslationConfig(t)

	if got := cfg.SubscriptionKey(); got != "subscription-key" {
		t.Errorf("Expected subscription key subscription-key, got %q", got)
	}
	if got := cfg.Region(); got != "southeastasia" {
		t.Errorf("Expected region southeastasia, got %q", got)
	}
}

func TestTranslationConfigFromAuthorizationTokenValidation(t *testing.T) {
	cases := []struct {
		name   string
		token  string
		region string
	}{
		{"empty token", "", "westus"},
		{"blank token", "  ", "westus"},
		{"empty region", "token", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := TranslationConfigFromAuthorizationToken(tc.token, tc.region); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Expected ErrInvalidArgument, got %v", err)
			}
		})
	}

	cfg, err := TranslationConfigFromAuthorizationToken("eyJ-token", "westus")
	if err != nil {
		t.Fatalf("TranslationConfigFromAuthorizationToken failed: %v", err)
	}
	defer cfg.Close()
	if got := cfg.AuthorizationToken(); got != "eyJ-token" {
		t.Errorf("Expected token eyJ-token, got %q", got)
	}
}

func TestTranslationConfigFromEndpoint(t *testing.T) {
	if _, err := TranslationConfigFromEndpoint(nil, "key"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for nil endpoint, got %v", err)
	}

	endpoint, _ := url.Parse("wss://custom.example.test/speech/translation")

	// Empty subscription key is allowed: it signals authorization-token
	// auth to be configured afterwards.
	cfg, err := TranslationConfigFromEndpoint(endpoint, "")
	if err != nil {
		t.Fatalf("TranslationConfigFromEndpoint with empty key failed: %v", err)
	}
	defer cfg.Close()

	if got := cfg.Endpoint(); got != endpoint.String() {
		t.Errorf("Expected endpoint %s, got %q", endpoint, got)
	}
	if err := cfg.SetAuthorizationToken("eyJ-token"); err != nil {
		t.Fatalf("SetAuthorizationToken failed: %v", err)
	}
}

func TestEndpointQueryParameterPrecedence(t *testing.T) {
	endpoint, _ := url.Parse("wss://custom.example.test/speech?language=de-DE")
	cfg, err := TranslationConfigFromEndpoint(endpoint, "key")
	if err != nil {
		t.Fatalf("TranslationConfigFromEndpoint failed: %v", err)
	}
	defer cfg.Close()

	if err := cfg.SetSpeechRecognitionLanguage("en-US"); err != nil {
		t.Fatalf("SetSpeechRecognitionLanguage failed: %v", err)
	}
	if got := cfg.SpeechRecognitionLanguage(); got != "de-DE" {
		t.Errorf("Expected endpoint language de-DE to take precedence, got %q", got)
	}
}

func TestSetterValidation(t *testing.T) {
	cfg := mustTranslationConfig(t)

	setters := []struct {
		name string
		call func(string) error
	}{
		{"SetAuthorizationToken", cfg.SetAuthorizationToken},
		{"SetSpeechRecognitionLanguage", cfg.SetSpeechRecognitionLanguage},
		{"AddTargetLanguage", cfg.AddTargetLanguage},
		{"SetVoiceName", cfg.SetVoiceName},
	}

	for _, s := range setters {
		for _, value := range []string{"", " ", "\t\n"} {
			if err := s.call(value); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("%s(%q): expected ErrInvalidArgument, got %v", s.name, value, err)
			}
		}
	}

	if err := cfg.SetProperty("AnyName", "  "); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetProperty with blank value: expected ErrInvalidArgument, got %v", err)
	}

	if langs := cfg.TargetLanguages(); len(langs) != 0 {
		t.Errorf("Rejected setters mutated state: target languages %v", langs)
	}
	if voice := cfg.VoiceName(); voice != "" {
		t.Errorf("Rejected setters mutated state: voice %q", voice)
	}
}

func TestTargetLanguagesOrdered(t *testing.T) {
	cfg := mustTranslationConfig(t)

	if err := cfg.AddTargetLanguage("en-US"); err != nil {
		t.Fatalf("AddTargetLanguage failed: %v", err)
	}
	if err := cfg.AddTargetLanguage("de-DE"); err != nil {
		t.Fatalf("AddTargetLanguage failed: %v", err)
	}

	got := cfg.TargetLanguages()
	if len(got) != 2 || got[0] != "en-US" || got[1] != "de-DE" {
		t.Errorf("Expected [en-US de-DE], got %v", got)
	}
}

func TestVoiceNameEnablesSynthesis(t *testing.T) {
	cfg := mustTranslationConfig(t)

	if got := cfg.VoiceName(); got != "" {
		t.Fatalf("Expected no voice by default, got %q", got)
	}

	if err := cfg.SetVoiceName("en-US-AriaNeural"); err != nil {
		t.Fatalf("SetVoiceName failed: %v", err)
	}
	if got := cfg.VoiceName(); got != "en-US-AriaNeural" {
		t.Errorf("Expected voice en-US-AriaNeural, got %q", got)
	}
	if got := cfg.GetProperty(native.PropertyTranslationFeatures); got != "textToSpeech" {
		t.Errorf("Expected synthesis feature enabled, got %q", got)
	}
}

func TestSetPropertyOpaque(t *testing.T) {
	cfg := mustTranslationConfig(t)

	if err := cfg.SetProperty("SpeechServiceConnection_EnableAudioLogging", "true"); err != nil {
		t.Fatalf("SetProperty failed: %v", err)
	}
	if got := cfg.GetProperty("SpeechServiceConnection_EnableAudioLogging"); got != "true" {
		t.Errorf("Expected property roundtrip, got %q", got)
	}
}

func TestCloseIdempotent(t *testing.T) {
	before := native.LiveHandles()
	cfg, err := TranslationConfigFromSubscription("subscription-key", "westus")
	if err != nil {
		t.Fatalf("TranslationConfigFromSubscription failed: %v", err)
	}

	if err := cfg.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := cfg.Close(); err != nil {
		t.Errorf("Second Close: expected no-op, got %v", err)
	}
	if native.LiveHandles() != before {
		t.Errorf("Handle not released exactly once, live count %d != %d", native.LiveHandles(), before)
	}
}

func TestUseAfterCloseFailsFast(t *testing.T) {
	cfg, err := TranslationConfigFromSubscription("subscription-key", "westus")
	if err != nil {
		t.Fatalf("TranslationConfigFromSubscription failed: %v", err)
	}
	if err := cfg.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := cfg.SetAuthorizationToken("token"); !errors.Is(err, ErrConfigClosed) {
		t.Errorf("SetAuthorizationToken after Close: expected ErrConfigClosed, got %v", err)
	}
	if err := cfg.AddTargetLanguage("en-US"); !errors.Is(err, ErrConfigClosed) {
		t.Errorf("AddTargetLanguage after Close: expected ErrConfigClosed, got %v", err)
	}
	if err := cfg.SetVoiceName("en-US-AriaNeural"); !errors.Is(err, ErrConfigClosed) {
		t.Errorf("SetVoiceName after Close: expected ErrConfigClosed, got %v", err)
	}
	if err := cfg.SetProperty("Name", "value"); !errors.Is(err, ErrConfigClosed) {
		t.Errorf("SetProperty after Close: expected ErrConfigClosed, got %v", err)
	}
}
