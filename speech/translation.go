package speech

import (
	"net/url"

	"github.com/satriahrh/penerjemah/internal/native"
)

// TranslationConfig is the configuration for a speech translation session:
// everything Config carries plus the translation target languages and the
// optional synthesis voice. Create one with a factory, configure it, hand
// it to a recognizer, and Close it when done (defer is the usual pattern).
type TranslationConfig struct {
	Config
}

// TranslationConfigFromSubscription creates a translation configuration
// authenticated by subscription key and service region.
func TranslationConfigFromSubscription(subscriptionKey, region string) (*TranslationConfig, error) {
	if err := checkSubscriptionKey(subscriptionKey, "subscription key"); err != nil {
		return nil, err
	}
	if err := checkNotBlank(region, "region"); err != nil {
		return nil, err
	}
	impl, err := native.FromSubscription(subscriptionKey, region)
	if err != nil {
		return nil, err
	}
	return &TranslationConfig{Config{impl: impl}}, nil
}

// TranslationConfigFromAuthorizationToken creates a translation
// configuration authenticated by a pre-issued authorization token. The
// caller keeps the token fresh; see SetAuthorizationToken.
func TranslationConfigFromAuthorizationToken(authorizationToken, region string) (*TranslationConfig, error) {
	if err := checkNotBlank(authorizationToken, "authorization token"); err != nil {
		return nil, err
	}
	if err := checkNotBlank(region, "region"); err != nil {
		return nil, err
	}
	impl, err := native.FromAuthorizationToken(authorizationToken, region)
	if err != nil {
		return nil, err
	}
	return &TranslationConfig{Config{impl: impl}}, nil
}

// TranslationConfigFromEndpoint creates a translation configuration that
// connects to a non-standard service endpoint.
//
// Query parameters embedded in the endpoint are not changed by later
// setters: if the endpoint carries "language=de-DE" and the recognition
// language is then set to "en-US", the effective language stays "de-DE".
// That precedence is enforced by the configuration layer underneath, not
// re-implemented here.
//
// subscriptionKey may be empty to authenticate with an authorization token
// instead: pass "" and call SetAuthorizationToken on the result.
func TranslationConfigFromEndpoint(endpoint *url.URL, subscriptionKey string) (*TranslationConfig, error) {
	if endpoint == nil {
		return nil, invalidArgument("endpoint", "cannot be nil")
	}
	impl, err := native.FromEndpoint(endpoint.String(), subscriptionKey)
	if err != nil {
		return nil, err
	}
	return &TranslationConfig{Config{impl: impl}}, nil
}

// AddTargetLanguage registers a translation target language, as a BCP-47
// tag. The tag is not validated here. Registration order is preserved and
// duplicates are kept; the underlying store is append-only.
func (c *TranslationConfig) AddTargetLanguage(value string) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := checkNotBlank(value, "target language"); err != nil {
		return err
	}
	return c.impl.AddTargetLanguage(value)
}

// TargetLanguages returns a snapshot of the registered target languages,
// in registration order.
func (c *TranslationConfig) TargetLanguages() []string {
	return c.impl.TargetLanguages()
}

// SetVoiceName selects the voice used to speak the translated text, which
// enables synthesized-voice output on the translation session.
func (c *TranslationConfig) SetVoiceName(value string) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := checkNotBlank(value, "voice name"); err != nil {
		return err
	}
	if err := c.impl.SetProperty(native.PropertyTranslationVoice, value); err != nil {
		return err
	}
	return c.impl.SetProperty(native.PropertyTranslationFeatures, "textToSpeech")
}

// VoiceName returns the selected synthesis voice, or the empty string when
// synthesized-voice output is not enabled.
func (c *TranslationConfig) VoiceName() string {
	return c.impl.Property(native.PropertyTranslationVoice)
}
