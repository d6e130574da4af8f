package speech

import (
	"github.com/satriahrh/penerjemah/internal/native"
)

// Config carries the connection settings shared by every speech session:
// credentials, region or endpoint, recognition language, and arbitrary
// named properties. All logic lives in the native configuration layer;
// Config validates input, forwards, and owns the handle's lifetime.
//
// Config is not safe for concurrent use.
type Config struct {
	impl   *native.Config
	closed bool
}

// guard rejects use after Close. Setters on a closed configuration are a
// hard error; errorless accessors read through and return zero values.
func (c *Config) guard() error {
	if c.closed {
		return ErrConfigClosed
	}
	return nil
}

// SetAuthorizationToken replaces the authorization token. The caller must
// refresh the token before it expires; sessions created earlier copied the
// configuration at creation time and are not affected by the new value.
func (c *Config) SetAuthorizationToken(value string) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := checkNotBlank(value, "authorization token"); err != nil {
		return err
	}
	return c.impl.SetProperty(native.PropertyAuthorizationToken, value)
}

// AuthorizationToken returns the current authorization token.
func (c *Config) AuthorizationToken() string {
	return c.impl.Property(native.PropertyAuthorizationToken)
}

// SetSpeechRecognitionLanguage sets the language spoken in the input
// audio, as a BCP-47 tag.
func (c *Config) SetSpeechRecognitionLanguage(value string) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := checkNotBlank(value, "speech recognition language"); err != nil {
		return err
	}
	return c.impl.SetProperty(native.PropertyRecognitionLanguage, value)
}

// SpeechRecognitionLanguage returns the configured input language.
func (c *Config) SpeechRecognitionLanguage() string {
	return c.impl.Property(native.PropertyRecognitionLanguage)
}

// SetProperty stores a named value as an opaque key/value pair. The name
// is not checked against the well-known property set.
func (c *Config) SetProperty(name, value string) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := checkNotBlank(value, "value"); err != nil {
		return err
	}
	return c.impl.SetProperty(name, value)
}

// GetProperty returns the value stored under name, or the empty string.
func (c *Config) GetProperty(name string) string {
	return c.impl.Property(name)
}

// SubscriptionKey returns the subscription key, if one was provided.
func (c *Config) SubscriptionKey() string {
	return c.impl.Property(native.PropertyConnectionKey)
}

// Region returns the service region, if one was provided.
func (c *Config) Region() string {
	return c.impl.Property(native.PropertyConnectionRegion)
}

// Endpoint returns the custom service endpoint, if one was provided.
func (c *Config) Endpoint() string {
	return c.impl.Property(native.PropertyConnectionEndpoint)
}

// Close releases the native handle. The first call releases it exactly
// once; subsequent calls are no-ops.
func (c *Config) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.impl.Release()
}
