package native

import (
	"net/url"
	"strings"
)

// Config is the configuration object the speech facade forwards to. It
// holds a flat property bag plus the append-only target-language list.
//
// Config is not safe for concurrent use; callers serialize access.
type Config struct {
	properties map[string]string
	// locked marks properties pinned by endpoint query parameters.
	// SetProperty leaves pinned values untouched.
	locked   map[string]bool
	targets  []string
	released bool
}

func newConfig() (*Config, error) {
	if !loaded.Load() {
		return nil, ErrNotLoaded
	}
	liveHandles.Add(1)
	return &Config{
		properties: make(map[string]string),
		locked:     make(map[string]bool),
	}, nil
}

// FromSubscription creates a configuration authenticated by subscription
// key and service region.
func FromSubscription(subscriptionKey, region string) (*Config, error) {
	c, err := newConfig()
	if err != nil {
		return nil, err
	}
	c.properties[PropertyConnectionKey] = subscriptionKey
	c.properties[PropertyConnectionRegion] = region
	return c, nil
}

// FromAuthorizationToken creates a configuration authenticated by a
// pre-issued authorization token and service region.
func FromAuthorizationToken(token, region string) (*Config, error) {
	c, err := newConfig()
	if err != nil {
		return nil, err
	}
	c.properties[PropertyAuthorizationToken] = token
	c.properties[PropertyConnectionRegion] = region
	return c, nil
}

// FromEndpoint creates a configuration targeting a custom service endpoint.
// Query parameters embedded in the endpoint are applied to their matching
// properties and pinned: later SetProperty calls for the same property do
// not override them. subscriptionKey may be empty when the caller intends
// to authenticate with an authorization token instead.
func FromEndpoint(endpoint, subscriptionKey string) (*Config, error) {
	c, err := newConfig()
	if err != nil {
		return nil, err
	}
	c.properties[PropertyConnectionEndpoint] = endpoint
	if subscriptionKey != "" {
		c.properties[PropertyConnectionKey] = subscriptionKey
	}
	if u, err := url.Parse(endpoint); err == nil {
		for param, prop := range endpointQueryProperties {
			if v := u.Query().Get(param); v != "" {
				c.properties[prop] = v
				c.locked[prop] = true
				if prop == PropertyTranslationToLanguages {
					// Keep the target-language list in step with the
					// pinned CSV so snapshots report what the service
					// connection will actually use.
					c.targets = strings.Split(v, ",")
				}
			}
		}
	}
	return c, nil
}

// SetProperty stores a named value. Properties pinned by endpoint query
// parameters keep their endpoint value.
func (c *Config) SetProperty(name, value string) error {
	if c.released {
		return ErrReleased
	}
	if c.locked[name] {
		return nil
	}
	c.properties[name] = value
	return nil
}

// Property returns the value stored under name, or the empty string.
func (c *Config) Property(name string) string {
	return c.properties[name]
}

// AddTargetLanguage appends a translation target language. The list is
// append-only: order is preserved and duplicates are kept. When the
// endpoint pinned the target languages, additions are ignored, just as
// SetProperty ignores writes to a pinned property.
func (c *Config) AddTargetLanguage(value string) error {
	if c.released {
		return ErrReleased
	}
	if c.locked[PropertyTranslationToLanguages] {
		return nil
	}
	c.targets = append(c.targets, value)
	c.properties[PropertyTranslationToLanguages] = strings.Join(c.targets, ",")
	return nil
}

// TargetLanguages returns a copy of the target-language list.
func (c *Config) TargetLanguages() []string {
	out := make([]string, len(c.targets))
	copy(out, c.targets)
	return out
}

// Release frees the handle. Releasing twice is an error; the facade above
// guards idempotency with its own closed flag.
func (c *Config) Release() error {
	if c.released {
		return ErrReleased
	}
	c.released = true
	c.properties = nil
	c.locked = nil
	c.targets = nil
	liveHandles.Add(-1)
	return nil
}

// Released reports whether the handle has been released.
func (c *Config) Released() bool {
	return c.released
}
