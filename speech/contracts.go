package speech

import (
	"strings"
	"unicode"
)

// checkNotBlank rejects empty or whitespace-only values.
func checkNotBlank(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return invalidArgument(name, "cannot be empty or blank")
	}
	return nil
}

// checkSubscriptionKey rejects empty keys and keys containing whitespace.
// Keys are opaque otherwise; no service-side format is assumed.
func checkSubscriptionKey(value, name string) error {
	if value == "" {
		return invalidArgument(name, "cannot be empty")
	}
	for _, r := range value {
		if unicode.IsSpace(r) {
			return invalidArgument(name, "is malformed")
		}
	}
	return nil
}
