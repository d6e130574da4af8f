package repositories

import (
	"context"

	"github.com/satriahrh/penerjemah/domain/entities"
)

// Translator abstracts text translation providers
type Translator interface {
	// Translate renders text into every target language, preserving the
	// order the targets are given in. Duplicate targets are translated
	// again rather than deduplicated.
	Translate(ctx context.Context, text, sourceLanguage string, targetLanguages []string) ([]entities.Translation, error)
}
