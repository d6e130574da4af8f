package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Translation is one translated rendering of a recognized segment
type Translation struct {
	Language string `json:"language" bson:"language"`
	Text     string `json:"text" bson:"text"`
}

// Segment represents one recognized utterance and its translations,
// in the order the target languages were registered
type Segment struct {
	ID             string        `json:"id" bson:"_id"`
	Sequence       int           `json:"sequence" bson:"sequence"`
	SourceLanguage string        `json:"source_language" bson:"source_language"`
	SourceText     string        `json:"source_text" bson:"source_text"`
	Translations   []Translation `json:"translations" bson:"translations"`
	Synthesized    bool          `json:"synthesized" bson:"synthesized"`
	DurationMs     int           `json:"duration_ms" bson:"duration_ms"`
	CreatedAt      time.Time     `json:"created_at" bson:"created_at"`
}

// NewSegment creates a segment for a recognized utterance
func NewSegment(sourceLanguage, sourceText string) Segment {
	return Segment{
		ID:             uuid.NewString(),
		SourceLanguage: sourceLanguage,
		SourceText:     sourceText,
		CreatedAt:      time.Now(),
	}
}

// Domain validation methods
func (t Translation) Validate() error {
	if t.Language == "" {
		return errors.New("translation language is required")
	}
	return nil
}

func (s *Segment) Validate() error {
	if s.SourceText == "" {
		return errors.New("source text is required")
	}
	for _, tr := range s.Translations {
		if err := tr.Validate(); err != nil {
			return err
		}
	}
	return nil
}
