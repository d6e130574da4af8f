package stt_test

import (
	"github.com/satriahrh/penerjemah/adapters/stt"
	"github.com/satriahrh/penerjemah/domain/repositories"
)

var _ repositories.SpeechRecognizer = &stt.GoogleRecognizer{}
