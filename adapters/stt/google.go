package stt

import (
	"context"
	"fmt"
	"io"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/satriahrh/penerjemah/domain/repositories"
)

// GoogleRecognizer implements SpeechRecognizer for Google Cloud
type GoogleRecognizer struct{}

func NewGoogleRecognizer() *GoogleRecognizer {
	return &GoogleRecognizer{}
}

var _ repositories.SpeechRecognizer = (*GoogleRecognizer)(nil)

// InitRecognizeStreaming opens a streaming recognition session. The
// recognition language comes from the session configuration.
func (g *GoogleRecognizer) InitRecognizeStreaming(ctx context.Context, config repositories.AudioConfig) (repositories.RecognitionStream, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	stream, err := client.StreamingRecognize(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create streaming recognize: %w", err)
	}

	encoding, err := audioEncoding(config.Encoding)
	if err != nil {
		stream.CloseSend()
		client.Close()
		return nil, fmt.Errorf("unsupported audio encoding: %s", config.Encoding)
	}

	recognitionConfig := &speechpb.RecognitionConfig{
		Encoding:        encoding,
		SampleRateHertz: int32(config.SampleRate),
		LanguageCode:    config.Language,
	}

	// Send initial configuration
	if err := stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config:          recognitionConfig,
				InterimResults:  false, // translation works on final utterances
				SingleUtterance: true,
			},
		},
	}); err != nil {
		stream.CloseSend()
		client.Close()
		return nil, fmt.Errorf("failed to send streaming config: %w", err)
	}

	return &googleRecognitionStream{
		client:     client,
		stream:     stream,
		ctx:        ctx,
		resultChan: make(chan string, 1),
		errorChan:  make(chan error, 1),
	}, nil
}

type googleRecognitionStream struct {
	client         *speech.Client
	stream         speechpb.Speech_StreamingRecognizeClient
	ctx            context.Context
	audioReceived  bool
	resultChan     chan string
	errorChan      chan error
	receiverActive bool
}

func (g *googleRecognitionStream) Stream(data []byte) error {
	// Start the result receiver goroutine only once
	if !g.receiverActive {
		g.receiverActive = true
		go g.receiveResults()
	}

	if len(data) > 0 {
		g.audioReceived = true

		if err := g.stream.Send(&speechpb.StreamingRecognizeRequest{
			StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
				AudioContent: data,
			},
		}); err != nil {
			return fmt.Errorf("failed to send audio data: %w", err)
		}
	}

	return nil
}

func (g *googleRecognitionStream) End() (string, error) {
	defer g.cleanup()

	if !g.audioReceived {
		return "", fmt.Errorf("no audio data received")
	}

	// Close the send stream to signal end of audio
	if err := g.stream.CloseSend(); err != nil {
		return "", fmt.Errorf("failed to close send stream: %w", err)
	}

	select {
	case <-g.ctx.Done():
		return "", fmt.Errorf("context cancelled while waiting for result: %w", g.ctx.Err())
	case err := <-g.errorChan:
		if err != nil {
			return "", err
		}
	case result := <-g.resultChan:
		if result == "" {
			return "", fmt.Errorf("no speech detected in audio")
		}
		return result, nil
	}

	return "", fmt.Errorf("unexpected end of recognition")
}

func (g *googleRecognitionStream) receiveResults() {
	defer close(g.resultChan)
	defer close(g.errorChan)

	var finalTranscription string

	for {
		resp, err := g.stream.Recv()
		if err == io.EOF {
			g.resultChan <- finalTranscription
			return
		}
		if err != nil {
			g.errorChan <- fmt.Errorf("failed to receive response: %w", err)
			return
		}

		// Only final results feed the translation pipeline
		if resp.Results != nil {
			for _, result := range resp.Results {
				if result.IsFinal && len(result.Alternatives) > 0 {
					finalTranscription = result.Alternatives[0].Transcript
				}
			}
		}
	}
}

func (g *googleRecognitionStream) cleanup() {
	if g.client != nil {
		g.client.Close()
	}
}

// Recognize converts a complete utterance to text using Google Cloud
// Speech-to-Text (non-streaming)
func (g *GoogleRecognizer) Recognize(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	stream, err := g.InitRecognizeStreaming(ctx, config)
	if err != nil {
		return "", fmt.Errorf("failed to initialize streaming: %w", err)
	}

	if err := stream.Stream(audioData); err != nil {
		return "", fmt.Errorf("failed to stream audio data: %w", err)
	}

	return stream.End()
}

// audioEncoding converts string encoding to Google Speech API enum
func audioEncoding(encoding string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch encoding {
	case "WAV", "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC, nil
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW, nil
	case "AMR":
		return speechpb.RecognitionConfig_AMR, nil
	case "AMR_WB":
		return speechpb.RecognitionConfig_AMR_WB, nil
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "SPEEX_WITH_HEADER_BYTE":
		return speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE, nil
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}
