package websocket

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/penerjemah/adapters"
	"github.com/satriahrh/penerjemah/adapters/stt"
	"github.com/satriahrh/penerjemah/adapters/translator"
	"github.com/satriahrh/penerjemah/adapters/tts"
	"github.com/satriahrh/penerjemah/domain/entities"
	"github.com/satriahrh/penerjemah/internal/native"
	"github.com/satriahrh/penerjemah/speech"
	"github.com/satriahrh/penerjemah/usecase"
)

func TestMain(m *testing.M) {
	if err := native.Load(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func setupTestHub(t testing.TB) (*Hub, *zap.Logger) {
	logger := zap.NewNop()

	service := usecase.NewTranslationService(
		stt.NewMockRecognizer(logger),
		translator.NewMockTranslator(logger),
		tts.NewMockSynthesizer(logger),
		adapters.NewMemorySessionRepository(),
		logger,
	)

	return NewHub(service, logger), logger
}

func newTestClient(hub *Hub, logger *zap.Logger) *Client {
	return &Client{
		hub:       hub,
		send:      make(chan WriteData, 256),
		done:      make(chan struct{}),
		deviceID:  "test-device",
		region:    "westus",
		token:     "test-token",
		logger:    logger,
		validator: NewMessageValidator(),
	}
}

// receiveJSON waits for the next text frame from the client's send
// channel and decodes it
func receiveJSON(t *testing.T, client *Client) map[string]interface{} {
	t.Helper()

	select {
	case data := <-client.send:
		var decoded map[string]interface{}
		if err := json.Unmarshal(data.Payload, &decoded); err != nil {
			t.Fatalf("Failed to decode message: %v", err)
		}
		return decoded
	case <-time.After(time.Second):
		t.Fatal("No message received within timeout")
		return nil
	}
}

func TestHub_NewHub(t *testing.T) {
	hub, _ := setupTestHub(t)

	if hub == nil {
		t.Fatal("NewHub returned nil")
	}
	if hub.clients == nil {
		t.Error("Hub clients map not initialized")
	}
	if hub.register == nil {
		t.Error("Hub register channel not initialized")
	}
	if hub.unregister == nil {
		t.Error("Hub unregister channel not initialized")
	}
}

func TestHub_SendToDevice(t *testing.T) {
	hub, logger := setupTestHub(t)

	client := newTestClient(hub, logger)
	hub.clients[client.deviceID] = client

	message := WriteData{Type: 1, Payload: []byte(`{"type":"test"}`)}

	if err := hub.SendToDevice(client.deviceID, message); err != nil {
		t.Errorf("SendToDevice should not return error, got: %v", err)
	}

	select {
	case received := <-client.send:
		if string(received.Payload) != string(message.Payload) {
			t.Errorf("Expected payload %s, got %s", message.Payload, received.Payload)
		}
	case <-time.After(time.Second):
		t.Error("Message not received within timeout")
	}

	if err := hub.SendToDevice("non-existent-device", message); err == nil {
		t.Error("SendToDevice should return error for non-existent device")
	}
}

func TestHub_ActiveDevices(t *testing.T) {
	hub, logger := setupTestHub(t)

	go hub.Run()

	numClients := 5
	clients := make([]*Client, numClients)
	for i := 0; i < numClients; i++ {
		client := newTestClient(hub, logger)
		client.deviceID = fmt.Sprintf("device-%d", i)
		clients[i] = client
		hub.register <- client
	}

	time.Sleep(100 * time.Millisecond)

	if got := len(hub.ActiveDevices()); got != numClients {
		t.Errorf("Expected %d active devices, got %d", numClients, got)
	}

	for _, client := range clients {
		hub.unregister <- client
	}

	time.Sleep(100 * time.Millisecond)

	if got := len(hub.ActiveDevices()); got != 0 {
		t.Errorf("Expected 0 active devices, got %d", got)
	}
}

func TestClient_PingPong(t *testing.T) {
	hub, logger := setupTestHub(t)
	client := newTestClient(hub, logger)

	client.processMessage([]byte(`{"type": "ping", "data": "test-ping"}`))

	response := receiveJSON(t, client)
	if response["type"] != "pong" {
		t.Errorf("Expected pong type, got %v", response["type"])
	}
	if response["data"] != "test-ping" {
		t.Errorf("Expected data test-ping, got %v", response["data"])
	}
}

func TestClient_InvalidMessage(t *testing.T) {
	hub, logger := setupTestHub(t)
	client := newTestClient(hub, logger)

	client.processMessage([]byte(`{invalid json}`))

	response := receiveJSON(t, client)
	if response["type"] != "error" {
		t.Errorf("Expected error type, got %v", response["type"])
	}
}

func TestClient_SessionLifecycle(t *testing.T) {
	hub, logger := setupTestHub(t)
	client := newTestClient(hub, logger)

	client.processMessage([]byte(`{
		"type": "session_start",
		"recognition_language": "id-ID",
		"target_languages": ["en", "ja"]
	}`))

	started := receiveJSON(t, client)
	if started["type"] != "session_started" {
		t.Fatalf("Expected session_started, got %v (%v)", started["type"], started)
	}
	if started["session_id"] == "" {
		t.Error("Expected a session ID")
	}
	if started["synthesis_enabled"] != false {
		t.Error("Expected synthesis to be disabled without a voice")
	}

	if client.session == nil {
		t.Fatal("Expected client session to be set")
	}

	audioData := base64.StdEncoding.EncodeToString(make([]byte, 2048))
	client.processMessage([]byte(fmt.Sprintf(`{
		"type": "audio_chunk",
		"audio_data": "%s",
		"sample_rate": 16000,
		"encoding": "LINEAR16",
		"is_final": true
	}`, audioData)))

	segment := receiveJSON(t, client)
	if segment["type"] != "translation_segment" {
		t.Fatalf("Expected translation_segment, got %v (%v)", segment["type"], segment)
	}
	if segment["source_text"] == "" {
		t.Error("Expected recognized source text")
	}
	translations, ok := segment["translations"].([]interface{})
	if !ok || len(translations) != 2 {
		t.Errorf("Expected 2 translations, got %v", segment["translations"])
	}

	client.processMessage([]byte(`{"type": "session_end"}`))

	ended := receiveJSON(t, client)
	if ended["type"] != "session_ended" {
		t.Fatalf("Expected session_ended, got %v (%v)", ended["type"], ended)
	}
	if client.session != nil {
		t.Error("Expected client session to be cleared")
	}
}

func TestClient_ListeningRequiresSession(t *testing.T) {
	hub, logger := setupTestHub(t)
	client := newTestClient(hub, logger)

	client.processMessage([]byte(`{"type": "listening_start"}`))

	response := receiveJSON(t, client)
	if response["type"] != "error" {
		t.Errorf("Expected error without a session, got %v", response["type"])
	}
	if response["error_code"] != "no_session" {
		t.Errorf("Expected error code no_session, got %v", response["error_code"])
	}
}

func TestClient_StreamingUtterance(t *testing.T) {
	hub, logger := setupTestHub(t)
	client := newTestClient(hub, logger)

	client.processMessage([]byte(`{
		"type": "session_start",
		"recognition_language": "id-ID",
		"target_languages": ["en"]
	}`))
	if msg := receiveJSON(t, client); msg["type"] != "session_started" {
		t.Fatalf("Expected session_started, got %v", msg["type"])
	}

	client.processMessage([]byte(`{"type": "listening_start", "sample_rate": 16000}`))
	if msg := receiveJSON(t, client); msg["type"] != "listening_started" {
		t.Fatalf("Expected listening_started, got %v", msg["type"])
	}

	client.processBinaryAudioChunk(make([]byte, 1024))
	client.processBinaryAudioChunk(make([]byte, 1024))

	client.processMessage([]byte(`{"type": "listening_end"}`))
	segment := receiveJSON(t, client)
	if segment["type"] != "translation_segment" {
		t.Fatalf("Expected translation_segment, got %v (%v)", segment["type"], segment)
	}
	if client.stream != nil {
		t.Error("Expected recognition stream to be cleared")
	}
}

func TestClient_SynthesizeAfterDisconnect(t *testing.T) {
	hub, logger := setupTestHub(t)
	client := newTestClient(hub, logger)
	// No write pump and no buffer, so every outbound frame has to yield
	// to the disconnect signal.
	client.send = make(chan WriteData)

	go hub.Run()
	hub.register <- client

	config, err := speech.TranslationConfigFromAuthorizationToken("test-token", "westus")
	if err != nil {
		t.Fatalf("Failed to create translation config: %v", err)
	}
	defer config.Close()
	if err := config.SetSpeechRecognitionLanguage("id-ID"); err != nil {
		t.Fatalf("SetSpeechRecognitionLanguage failed: %v", err)
	}
	if err := config.AddTargetLanguage("en-US"); err != nil {
		t.Fatalf("AddTargetLanguage failed: %v", err)
	}
	if err := config.SetVoiceName("en-US-AriaNeural"); err != nil {
		t.Fatalf("SetVoiceName failed: %v", err)
	}

	ctx := context.Background()
	session, err := hub.service.StartSession(ctx, client.deviceID, config)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	segment := entities.NewSegment("id-ID", "halo dunia")
	segment.Translations = []entities.Translation{{Language: "en-US", Text: "hello world"}}

	hub.unregister <- client
	select {
	case <-client.done:
	case <-time.After(time.Second):
		t.Fatal("Client was not unregistered")
	}

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		client.synthesize(session, &segment)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("synthesize did not return after the client disconnected")
	}
}

func BenchmarkMessageValidation(b *testing.B) {
	validator := NewMessageValidator()

	audioChunkJSON := `{
		"type": "audio_chunk",
		"audio_data": "SGVsbG8gV29ybGQ=",
		"sample_rate": 16000,
		"encoding": "LINEAR16",
		"chunk_sequence": 1,
		"is_final": false
	}`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := validator.ValidateMessage([]byte(audioChunkJSON)); err != nil {
			b.Errorf("Validation failed: %v", err)
		}
	}
}
