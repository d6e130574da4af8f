package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/penerjemah/domain"
	"github.com/satriahrh/penerjemah/domain/entities"
	"github.com/satriahrh/penerjemah/domain/repositories"
	"github.com/satriahrh/penerjemah/speech"
	"github.com/satriahrh/penerjemah/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio chunks
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Devices connect directly, not from browsers.
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub maintains the set of active clients
type Hub struct {
	// Registered clients, keyed by device ID.
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	mu sync.RWMutex

	service *usecase.TranslationService

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(service *usecase.TranslationService, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		service:    service,
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.deviceID] = client
			h.mu.Unlock()
			h.logger.Info("Client registered", zap.String("deviceID", client.deviceID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.deviceID]; ok {
				delete(h.clients, client.deviceID)
				close(client.done)
			}
			h.mu.Unlock()
			h.logger.Info("Client unregistered", zap.String("deviceID", client.deviceID))
		}
	}
}

// ActiveDevices returns the device IDs of all connected clients
func (h *Hub) ActiveDevices() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	devices := make([]string, 0, len(h.clients))
	for deviceID := range h.clients {
		devices = append(devices, deviceID)
	}
	return devices
}

// SendToDevice sends a message to a specific connected device
func (h *Hub) SendToDevice(deviceID string, data WriteData) error {
	h.mu.RLock()
	client, ok := h.clients[deviceID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("device %s is not connected", deviceID)
	}

	select {
	case client.send <- data:
		return nil
	default:
		return fmt.Errorf("send buffer full for device %s", deviceID)
	}
}

type WriteData struct {
	// Type is the websocket frame type. Expect websocket.TextMessage or
	// websocket.BinaryMessage
	Type    int
	Payload []byte
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages. The channel is never
	// closed; senders select on done instead.
	send chan WriteData

	// Closed by the hub when the client unregisters. Goroutines still
	// producing outbound frames select on it to stop.
	done chan struct{}

	// Authenticated device identity
	deviceID string
	region   string
	token    string

	logger *zap.Logger

	validator *MessageValidator

	// Translation session state
	session *entities.Session
	stream  repositories.RecognitionStream

	sampleRate int
	encoding   string

	chunkCount     int
	listeningStart time.Time

	mutex sync.Mutex
}

// HandleConnection upgrades an authenticated request and starts the
// reader and writer pumps
func HandleConnection(hub *Hub, c echo.Context, deviceID, region, token string, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan WriteData, 256),
		done:      make(chan struct{}),
		deviceID:  deviceID,
		region:    region,
		token:     token,
		logger:    logger,
		validator: NewMessageValidator(),
	}

	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	return nil
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.closeSession()
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			c.processMessage(message)
		case websocket.BinaryMessage:
			c.processBinaryAudioChunk(message)
		default:
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processMessage processes incoming control messages from the device
func (c *Client) processMessage(message []byte) {
	msg, err := c.validator.ValidateMessage(message)
	if err != nil {
		c.logger.Warn("Invalid message", zap.Error(err))
		c.sendJSON(CreateErrorMessage("invalid_message", "Message validation failed", err.Error()))
		return
	}

	switch m := msg.(type) {
	case *SessionStartMessage:
		c.handleSessionStart(m)
	case *ListeningStartMessage:
		c.handleListeningStart(m)
	case *ListeningEndMessage:
		c.handleListeningEnd()
	case *AudioChunkMessage:
		c.handleAudioChunk(m)
	case *SessionEndMessage:
		c.handleSessionEnd()
	case *PingMessage:
		c.sendJSON(CreatePongMessage(m.Data))
	}
}

// handleSessionStart builds a translation configuration from the
// message, opens a session from its snapshot, and releases the
// configuration. A session that is already running is ended first.
func (c *Client) handleSessionStart(msg *SessionStartMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.session != nil {
		if err := c.hub.service.EndSession(ctx, c.session); err != nil {
			c.logger.Error("Failed to end previous session",
				zap.String("sessionID", c.session.ID),
				zap.Error(err))
		}
		c.session = nil
	}

	config, err := speech.TranslationConfigFromAuthorizationToken(c.token, c.region)
	if err != nil {
		c.logger.Error("Failed to create translation config", zap.Error(err))
		c.sendJSON(CreateErrorMessage("config_failed", "Failed to create translation configuration", err.Error()))
		return
	}
	defer config.Close()

	if err := c.applySettings(config, msg); err != nil {
		c.logger.Warn("Rejected session settings",
			zap.String("deviceID", c.deviceID),
			zap.Error(err))
		c.sendJSON(CreateErrorMessage("invalid_settings", "Invalid session settings", err.Error()))
		return
	}

	session, err := c.hub.service.StartSession(ctx, c.deviceID, config)
	if err != nil {
		c.logger.Error("Failed to start session",
			zap.String("deviceID", c.deviceID),
			zap.Error(err))
		c.sendJSON(CreateErrorMessage("session_failed", "Failed to start session", err.Error()))
		return
	}

	c.session = session
	c.sampleRate = msg.SampleRate
	if c.sampleRate == 0 {
		c.sampleRate = 16000
	}
	c.encoding = msg.Encoding
	if c.encoding == "" {
		c.encoding = "LINEAR16"
	}

	c.logger.Info("Session started",
		zap.String("deviceID", c.deviceID),
		zap.String("sessionID", session.ID))

	c.sendJSON(&SessionStartedMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeSessionStarted,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		SessionID:           session.ID,
		RecognitionLanguage: session.Settings.RecognitionLanguage,
		TargetLanguages:     session.Settings.TargetLanguages,
		SynthesisEnabled:    session.Settings.SynthesisEnabled(),
	})
}

// applySettings configures recognition language, target languages and
// voice in the order the device listed them
func (c *Client) applySettings(config *speech.TranslationConfig, msg *SessionStartMessage) error {
	if err := config.SetSpeechRecognitionLanguage(msg.RecognitionLanguage); err != nil {
		return err
	}
	for _, lang := range msg.TargetLanguages {
		if err := config.AddTargetLanguage(lang); err != nil {
			return err
		}
	}
	if msg.VoiceName != "" {
		if err := config.SetVoiceName(msg.VoiceName); err != nil {
			return err
		}
	}
	return nil
}

// handleListeningStart opens a streaming utterance
func (c *Client) handleListeningStart(msg *ListeningStartMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.session == nil {
		c.sendJSON(CreateErrorMessage("no_session", "No active session, send session_start first", ""))
		return
	}
	if c.stream != nil {
		c.sendJSON(CreateErrorMessage("already_listening", "A streaming utterance is already open", ""))
		return
	}

	sampleRate := c.sampleRate
	if msg.SampleRate > 0 {
		sampleRate = msg.SampleRate
	}
	encoding := c.encoding
	if msg.Encoding != "" {
		encoding = msg.Encoding
	}

	stream, err := c.hub.service.BeginUtterance(ctx, c.session, sampleRate, encoding)
	if err != nil {
		c.logger.Error("Failed to begin utterance",
			zap.String("sessionID", c.session.ID),
			zap.Error(err))
		c.sendJSON(CreateErrorMessage("recognition_failed", "Failed to start recognition", err.Error()))
		return
	}

	c.stream = stream
	c.chunkCount = 0
	c.listeningStart = time.Now()

	c.sendJSON(map[string]interface{}{
		"type":       MessageTypeListeningStarted,
		"session_id": c.session.ID,
		"timestamp":  c.listeningStart.Unix(),
	})
}

// processBinaryAudioChunk feeds binary audio frames into the open
// recognition stream
func (c *Client) processBinaryAudioChunk(data []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.session == nil || c.stream == nil {
		c.logger.Warn("Received binary audio chunk with no open utterance",
			zap.String("deviceID", c.deviceID))
		return
	}

	c.chunkCount++

	if err := c.stream.Stream(data); err != nil {
		c.logger.Error("Failed to stream audio data",
			zap.String("sessionID", c.session.ID),
			zap.Error(err))
		return
	}

	c.logger.Debug("Streamed audio chunk",
		zap.String("sessionID", c.session.ID),
		zap.Int("totalChunks", c.chunkCount))
}

// handleListeningEnd closes the utterance, sends the translated segment,
// and starts synthesis when the session asked for a voice
func (c *Client) handleListeningEnd() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.session == nil || c.stream == nil {
		c.sendJSON(CreateErrorMessage("not_listening", "No streaming utterance is open", ""))
		return
	}

	stream := c.stream
	c.stream = nil

	segment, err := c.hub.service.CompleteUtterance(ctx, c.session, stream)
	if err != nil {
		c.logger.Error("Failed to complete utterance",
			zap.String("sessionID", c.session.ID),
			zap.Error(err))
		c.sendJSON(CreateErrorMessage("translation_failed", "Failed to translate utterance", err.Error()))
		return
	}

	c.logger.Info("Utterance translated",
		zap.String("sessionID", c.session.ID),
		zap.Int("sequence", segment.Sequence),
		zap.Duration("listening", time.Since(c.listeningStart)))

	c.sendJSON(usecase.SegmentMessage(c.session, segment))

	if c.session.Settings.SynthesisEnabled() {
		go c.synthesize(c.session, segment)
	}
}

// handleAudioChunk handles the non-streaming path: one complete
// utterance in a single message
func (c *Client) handleAudioChunk(msg *AudioChunkMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.session == nil {
		c.sendJSON(CreateErrorMessage("no_session", "No active session, send session_start first", ""))
		return
	}

	segmentMsg, err := c.hub.service.ProcessAudioChunk(ctx, c.session, &domain.AudioChunkMessage{
		Type:       string(msg.Type),
		DeviceID:   c.deviceID,
		SessionID:  c.session.ID,
		AudioData:  msg.AudioData,
		SampleRate: msg.SampleRate,
		Encoding:   msg.Encoding,
		ChunkSeq:   msg.ChunkSeq,
		IsFinal:    msg.IsFinal,
	})
	if err != nil {
		c.logger.Error("Failed to process audio chunk",
			zap.String("sessionID", c.session.ID),
			zap.Error(err))
		c.sendJSON(CreateErrorMessage("translation_failed", "Failed to translate utterance", err.Error()))
		return
	}

	c.sendJSON(segmentMsg)

	if c.session.Settings.SynthesisEnabled() && len(c.session.Segments) > 0 {
		segment := c.session.Segments[len(c.session.Segments)-1]
		go c.synthesize(c.session, &segment)
	}
}

// synthesize streams synthesized audio for a segment: a synthesis_start
// text frame, binary audio frames, then a synthesis_end text frame
func (c *Client) synthesize(session *entities.Session, segment *entities.Segment) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	audioChan, language, err := c.hub.service.SynthesizeSegment(ctx, session, segment)
	if err != nil {
		c.logger.Error("Failed to synthesize segment",
			zap.String("sessionID", session.ID),
			zap.Int("sequence", segment.Sequence),
			zap.Error(err))
		return
	}

	c.sendJSON(&SynthesisStartMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeSynthesisStart,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		SessionID: session.ID,
		Sequence:  segment.Sequence,
		Language:  language,
		VoiceName: session.Settings.VoiceName,
	})

	for audioData := range audioChan {
		select {
		case c.send <- WriteData{Type: websocket.BinaryMessage, Payload: audioData}:
		case <-c.done:
			return
		}
	}

	c.sendJSON(map[string]interface{}{
		"type":       MessageTypeSynthesisEnd,
		"session_id": session.ID,
		"sequence":   segment.Sequence,
		"timestamp":  time.Now().Unix(),
	})
}

// handleSessionEnd terminates the session
func (c *Client) handleSessionEnd() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.session == nil {
		c.sendJSON(CreateErrorMessage("no_session", "No active session", ""))
		return
	}

	sessionID := c.session.ID
	segments := len(c.session.Segments)

	if err := c.hub.service.EndSession(ctx, c.session); err != nil {
		c.logger.Error("Failed to end session",
			zap.String("sessionID", sessionID),
			zap.Error(err))
		c.sendJSON(CreateErrorMessage("session_failed", "Failed to end session", err.Error()))
		return
	}

	c.session = nil
	c.stream = nil

	c.sendJSON(map[string]interface{}{
		"type":       MessageTypeSessionEnded,
		"session_id": sessionID,
		"segments":   segments,
		"timestamp":  time.Now().Unix(),
	})
}

// closeSession ends any session left open when the connection drops
func (c *Client) closeSession() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.session == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.hub.service.EndSession(ctx, c.session); err != nil {
		c.logger.Error("Failed to end session on disconnect",
			zap.String("sessionID", c.session.ID),
			zap.Error(err))
	}
	c.session = nil
	c.stream = nil
}

// sendJSON marshals a message and queues it without blocking the caller.
// Messages for an unregistered client are dropped.
func (c *Client) sendJSON(message interface{}) {
	payload, err := json.Marshal(message)
	if err != nil {
		c.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}

	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- WriteData{Type: websocket.TextMessage, Payload: payload}:
	case <-c.done:
	default:
		c.logger.Warn("Send buffer full, dropping message",
			zap.String("deviceID", c.deviceID))
	}
}
