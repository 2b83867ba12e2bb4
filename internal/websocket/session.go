package websocket

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nareswara/svara/domain/entities"
	"github.com/nareswara/svara/domain/repositories"
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
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler serves streaming recognition over WebSocket connections.
type Handler struct {
	engine    repositories.RecognitionEngine
	validator *MessageValidator
	logger    *zap.Logger
}

// NewHandler creates a WebSocket recognition handler
func NewHandler(engine repositories.RecognitionEngine, logger *zap.Logger) *Handler {
	return &Handler{
		engine:    engine,
		validator: NewMessageValidator(),
		logger:    logger,
	}
}

type writeData struct {
	// Type is the websocket frame type.
	// Expect websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte
}

// client is a middleman between one websocket connection and the engine.
type client struct {
	handler *Handler

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan writeData

	// Session ID for this connection
	sessionID string

	logger *zap.Logger

	// Active recognition state
	session repositories.RecognitionSession
	forward sync.WaitGroup

	mutex sync.Mutex
}

// HandleRecognition upgrades the request and runs one recognition session
// per connection.
func (h *Handler) HandleRecognition(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	cl := &client{
		handler:   h,
		conn:      conn,
		send:      make(chan writeData, 256),
		sessionID: uuid.New().String(),
		logger:    h.logger,
	}

	h.logger.Info("WebSocket recognition session opened",
		zap.String("sessionID", cl.sessionID))

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go cl.writePump()
	go cl.readPump()

	return nil
}

// readPump pumps messages from the websocket connection into the engine.
func (c *client) readPump() {
	defer func() {
		c.abandonSession()
		close(c.send)
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
			return
		}

		if messageType != websocket.TextMessage {
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
			continue
		}

		parsed, err := c.handler.validator.ValidateMessage(message)
		if err != nil {
			c.sendJSON(CreateErrorMessage("invalid_message", err.Error(), ""))
			continue
		}

		switch msg := parsed.(type) {
		case *AudioChunkMessage:
			if done := c.processAudioChunk(msg); done {
				return
			}
		case *PingMessage:
			c.sendJSON(CreatePongMessage(msg.Data))
		}
	}
}

// writePump pumps outbound messages onto the websocket connection.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processAudioChunk feeds one chunk into the recognition session, opening it
// on the first chunk. Returns true once the final hypothesis was sent.
func (c *client) processAudioChunk(msg *AudioChunkMessage) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if c.session == nil {
		if err := c.openSession(ctx, msg); err != nil {
			c.sendJSON(CreateErrorMessage("session_failed", err.Error(), ""))
			return false
		}
	}

	if msg.AudioData != "" {
		audio, err := base64.StdEncoding.DecodeString(msg.AudioData)
		if err != nil {
			c.sendJSON(CreateErrorMessage("invalid_audio", "audio_data is not valid base64", err.Error()))
			return false
		}
		if err := c.session.Write(ctx, audio); err != nil {
			c.logger.Error("Failed to feed audio chunk",
				zap.String("sessionID", c.sessionID),
				zap.Int("chunkSequence", msg.ChunkSeq),
				zap.Error(err))
			c.sendJSON(CreateErrorMessage("recognition_failed", err.Error(), ""))
			return false
		}
	}

	if !msg.IsFinal {
		return false
	}

	final, err := c.session.CloseAndWait(ctx)
	c.forward.Wait()
	c.session = nil
	if err != nil {
		c.sendJSON(CreateErrorMessage("recognition_failed", err.Error(), ""))
		return true
	}

	c.logger.Info("Transcription completed",
		zap.String("sessionID", c.sessionID),
		zap.String("transcription", final.Text))

	c.sendJSON(CreateTranscriptionMessage(c.sessionID, final, true))
	return true
}

func (c *client) openSession(ctx context.Context, msg *AudioChunkMessage) error {
	language := c.handler.engine.Language()
	if msg.Language != "" {
		parsed, err := entities.ParseLanguage(msg.Language)
		if err != nil {
			return err
		}
		language = parsed
	}
	rate, err := entities.ParseSampleRate(msg.SampleRate)
	if err != nil {
		return err
	}

	session, err := c.handler.engine.NewSession(ctx, repositories.SessionConfig{
		Language:   language,
		SampleRate: rate,
		Encoding:   entities.EncodingPCM16,
	})
	if err != nil {
		return err
	}
	c.session = session

	c.forward.Add(1)
	go func() {
		defer c.forward.Done()
		for partial := range session.Results() {
			c.sendJSON(CreateTranscriptionMessage(c.sessionID, partial, false))
		}
	}()

	c.logger.Info("Recognition session started",
		zap.String("sessionID", c.sessionID),
		zap.String("language", string(language)),
		zap.Int("sampleRate", int(rate)))
	return nil
}

// abandonSession drains a session left open by a disconnecting peer.
func (c *client) abandonSession() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.session == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := c.session.CloseAndWait(ctx); err != nil {
		c.logger.Warn("Failed to close abandoned session",
			zap.String("sessionID", c.sessionID),
			zap.Error(err))
	}
	c.forward.Wait()
	c.session = nil
}

func (c *client) sendJSON(message interface{}) {
	payload, err := json.Marshal(message)
	if err != nil {
		c.logger.Error("Failed to marshal outbound message", zap.Error(err))
		return
	}
	select {
	case c.send <- writeData{Type: websocket.TextMessage, Payload: payload}:
	default:
		c.logger.Warn("Dropping message for slow consumer",
			zap.String("sessionID", c.sessionID))
	}
}
