package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nareswara/svara/domain/entities"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	MessageTypeAudioChunk    MessageType = "audio_chunk"
	MessageTypeTranscription MessageType = "transcription"
	MessageTypePing          MessageType = "ping"
	MessageTypePong          MessageType = "pong"
	MessageTypeError         MessageType = "error"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type" validate:"required"`
	Timestamp string      `json:"timestamp"`
	MessageID string      `json:"message_id,omitempty"`
}

// AudioChunkMessage represents an incoming audio chunk from a client
type AudioChunkMessage struct {
	BaseMessage
	AudioData  string `json:"audio_data" validate:"required"` // base64 encoded
	Language   string `json:"language,omitempty"`
	SampleRate int    `json:"sample_rate" validate:"required"`
	Encoding   string `json:"encoding" validate:"required,oneof=pcm16"`
	ChunkSeq   int    `json:"chunk_sequence" validate:"min=0"`
	IsFinal    bool   `json:"is_final"`
}

// TranscriptionMessage carries a recognition hypothesis back to the client
type TranscriptionMessage struct {
	BaseMessage
	SessionID  string  `json:"session_id"`
	Transcript string  `json:"transcript"`
	Confidence float32 `json:"confidence"`
	IsFinal    bool    `json:"is_final"`
	DurationMs int64   `json:"duration_ms,omitempty"`
}

// PingMessage represents a ping message for connection health check
type PingMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// PongMessage represents a pong response
type PongMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// MessageValidator provides validation for WebSocket messages
type MessageValidator struct{}

// NewMessageValidator creates a new message validator
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{}
}

// ValidateMessage validates an incoming message
func (v *MessageValidator) ValidateMessage(messageBytes []byte) (interface{}, error) {
	// First parse as base message to get type
	var base BaseMessage
	if err := json.Unmarshal(messageBytes, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	// Add timestamp if missing
	if base.Timestamp == "" {
		base.Timestamp = time.Now().Format(time.RFC3339)
	}

	switch base.Type {
	case MessageTypeAudioChunk:
		var msg AudioChunkMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid audio chunk message: %w", err)
		}
		if err := v.validateAudioChunk(&msg); err != nil {
			return nil, err
		}
		return &msg, nil

	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid ping message: %w", err)
		}
		return &msg, nil

	default:
		return nil, fmt.Errorf("unsupported message type: %s", base.Type)
	}
}

// validateAudioChunk validates audio chunk message fields
func (v *MessageValidator) validateAudioChunk(msg *AudioChunkMessage) error {
	if msg.AudioData == "" && !msg.IsFinal {
		return fmt.Errorf("audio_data is required")
	}
	if _, err := entities.ParseSampleRate(msg.SampleRate); err != nil {
		return err
	}
	if msg.Encoding == "" {
		return fmt.Errorf("encoding is required")
	}
	if msg.Encoding != "pcm16" {
		return fmt.Errorf("encoding must be pcm16")
	}
	if msg.ChunkSeq < 0 {
		return fmt.Errorf("chunk_sequence must not be negative")
	}
	if msg.Language != "" {
		if _, err := entities.ParseLanguage(msg.Language); err != nil {
			return err
		}
	}
	return nil
}

// CreateErrorMessage creates a standardized error message
func CreateErrorMessage(code, message, details string) *ErrorMessage {
	return &ErrorMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeError,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Code:    code,
		Message: message,
		Details: details,
	}
}

// CreatePongMessage creates a pong response message
func CreatePongMessage(data string) *PongMessage {
	return &PongMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypePong,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Data: data,
	}
}

// CreateTranscriptionMessage creates a transcription event for a session
func CreateTranscriptionMessage(sessionID string, t entities.Transcription, isFinal bool) *TranscriptionMessage {
	return &TranscriptionMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeTranscription,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		SessionID:  sessionID,
		Transcript: t.Text,
		Confidence: t.Confidence,
		IsFinal:    isFinal,
		DurationMs: t.Duration.Milliseconds(),
	}
}
