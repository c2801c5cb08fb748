package websocket

import (
	"time"

	"github.com/liuwen-dev/vocana/internal/types"
)

// FrameKind labels inbound client frames. Unknown kinds are accepted and
// persisted but trigger no processing branch.
type FrameKind string

const (
	FrameAudio FrameKind = "audio"
	FrameText  FrameKind = "text"
	FrameWait  FrameKind = "wait"
)

// ClientFrame is the inbound wire shape: {"type": ..., "data": ...}.
type ClientFrame struct {
	Type FrameKind `json:"type"`
	Data string    `json:"data"`
}

// Outbound frames, distinguished by their type field.

type ConversationCreatedFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
}

func NewConversationCreatedFrame(conversationID string) ConversationCreatedFrame {
	return ConversationCreatedFrame{Type: "conversation_created", ConversationID: conversationID}
}

type HistoryMessage struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsUser    bool      `json:"is_user"`
}

type HistoryFrame struct {
	Type     string           `json:"type"`
	Messages []HistoryMessage `json:"messages"`
}

func NewHistoryFrame(msgs []types.Message) HistoryFrame {
	out := make([]HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, HistoryMessage{
			ID:        m.ID,
			Type:      string(m.MessageType),
			Content:   m.Content,
			Timestamp: m.CreatedAt,
			IsUser:    m.IsUserMessage,
		})
	}
	return HistoryFrame{Type: "history", Messages: out}
}

type TranscriptionFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func NewTranscriptionFrame(text string) TranscriptionFrame {
	return TranscriptionFrame{Type: "transcription", Text: text}
}

type WakeWordFrame struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

func NewWakeWordFrame(text string) WakeWordFrame {
	return WakeWordFrame{Type: "wake_word_detected", Text: text, Message: "wake word detected, listening"}
}

type WaitingFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewWaitingFrame() WaitingFrame {
	return WaitingFrame{Type: "waiting", Message: "still here, take your time"}
}

type TextReceivedFrame struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Model string `json:"model"`
}

func NewTextReceivedFrame(text, model string) TextReceivedFrame {
	return TextReceivedFrame{Type: "text_received", Text: text, Model: model}
}

type ModelStreamFrame struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Model string `json:"model"`
}

func NewModelStreamFrame(text, model string) ModelStreamFrame {
	return ModelStreamFrame{Type: "model_stream", Text: text, Model: model}
}

type ModelStreamEndFrame struct {
	Type  string `json:"type"`
	Model string `json:"model"`
}

func NewModelStreamEndFrame(model string) ModelStreamEndFrame {
	return ModelStreamEndFrame{Type: "model_stream_end", Model: model}
}

type ErrorFrame struct {
	Type            string   `json:"type"`
	Message         string   `json:"message"`
	AvailableModels []string `json:"available_models,omitempty"`
}

func NewErrorFrame(message string) ErrorFrame {
	return ErrorFrame{Type: "error", Message: message}
}

func NewUnsupportedModelFrame(model string, available []string) ErrorFrame {
	return ErrorFrame{
		Type:            "error",
		Message:         "model " + model + " is not available, please pick another",
		AvailableModels: available,
	}
}
