package types

import (
	"time"
)

// MessageType labels a persisted utterance. Raw client kinds (audio, text,
// wait) are stored as-is; transcription and model_response are written by
// the server side of an exchange.
type MessageType string

const (
	MessageAudio         MessageType = "audio"
	MessageText          MessageType = "text"
	MessageWait          MessageType = "wait"
	MessageTranscription MessageType = "transcription"
	MessageModelResponse MessageType = "model_response"
)

// Message is append-only: once written it is never mutated. Ordering within
// a conversation is by CreatedAt.
type Message struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	ConversationID string      `json:"conversation_id"`
	MessageType    MessageType `json:"message_type"`
	Content        string      `json:"content"`
	IsUserMessage  bool        `json:"is_user_message"`
	CreatedAt      time.Time   `json:"created_at"`
}

type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsActive  bool      `json:"is_active"`
}

// CreateConversation request body
// @Description Conversation creation body
type CreateConversation struct {
	Title string `json:"title" example:"Trip planning"`
}
