package chat

import (
	"time"

	"github.com/liuwen-dev/vocana/internal/types"
)

type ConversationEntity struct {
	ID        string    `gorm:"primaryKey;type:char(36);not null"`
	UserID    string    `gorm:"column:user_id;type:varchar(50);not null;index"`
	Title     string    `gorm:"type:varchar(200)"`
	CreatedAt time.Time `gorm:"autoCreateTime(3)"`
	UpdatedAt time.Time `gorm:"autoUpdateTime(3)"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
}

func (ConversationEntity) TableName() string { return "conversations" }

type MessageEntity struct {
	ID             string    `gorm:"primaryKey;type:char(36);not null"`
	UserID         string    `gorm:"column:user_id;type:varchar(50);not null;index"`
	ConversationID string    `gorm:"column:conversation_id;type:char(36);not null;index"`
	MessageType    string    `gorm:"column:message_type;type:varchar(20);not null"`
	Content        string    `gorm:"type:text;not null"`
	IsUserMessage  bool      `gorm:"column:is_user_message;default:true"`
	CreatedAt      time.Time `gorm:"autoCreateTime(3);index"`
}

func (MessageEntity) TableName() string { return "chat_messages" }

func (e *ConversationEntity) ToDomain() *types.Conversation {
	return &types.Conversation{
		ID:        e.ID,
		UserID:    e.UserID,
		Title:     e.Title,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		IsActive:  e.IsActive,
	}
}

func (e *ConversationEntity) FromDomain(c types.Conversation) {
	e.ID = c.ID
	e.UserID = c.UserID
	e.Title = c.Title
	e.CreatedAt = c.CreatedAt
	e.UpdatedAt = c.UpdatedAt
	e.IsActive = c.IsActive
}

func (e *MessageEntity) ToDomain() *types.Message {
	return &types.Message{
		ID:             e.ID,
		UserID:         e.UserID,
		ConversationID: e.ConversationID,
		MessageType:    types.MessageType(e.MessageType),
		Content:        e.Content,
		IsUserMessage:  e.IsUserMessage,
		CreatedAt:      e.CreatedAt,
	}
}

func (e *MessageEntity) FromDomain(m types.Message) {
	e.ID = m.ID
	e.UserID = m.UserID
	e.ConversationID = m.ConversationID
	e.MessageType = string(m.MessageType)
	e.Content = m.Content
	e.IsUserMessage = m.IsUserMessage
	e.CreatedAt = m.CreatedAt
}
