package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/liuwen-dev/vocana/internal/types"
	"github.com/liuwen-dev/vocana/pkg/Logger"
)

// ChatService owns conversation and message lifecycle on top of the store.
type ChatService interface {
	CreateConversation(ctx context.Context, userID, title string) (*types.Conversation, error)
	// GetOrCreateConversation binds a session to a conversation. A missing,
	// foreign or closed conversationID silently falls back to a fresh
	// conversation; created reports whether a new one was made.
	GetOrCreateConversation(ctx context.Context, userID, conversationID string) (conv *types.Conversation, created bool, err error)
	ListConversations(ctx context.Context, userID string, limit int) ([]types.Conversation, error)
	ListMessages(ctx context.Context, userID, conversationID string, limit int) ([]types.Message, error)
	SaveMessage(ctx context.Context, userID, conversationID string, msgType types.MessageType, content string, isUser bool) (*types.Message, error)
	TouchConversation(ctx context.Context, conversationID string) error
	CloseConversation(ctx context.Context, userID, conversationID string) error
}

type chatService struct {
	repository ChatRepository
	logger     *Logger.Logger
}

func NewChatService(repository ChatRepository, logger *Logger.Logger) ChatService {
	return &chatService{
		repository: repository,
		logger:     logger,
	}
}

// CreateConversation implements ChatService.
func (s *chatService) CreateConversation(ctx context.Context, userID, title string) (*types.Conversation, error) {
	if title == "" {
		title = fmt.Sprintf("chat_%s", time.Now().Format("20060102_150405"))
	}
	now := time.Now()
	conv := types.Conversation{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		IsActive:  true,
	}
	if err := s.repository.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	s.logger.Infof("created conversation %s for user %s", conv.ID, userID)
	return &conv, nil
}

// GetOrCreateConversation implements ChatService.
func (s *chatService) GetOrCreateConversation(ctx context.Context, userID, conversationID string) (*types.Conversation, bool, error) {
	if conversationID != "" {
		conv, err := s.repository.GetConversation(ctx, conversationID)
		if err == nil && conv.UserID == userID && conv.IsActive {
			return conv, false, nil
		}
		s.logger.Warnf("conversation %s not usable for user %s, creating a new one", conversationID, userID)
	}
	conv, err := s.CreateConversation(ctx, userID, "")
	if err != nil {
		return nil, false, err
	}
	return conv, true, nil
}

// ListConversations implements ChatService.
func (s *chatService) ListConversations(ctx context.Context, userID string, limit int) ([]types.Conversation, error) {
	return s.repository.ListConversations(ctx, userID, limit)
}

// ListMessages implements ChatService.
func (s *chatService) ListMessages(ctx context.Context, userID, conversationID string, limit int) ([]types.Message, error) {
	return s.repository.ListMessages(ctx, userID, conversationID, limit)
}

// SaveMessage implements ChatService. The write is synchronous: callers may
// rely on the message being durable once this returns.
func (s *chatService) SaveMessage(ctx context.Context, userID, conversationID string, msgType types.MessageType, content string, isUser bool) (*types.Message, error) {
	msg := types.Message{
		ID:             uuid.New().String(),
		UserID:         userID,
		ConversationID: conversationID,
		MessageType:    msgType,
		Content:        content,
		IsUserMessage:  isUser,
		CreatedAt:      time.Now(),
	}
	if err := s.repository.AppendMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}
	return &msg, nil
}

// TouchConversation implements ChatService.
func (s *chatService) TouchConversation(ctx context.Context, conversationID string) error {
	return s.repository.TouchConversation(ctx, conversationID)
}

// CloseConversation implements ChatService.
func (s *chatService) CloseConversation(ctx context.Context, userID, conversationID string) error {
	if err := s.repository.CloseConversation(ctx, userID, conversationID); err != nil {
		return err
	}
	s.logger.Infof("closed conversation %s", conversationID)
	return nil
}
