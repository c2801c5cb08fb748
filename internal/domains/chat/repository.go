package chat

import (
	"context"
	"errors"

	"github.com/liuwen-dev/vocana/internal/types"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
)

// ChatRepository is the durable conversation store. Appends and reads must
// be safe across concurrent sessions; the store's transaction boundary owns
// that guarantee, not the callers.
type ChatRepository interface {
	CreateConversation(ctx context.Context, conv types.Conversation) error
	GetConversation(ctx context.Context, id string) (*types.Conversation, error)
	ListConversations(ctx context.Context, userID string, limit int) ([]types.Conversation, error)
	// ListMessages returns the most recent limit messages in ascending
	// creation order.
	ListMessages(ctx context.Context, userID, conversationID string, limit int) ([]types.Message, error)
	// AppendMessage writes one immutable message and advances the owning
	// conversation's updatedAt in the same transaction.
	AppendMessage(ctx context.Context, msg types.Message) error
	TouchConversation(ctx context.Context, id string) error
	CloseConversation(ctx context.Context, userID, id string) error
}
