package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis"
	"gorm.io/gorm"

	"github.com/liuwen-dev/vocana/internal/domains/chat"
	"github.com/liuwen-dev/vocana/internal/types"
	"github.com/liuwen-dev/vocana/pkg/Logger"
)

// GormChatRepo persists conversations and messages in mysql and keeps hot
// per-user usage counters in redis. Counter updates are best effort and
// never fail a write.
type GormChatRepo struct {
	db     *gorm.DB
	rc     *redis.Client
	logger *Logger.Logger
}

func UserStatsKey(userID string) string {
	return fmt.Sprintf("user:%s:stats", userID)
}

func NewGormChatRepo(db *gorm.DB, rc *redis.Client, logger *Logger.Logger) *GormChatRepo {
	return &GormChatRepo{db: db, rc: rc, logger: logger}
}

// CreateConversation implements chat.ChatRepository.
func (g *GormChatRepo) CreateConversation(ctx context.Context, conv types.Conversation) error {
	var entity ConversationEntity
	entity.FromDomain(conv)
	if err := g.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	g.incrStats(conv.UserID, "conversations", 1)
	return nil
}

// GetConversation implements chat.ChatRepository.
func (g *GormChatRepo) GetConversation(ctx context.Context, id string) (*types.Conversation, error) {
	var entity ConversationEntity
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, chat.ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return entity.ToDomain(), nil
}

// ListConversations implements chat.ChatRepository.
func (g *GormChatRepo) ListConversations(ctx context.Context, userID string, limit int) ([]types.Conversation, error) {
	var entities []ConversationEntity
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("updated_at DESC").
		Limit(limit).
		Find(&entities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	out := make([]types.Conversation, 0, len(entities))
	for i := range entities {
		out = append(out, *entities[i].ToDomain())
	}
	return out, nil
}

// ListMessages implements chat.ChatRepository: the most recent limit
// messages, returned oldest first.
func (g *GormChatRepo) ListMessages(ctx context.Context, userID, conversationID string, limit int) ([]types.Message, error) {
	var entities []MessageEntity
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND conversation_id = ?", userID, conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	out := make([]types.Message, len(entities))
	for i := range entities {
		// query is newest-first, callers want ascending
		out[len(entities)-1-i] = *entities[i].ToDomain()
	}
	return out, nil
}

// AppendMessage implements chat.ChatRepository. The message insert and the
// conversation touch share one transaction.
func (g *GormChatRepo) AppendMessage(ctx context.Context, msg types.Message) error {
	var entity MessageEntity
	entity.FromDomain(msg)
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entity).Error; err != nil {
			return err
		}
		return tx.Model(&ConversationEntity{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	g.incrStats(msg.UserID, "messages", 1)
	return nil
}

// TouchConversation implements chat.ChatRepository.
func (g *GormChatRepo) TouchConversation(ctx context.Context, id string) error {
	err := g.db.WithContext(ctx).Model(&ConversationEntity{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
	if err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}
	return nil
}

// CloseConversation implements chat.ChatRepository (soft close).
func (g *GormChatRepo) CloseConversation(ctx context.Context, userID, id string) error {
	result := g.db.WithContext(ctx).Model(&ConversationEntity{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to close conversation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return chat.ErrConversationNotFound
	}
	return nil
}

// GetUsage implements user.UsageReader.
func (g *GormChatRepo) GetUsage(ctx context.Context, userID string) (int64, int64, error) {
	fields, err := g.rc.HGetAll(UserStatsKey(userID)).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read usage counters: %w", err)
	}
	return g.parseCounter(fields["conversations"]), g.parseCounter(fields["messages"]), nil
}

func (g *GormChatRepo) incrStats(userID, field string, delta int64) {
	if err := g.rc.HIncrBy(UserStatsKey(userID), field, delta).Err(); err != nil {
		g.logger.Warnf("failed to bump %s counter for user %s: %v", field, userID, err)
	}
}

// parseCounter treats an absent field as zero; a corrupt one also reads as
// zero but gets logged, in line with the best-effort counter writes.
func (g *GormChatRepo) parseCounter(raw string) int64 {
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		g.logger.Warnf("corrupt usage counter value %q: %v", raw, err)
		return 0
	}
	return n
}
