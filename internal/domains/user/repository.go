package user

import (
	"context"
	"encoding/json"
	"time"
)

// User is the directory entry a session identity resolves against.
// @Description User account information
type User struct {
	ID                string          `json:"id" example:"u-1001"`
	Username          string          `json:"username" example:"demo_user"`
	Email             string          `json:"email,omitempty" example:"demo@example.com"`
	Description       string          `json:"description,omitempty"`
	ResponseFrequency float64         `json:"response_frequency" example:"1.0"`
	Preferences       json.RawMessage `json:"preferences,omitempty"`
	LastActive        *time.Time      `json:"last_active,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	IsActive          bool            `json:"is_active"`
}

// CreateUserRequest body for user registration
// @Description Request body for creating a user
type CreateUserRequest struct {
	ID                string          `json:"id" binding:"required"`
	Username          string          `json:"username" binding:"required"`
	Email             string          `json:"email,omitempty"`
	Description       string          `json:"description,omitempty"`
	ResponseFrequency float64         `json:"response_frequency,omitempty"`
	Preferences       json.RawMessage `json:"preferences,omitempty"`
}

// UpdateUserRequest body; nil fields stay untouched.
type UpdateUserRequest struct {
	Username          *string          `json:"username,omitempty"`
	Email             *string          `json:"email,omitempty"`
	Description       *string          `json:"description,omitempty"`
	ResponseFrequency *float64         `json:"response_frequency,omitempty"`
	Preferences       *json.RawMessage `json:"preferences,omitempty"`
}

// UserStats aggregates the usage counters kept alongside the profile.
type UserStats struct {
	UserID             string     `json:"user_id"`
	TotalConversations int64      `json:"total_conversations"`
	TotalMessages      int64      `json:"total_messages"`
	LastActive         *time.Time `json:"last_active,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// UserRepository is the durable user directory.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, id string, updates UpdateUserRequest) (*User, error)
	// Delete is a soft delete: the row stays, is_active flips to false.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
	TouchActivity(ctx context.Context, id string) error
}

// UsageReader exposes the per-user counters the chat side maintains.
type UsageReader interface {
	GetUsage(ctx context.Context, userID string) (conversations, messages int64, err error)
}
