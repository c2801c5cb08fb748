package handlers

import (
	"time"

	"github.com/liuwen-dev/vocana/internal/domains/user"
	"github.com/liuwen-dev/vocana/internal/types"
	"github.com/liuwen-dev/vocana/pkg/assistant"
)

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message" example:"Operation completed successfully"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong"`
	Details string `json:"details,omitempty" example:"Validation error details"`
}

// PaginationInfo represents pagination information
type PaginationInfo struct {
	Total  int64 `json:"total" example:"150"`
	Offset int   `json:"offset" example:"0"`
	Limit  int   `json:"limit" example:"20"`
}

// ModelsResponse lists the selectable chat models.
type ModelsResponse struct {
	Models       []assistant.ModelDescriptor `json:"models"`
	DefaultModel string                      `json:"default_model"`
	TotalCount   int                         `json:"total_count"`
}

// ConversationResponse wraps a single conversation.
type ConversationResponse struct {
	Conversation types.Conversation `json:"conversation"`
}

// ListConversationsResponse lists a user's conversations.
type ListConversationsResponse struct {
	Conversations []types.Conversation `json:"conversations"`
	Count         int                  `json:"count"`
}

// ListMessagesResponse lists messages of one conversation, oldest first.
type ListMessagesResponse struct {
	ConversationID string          `json:"conversation_id"`
	Messages       []types.Message `json:"messages"`
	Count          int             `json:"count"`
}

// UserResponse wraps a single user profile.
type UserResponse struct {
	User user.User `json:"user"`
}

// CreateUserResponse represents the response for user creation
type CreateUserResponse struct {
	Message string    `json:"message" example:"User created successfully"`
	User    user.User `json:"user"`
}

// UpdateUserResponse represents the response for updating a user
type UpdateUserResponse struct {
	Message string    `json:"message" example:"User updated successfully"`
	User    user.User `json:"user"`
}

// ListUsersResponse represents the response for listing users
type ListUsersResponse struct {
	Users      []user.User    `json:"users"`
	Pagination PaginationInfo `json:"pagination"`
}

// StatsResponse wraps a user's usage counters.
type StatsResponse struct {
	Stats user.UserStats `json:"stats"`
}

// TokenResponse carries a freshly issued connect token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
