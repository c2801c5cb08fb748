package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/liuwen-dev/vocana/internal/domains/chat"
	"github.com/liuwen-dev/vocana/internal/types"
	"github.com/liuwen-dev/vocana/pkg/Logger"
	"github.com/liuwen-dev/vocana/pkg/assistant"
)

// ChatHandler serves the conversation query surface next to the live
// websocket endpoint.
type ChatHandler struct {
	chatService  chat.ChatService
	registry     *assistant.Registry
	defaultModel string
	logger       *Logger.Logger
}

func NewChatHandler(chatService chat.ChatService, registry *assistant.Registry, defaultModel string, logger *Logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService:  chatService,
		registry:     registry,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

// ListModels handles GET /api/v1/models
func (h *ChatHandler) ListModels(c *gin.Context) {
	models := h.registry.List()
	c.JSON(http.StatusOK, ModelsResponse{
		Models:       models,
		DefaultModel: h.defaultModel,
		TotalCount:   len(models),
	})
}

// ListConversations handles GET /api/v1/conversations
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID := c.GetString("userID")
	limit := parseIntQuery(c, "limit", 20)

	conversations, err := h.chatService.ListConversations(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Errorf("failed to list conversations for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list conversations"})
		return
	}
	c.JSON(http.StatusOK, ListConversationsResponse{
		Conversations: conversations,
		Count:         len(conversations),
	})
}

// CreateConversation handles POST /api/v1/conversations
func (h *ChatHandler) CreateConversation(c *gin.Context) {
	userID := c.GetString("userID")

	// body is optional; a missing title gets generated
	var req types.CreateConversation
	_ = c.ShouldBindJSON(&req)

	conv, err := h.chatService.CreateConversation(c.Request.Context(), userID, req.Title)
	if err != nil {
		h.logger.Errorf("failed to create conversation for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create conversation"})
		return
	}
	c.JSON(http.StatusCreated, ConversationResponse{Conversation: *conv})
}

// ListMessages handles GET /api/v1/conversations/:id/messages
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID := c.GetString("userID")
	conversationID := c.Param("id")
	limit := parseIntQuery(c, "limit", 50)

	messages, err := h.chatService.ListMessages(c.Request.Context(), userID, conversationID, limit)
	if err != nil {
		if errors.Is(err, chat.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Conversation not found"})
			return
		}
		h.logger.Errorf("failed to list messages for conversation %s: %v", conversationID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, ListMessagesResponse{
		ConversationID: conversationID,
		Messages:       messages,
		Count:          len(messages),
	})
}

// CloseConversation handles DELETE /api/v1/conversations/:id
func (h *ChatHandler) CloseConversation(c *gin.Context) {
	userID := c.GetString("userID")
	conversationID := c.Param("id")

	if err := h.chatService.CloseConversation(c.Request.Context(), userID, conversationID); err != nil {
		if errors.Is(err, chat.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Conversation not found"})
			return
		}
		h.logger.Errorf("failed to close conversation %s: %v", conversationID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to close conversation"})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Conversation closed"})
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
