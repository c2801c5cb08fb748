package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuwen-dev/vocana/internal/domains/chat"
	"github.com/liuwen-dev/vocana/internal/types"
	"github.com/liuwen-dev/vocana/pkg/Logger"
	"github.com/liuwen-dev/vocana/pkg/assistant"
)

type stubChatService struct {
	conversations []types.Conversation
	messages      []types.Message
}

func (s *stubChatService) CreateConversation(ctx context.Context, userID, title string) (*types.Conversation, error) {
	conv := types.Conversation{ID: "c1", UserID: userID, Title: title, IsActive: true}
	return &conv, nil
}

func (s *stubChatService) GetOrCreateConversation(ctx context.Context, userID, conversationID string) (*types.Conversation, bool, error) {
	conv, err := s.CreateConversation(ctx, userID, "")
	return conv, true, err
}

func (s *stubChatService) ListConversations(ctx context.Context, userID string, limit int) ([]types.Conversation, error) {
	return s.conversations, nil
}

func (s *stubChatService) ListMessages(ctx context.Context, userID, conversationID string, limit int) ([]types.Message, error) {
	if conversationID == "missing" {
		return nil, chat.ErrConversationNotFound
	}
	return s.messages, nil
}

func (s *stubChatService) SaveMessage(ctx context.Context, userID, conversationID string, msgType types.MessageType, content string, isUser bool) (*types.Message, error) {
	return &types.Message{}, nil
}

func (s *stubChatService) TouchConversation(ctx context.Context, conversationID string) error {
	return nil
}

func (s *stubChatService) CloseConversation(ctx context.Context, userID, conversationID string) error {
	if conversationID == "missing" {
		return chat.ErrConversationNotFound
	}
	return nil
}

func newTestRouter(svc chat.ChatService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewChatHandler(svc, assistant.NewRegistry(assistant.DefaultCatalog()), "qwen-max", Logger.New(false))
	r.GET("/api/v1/models", h.ListModels)
	grp := r.Group("/api/v1/conversations")
	grp.Use(IdentityMiddleware())
	grp.GET("", h.ListConversations)
	grp.POST("", h.CreateConversation)
	grp.GET("/:id/messages", h.ListMessages)
	grp.DELETE("/:id", h.CloseConversation)
	return r
}

func TestListModels(t *testing.T) {
	router := newTestRouter(&stubChatService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/models", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ModelsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "qwen-max", resp.DefaultModel)
	assert.Equal(t, len(resp.Models), resp.TotalCount)
	assert.NotEmpty(t, resp.Models)
}

func TestListConversationsRequiresIdentity(t *testing.T) {
	router := newTestRouter(&stubChatService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListConversations(t *testing.T) {
	svc := &stubChatService{conversations: []types.Conversation{
		{ID: "c1", UserID: "u1", Title: "first"},
		{ID: "c2", UserID: "u1", Title: "second"},
	}}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil)
	req.Header.Set("X-User-ID", "u1")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ListConversationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestCreateConversationWithTitle(t *testing.T) {
	router := newTestRouter(&stubChatService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations", strings.NewReader(`{"title":"Trip planning"}`))
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp ConversationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Trip planning", resp.Conversation.Title)
}

func TestCreateConversationWithoutBody(t *testing.T) {
	router := newTestRouter(&stubChatService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations", nil)
	req.Header.Set("X-User-ID", "u1")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestListMessagesNotFound(t *testing.T) {
	router := newTestRouter(&stubChatService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations/missing/messages", nil)
	req.Header.Set("X-User-ID", "u1")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCloseConversation(t *testing.T) {
	router := newTestRouter(&stubChatService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/conversations/c1", nil)
	req.Header.Set("X-User-ID", "u1")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
