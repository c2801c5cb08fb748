package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/liuwen-dev/vocana/internal/domains/user"
	"github.com/liuwen-dev/vocana/pkg/Logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// identity is carried in the query, not the origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler terminates the duplex chat endpoint: identity, upgrade, then a
// controller per connection.
type Handler struct {
	users        user.UserService
	deps         ControllerDeps
	defaultModel string
	logger       *Logger.Logger
}

func NewHandler(users user.UserService, deps ControllerDeps, defaultModel string, logger *Logger.Logger) *Handler {
	return &Handler{
		users:        users,
		deps:         deps,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

// HandleChat is GET /ws/chat. Identity must resolve before the upgrade: a
// connect without token or user_id is refused with plain HTTP 401 so the
// client never holds a half-usable socket.
func (h *Handler) HandleChat(c *gin.Context) {
	userID, err := h.resolveIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err := h.users.EnsureUser(c.Request.Context(), userID); err != nil {
		h.logger.Errorf("failed to ensure user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
		return
	}

	model := c.Query("model")
	if model == "" {
		model = h.defaultModel
	}
	conversationID := c.Query("conversation_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("websocket upgrade failed: %v", err)
		return
	}

	session := NewSession(conn)
	controller := NewController(userID, model, session, h.deps)
	h.logger.Infow("session connected",
		"user_id", userID,
		"model", model,
	)
	h.serve(c, session, controller, conversationID)
}

func (h *Handler) serve(c *gin.Context, session *Session, controller *Controller, conversationID string) {
	ctx := c.Request.Context()
	defer func() {
		controller.Shutdown()
		session.Close(websocket.CloseNormalClosure, "bye")
		h.logger.Infow("session closed",
			"conversation_id", controller.ConversationID(),
			"duration", time.Since(session.ConnectedAt),
		)
	}()

	if err := controller.Bind(ctx, conversationID); err != nil {
		h.logger.Errorf("bind failed: %v", err)
		session.Close(websocket.CloseInternalServerErr, "failed to bind conversation")
		return
	}
	if err := controller.ReplayHistory(ctx); err != nil {
		h.logger.Errorf("history replay failed: %v", err)
		session.Close(websocket.CloseInternalServerErr, "failed to replay history")
		return
	}

	for {
		kind, payload, err := session.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warnf("session read error: %v", err)
			}
			return
		}

		switch kind {
		case websocket.BinaryMessage:
			controller.BufferAudioFrame(payload)
		case websocket.TextMessage:
			var frame ClientFrame
			if err := json.Unmarshal(payload, &frame); err != nil {
				if err := session.Send(NewErrorFrame("frame is not valid JSON")); err != nil {
					return
				}
				continue
			}
			if err := controller.HandleFrame(ctx, frame); err != nil {
				var te errTransport
				if errors.As(err, &te) {
					h.logger.Warnf("session write failed, dropping connection: %v", err)
				} else {
					h.logger.Errorf("frame handling failed: %v", err)
				}
				return
			}
		}
	}
}

// resolveIdentity accepts either a signed connect token or a raw user_id.
// The token wins when both are present.
func (h *Handler) resolveIdentity(c *gin.Context) (string, error) {
	if token := c.Query("token"); token != "" {
		claims, err := h.users.ValidateToken(c.Request.Context(), token)
		if err != nil {
			return "", user.ErrInvalidToken
		}
		return claims.UserID, nil
	}
	if userID := c.Query("user_id"); userID != "" {
		return userID, nil
	}
	return "", errors.New("missing identity: supply token or user_id")
}
