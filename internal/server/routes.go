package server

import (
	"github.com/gin-gonic/gin"

	"github.com/liuwen-dev/vocana/internal/config"
	"github.com/liuwen-dev/vocana/internal/domains/chat"
	"github.com/liuwen-dev/vocana/internal/domains/user"
	"github.com/liuwen-dev/vocana/internal/handlers"
	wshandler "github.com/liuwen-dev/vocana/internal/handlers/websocket"
	"github.com/liuwen-dev/vocana/pkg/Logger"
	"github.com/liuwen-dev/vocana/pkg/assistant"
)

// Dependencies is everything the route table needs, wired once in app.
type Dependencies struct {
	ChatService  chat.ChatService
	UserService  user.UserService
	Assembler    *chat.ContextAssembler
	Registry     *assistant.Registry
	Gateway      wshandler.ModelGateway
	Transcriber  wshandler.Transcriber
	WakeWordGate wshandler.WakeWordGate
	Logger       *Logger.Logger
	Configs      *config.Settings
}

func NewServerDependencies(
	chatService chat.ChatService,
	userService user.UserService,
	assembler *chat.ContextAssembler,
	registry *assistant.Registry,
	gateway wshandler.ModelGateway,
	transcriber wshandler.Transcriber,
	wakeWordGate wshandler.WakeWordGate,
	logger *Logger.Logger,
	cfg *config.Settings,
) Dependencies {
	return Dependencies{
		ChatService:  chatService,
		UserService:  userService,
		Assembler:    assembler,
		Registry:     registry,
		Gateway:      gateway,
		Transcriber:  transcriber,
		WakeWordGate: wakeWordGate,
		Logger:       logger,
		Configs:      cfg,
	}
}

func InitializeRoutes(cfg *config.Settings, r *gin.Engine, dep Dependencies) {
	r.Use(handlers.CORSMiddleware())
	r.Use(handlers.RequestLoggerMiddleware(dep.Logger))
	r.Use(handlers.ErrorHandlerMiddleware(dep.Logger))

	r.GET("/", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"message": "Server healthy"}) })
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{
			"status":       "ok",
			"env":          cfg.Env,
			"model_loaded": cfg.STT.LoadModel,
		})
	})

	wsHandler := wshandler.NewHandler(
		dep.UserService,
		wshandler.ControllerDeps{
			ChatService:  dep.ChatService,
			Assembler:    dep.Assembler,
			Registry:     dep.Registry,
			Gateway:      dep.Gateway,
			Transcriber:  dep.Transcriber,
			WakeWordGate: dep.WakeWordGate,
			HistoryLimit: cfg.Chat.HistoryLimit,
			Logger:       dep.Logger,
		},
		cfg.Assistant.DefaultModel,
		dep.Logger,
	)
	r.GET("/ws/chat", wsHandler.HandleChat)

	chatHandler := handlers.NewChatHandler(dep.ChatService, dep.Registry, cfg.Assistant.DefaultModel, dep.Logger)
	userHandler := handlers.NewUserHandler(dep.UserService, dep.Logger)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/models", chatHandler.ListModels)
		v1.GET("/me", handlers.IdentityMiddleware(), userHandler.GetCurrentUser)

		users := v1.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
			users.GET("/:id/stats", userHandler.GetStats)
			users.POST("/:id/token", userHandler.IssueToken)
		}

		conversations := v1.Group("/conversations")
		conversations.Use(handlers.IdentityMiddleware())
		{
			conversations.GET("", chatHandler.ListConversations)
			conversations.POST("", chatHandler.CreateConversation)
			conversations.GET("/:id/messages", chatHandler.ListMessages)
			conversations.DELETE("/:id", chatHandler.CloseConversation)
		}
	}
}
