package app

import (
	"time"

	"github.com/go-redis/redis"
	"gorm.io/gorm"

	"github.com/liuwen-dev/vocana/internal/config"
	"github.com/liuwen-dev/vocana/internal/constants/prompts"
	"github.com/liuwen-dev/vocana/internal/domains/chat"
	"github.com/liuwen-dev/vocana/internal/domains/user"
	chatRepo "github.com/liuwen-dev/vocana/internal/repository/chat"
	userRepo "github.com/liuwen-dev/vocana/internal/repository/user"
	"github.com/liuwen-dev/vocana/internal/server"
	"github.com/liuwen-dev/vocana/pkg/Logger"
	"github.com/liuwen-dev/vocana/pkg/assistant"
	"github.com/liuwen-dev/vocana/pkg/io/stt/wakeword"
	"github.com/liuwen-dev/vocana/pkg/io/stt/whisper"
)

// App represents the application with all its dependencies
type App struct {
	Config *config.Settings
	Logger *Logger.Logger
	DB     *gorm.DB
	RC     *redis.Client

	ChatRepo   *chatRepo.GormChatRepo
	UserRepo   *userRepo.GormUserRepo
	Registry   *assistant.Registry
	ServerDeps server.Dependencies
}

// NewApp creates a new application instance with all dependencies properly wired
func NewApp(cfg *config.Settings, logger *Logger.Logger, db *gorm.DB, rc *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		RC:     rc,
	}
	if err := app.setupDependencies(); err != nil {
		return nil, err
	}
	return app, nil
}

// setupDependencies initializes all application dependencies
func (a *App) setupDependencies() error {
	// repositories
	a.ChatRepo = chatRepo.NewGormChatRepo(a.DB, a.RC, a.Logger)
	a.UserRepo = userRepo.NewGormUserRepo(a.DB)

	// model catalog and gateway
	a.Registry = assistant.NewRegistry(buildCatalog(a.Config))
	gw, err := NewGatewayFactory(a.Config, a.Logger).Build()
	if err != nil {
		return err
	}

	// JWT settings from config
	jwtSecret := a.Config.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		a.Logger.Warn("JWT secret not configured, using default (not secure for production)")
	}
	tokenTTL := time.Duration(a.Config.Auth.TokenTTLHours) * time.Hour

	// services
	chatService := chat.NewChatService(a.ChatRepo, a.Logger)
	userService := user.NewUserService(a.UserRepo, a.ChatRepo, a.Logger, jwtSecret, tokenTTL)
	assembler := chat.NewContextAssembler(
		a.ChatRepo,
		prompts.CONVERSATION_PROMPT.Current(),
		a.Config.Chat.ContextLimit,
	)

	transcriber := whisper.NewClient(a.Config.STT.WhisperURL, a.Config.STT.LoadModel, a.Logger)

	a.ServerDeps = server.NewServerDependencies(
		chatService,
		userService,
		assembler,
		a.Registry,
		gw,
		transcriber,
		wakeword.Detect,
		a.Logger,
		a.Config,
	)
	return nil
}

// buildCatalog derives model enablement from configuration: catalog entries
// whose provider the settings actually wire become selectable, so a
// configured ollama or gemini back-end is one config line away from serving
// requests.
func buildCatalog(cfg *config.Settings) []assistant.ModelDescriptor {
	catalog := assistant.DefaultCatalog()
	for i, m := range catalog {
		switch m.Provider {
		case assistant.ProviderOllama:
			if cfg.Assistant.OllamaURL != "" {
				catalog[i].Enabled = true
			}
		case assistant.ProviderGemini:
			if cfg.Assistant.GeminiAPIKey != "" {
				catalog[i].Enabled = true
			}
		}
	}
	return catalog
}

// GetServerDependencies returns the server dependencies
func (a *App) GetServerDependencies() server.Dependencies {
	return a.ServerDeps
}
