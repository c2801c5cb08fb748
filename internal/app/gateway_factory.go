package app

import (
	"context"

	"github.com/liuwen-dev/vocana/internal/config"
	"github.com/liuwen-dev/vocana/pkg/Logger"
	"github.com/liuwen-dev/vocana/pkg/assistant/gateway"
	"github.com/liuwen-dev/vocana/pkg/assistant/providers/gemini"
	"github.com/liuwen-dev/vocana/pkg/assistant/providers/ollama"
	"github.com/liuwen-dev/vocana/pkg/assistant/providers/qwen"
)

// GatewayFactory builds the model gateway from whatever providers the
// configuration actually names. Providers without credentials simply stay
// out; the gateway stubs their models instead.
type GatewayFactory struct {
	config *config.Settings
	logger *Logger.Logger
}

// NewGatewayFactory creates a new gateway factory
func NewGatewayFactory(cfg *config.Settings, logger *Logger.Logger) *GatewayFactory {
	return &GatewayFactory{
		config: cfg,
		logger: logger,
	}
}

// Build constructs the gateway with all configured providers attached.
func (f *GatewayFactory) Build() (*gateway.Gateway, error) {
	var (
		qwenProvider   gateway.ChatStreamer
		ollamaProvider gateway.ChatStreamer
		geminiProvider gateway.ChatStreamer
	)

	if f.config.Assistant.QwenAPIKey != "" {
		qwenProvider = qwen.New(f.config.Assistant.QwenAPIKey, f.config.Assistant.QwenBaseURL)
		f.logger.Info("qwen provider configured")
	} else {
		f.logger.Warn("qwen api key missing, qwen models will answer with a placeholder")
	}

	if f.config.Assistant.OllamaURL != "" {
		p, err := ollama.New([]string{f.config.Assistant.OllamaURL})
		if err != nil {
			return nil, err
		}
		ollamaProvider = p
		f.logger.Infof("ollama provider configured at %s", f.config.Assistant.OllamaURL)
	}

	if f.config.Assistant.GeminiAPIKey != "" {
		p, err := gemini.New(context.Background(), f.config.Assistant.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		geminiProvider = p
		f.logger.Info("gemini provider configured")
	}

	return gateway.New(qwenProvider, ollamaProvider, geminiProvider, f.logger), nil
}
