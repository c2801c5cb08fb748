package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liuwen-dev/vocana/internal/config"
	"github.com/liuwen-dev/vocana/pkg/assistant"
)

func TestBuildCatalogEnablesConfiguredProviders(t *testing.T) {
	cfg := &config.Settings{}
	cfg.Assistant.OllamaURL = "http://localhost:11434"
	cfg.Assistant.GeminiAPIKey = "some-key"

	registry := assistant.NewRegistry(buildCatalog(cfg))

	assert.True(t, registry.IsEnabled("llama3.1"), "a configured ollama back-end must make its model selectable")
	assert.True(t, registry.IsEnabled("gemini-1.5-flash"), "a configured gemini key must make its model selectable")
	// the always-on family stays on
	assert.True(t, registry.IsEnabled("qwen-max"))
}

func TestBuildCatalogKeepsUnconfiguredProvidersDisabled(t *testing.T) {
	registry := assistant.NewRegistry(buildCatalog(&config.Settings{}))

	assert.False(t, registry.IsEnabled("llama3.1"))
	assert.False(t, registry.IsEnabled("gemini-1.5-flash"))
	// providers with no live back-end at all never flip
	assert.False(t, registry.IsEnabled("gpt-4"))
	assert.False(t, registry.IsEnabled("claude-3"))
}

func TestBuildCatalogPartialConfiguration(t *testing.T) {
	cfg := &config.Settings{}
	cfg.Assistant.OllamaURL = "http://localhost:11434"

	registry := assistant.NewRegistry(buildCatalog(cfg))

	assert.True(t, registry.IsEnabled("llama3.1"))
	assert.False(t, registry.IsEnabled("gemini-1.5-flash"))
}
