package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	PoolSize int    `mapstructure:"pool_size"`
}

func (d DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AssistantConfig carries per-provider credentials and endpoints.
// Only providers with a non-empty key/URL are constructed at startup.
type AssistantConfig struct {
	QwenAPIKey   string `mapstructure:"qwen_api_key"`
	QwenBaseURL  string `mapstructure:"qwen_base_url"`
	OllamaURL    string `mapstructure:"ollama_url"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	DefaultModel string `mapstructure:"default_model"`
}

type STTConfig struct {
	WhisperURL string `mapstructure:"whisper_url"`
	LoadModel  bool   `mapstructure:"load_model"`
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
}

type ChatConfig struct {
	HistoryLimit int `mapstructure:"history_limit"`
	ContextLimit int `mapstructure:"context_limit"`
}

type Settings struct {
	DB        DBConfig        `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	STT       STTConfig       `mapstructure:"stt"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Env       string          `mapstructure:"env"`
	Debug     bool            `mapstructure:"debug"`
	Port      int             `mapstructure:"port"`
}

func Load() (*Settings, error) {
	viper.SetConfigName("config_" + genEnv())
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var settings Settings
	if err := viper.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	settings.applyDefaults()

	return &settings, nil
}

func (s *Settings) applyDefaults() {
	if s.Assistant.DefaultModel == "" {
		s.Assistant.DefaultModel = "qwen-max"
	}
	if s.Assistant.QwenBaseURL == "" {
		s.Assistant.QwenBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	}
	if s.Chat.HistoryLimit == 0 {
		s.Chat.HistoryLimit = 10
	}
	if s.Chat.ContextLimit == 0 {
		s.Chat.ContextLimit = 10
	}
	if s.Auth.TokenTTLHours == 0 {
		s.Auth.TokenTTLHours = 24
	}
	if s.Port == 0 {
		s.Port = 8000
	}
}

func genEnv() string {
	env := viper.GetString("ENV")
	if env == "" {
		return "dev"
	}
	return env
}
