package config

import (
	"strings"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	var s Settings
	s.applyDefaults()

	if s.Assistant.DefaultModel != "qwen-max" {
		t.Errorf("Expected default model qwen-max, got %q", s.Assistant.DefaultModel)
	}
	if !strings.Contains(s.Assistant.QwenBaseURL, "dashscope") {
		t.Errorf("Expected dashscope default base url, got %q", s.Assistant.QwenBaseURL)
	}
	if s.Chat.HistoryLimit != 10 || s.Chat.ContextLimit != 10 {
		t.Errorf("Expected history/context limits of 10, got %d/%d", s.Chat.HistoryLimit, s.Chat.ContextLimit)
	}
	if s.Auth.TokenTTLHours != 24 {
		t.Errorf("Expected token ttl 24h, got %d", s.Auth.TokenTTLHours)
	}
	if s.Port != 8000 {
		t.Errorf("Expected default port 8000, got %d", s.Port)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	s := Settings{Port: 9090}
	s.Chat.HistoryLimit = 5
	s.applyDefaults()

	if s.Port != 9090 {
		t.Errorf("Explicit port overridden, got %d", s.Port)
	}
	if s.Chat.HistoryLimit != 5 {
		t.Errorf("Explicit history limit overridden, got %d", s.Chat.HistoryLimit)
	}
}

func TestDSNFormat(t *testing.T) {
	d := DBConfig{Host: "db", Port: 3306, Username: "u", Password: "p", Name: "vocana"}
	dsn := d.DSN()

	if !strings.HasPrefix(dsn, "u:p@tcp(db:3306)/vocana?") {
		t.Errorf("Unexpected DSN shape: %q", dsn)
	}
	if !strings.Contains(dsn, "parseTime=True") {
		t.Error("DSN must request parseTime for time.Time scanning")
	}
}
