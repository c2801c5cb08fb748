package wakeword

import (
	"strings"
)

// Phrases is the fixed wake-word list. Matching is case-insensitive
// substring containment.
var Phrases = []string{
	"小助手", "助手", "你好助手", "小爱", "小度", "小艺",
	"hey assistant", "hello assistant", "wake up", "开始",
}

// Detect reports whether text contains any wake phrase. Empty text never
// wakes.
func Detect(text string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if trimmed == "" {
		return false
	}
	for _, phrase := range Phrases {
		if strings.Contains(trimmed, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}
