package wakeword

import (
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "exact chinese phrase", text: "小助手", want: true},
		{name: "phrase inside sentence", text: "你好助手，今天天气怎么样", want: true},
		{name: "generic assistant phrase", text: "请叫助手过来", want: true},
		{name: "english phrase mixed case", text: "Hey Assistant, what time is it", want: true},
		{name: "english phrase uppercase", text: "WAKE UP", want: true},
		{name: "ordinary chinese", text: "今天天气不错", want: false},
		{name: "ordinary english", text: "what is the weather like", want: false},
		{name: "empty text", text: "", want: false},
		{name: "whitespace only", text: "   ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
