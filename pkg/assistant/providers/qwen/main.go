package qwen

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/liuwen-dev/vocana/pkg/assistant"
)

// Provider talks to the DashScope OpenAI-compatible endpoint, so the qwen
// family is driven through the stock openai client.
type Provider struct {
	client openai.Client
}

func New(apiKey, baseURL string) *Provider {
	return &Provider{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
		),
	}
}

// ChatStream implements gateway.ChatStreamer.
func (p *Provider) ChatStream(ctx context.Context, model string, turns []assistant.Turn, emit func(text string) error) error {
	stream := p.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Messages: convertTurns(turns),
		Model:    openai.ChatModel(model),
	})
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			if err := emit(delta); err != nil {
				return err
			}
		}
	}
	return stream.Err()
}

func convertTurns(turns []assistant.Turn) []openai.ChatCompletionMessageParamUnion {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case assistant.SYSTEM:
			converted = append(converted, openai.SystemMessage(t.Content))
		case assistant.ASSISTANT:
			converted = append(converted, openai.AssistantMessage(t.Content))
		default:
			converted = append(converted, openai.UserMessage(t.Content))
		}
	}
	return converted
}
