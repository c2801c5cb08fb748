package ollama

import (
	"context"
	"fmt"

	"github.com/ollama/ollama/api"
	"github.com/presbrey/ollamafarm"

	"github.com/liuwen-dev/vocana/pkg/assistant"
)

// Provider fronts one or more ollama servers through a farm; the first
// online server takes the request.
type Provider struct {
	farm *ollamafarm.Farm
}

func New(urls []string) (*Provider, error) {
	farm := ollamafarm.New()
	for _, u := range urls {
		if err := farm.RegisterURL(u, nil); err != nil {
			return nil, fmt.Errorf("register ollama server %s: %w", u, err)
		}
	}
	return &Provider{farm: farm}, nil
}

// ChatStream implements gateway.ChatStreamer.
func (p *Provider) ChatStream(ctx context.Context, model string, turns []assistant.Turn, emit func(text string) error) error {
	srv := p.farm.First(&ollamafarm.Where{Offline: false})
	if srv == nil {
		return fmt.Errorf("no ollama server online for model %s", model)
	}

	stream := true
	req := api.ChatRequest{
		Model:    model,
		Messages: convertTurns(turns),
		Stream:   &stream,
	}
	return srv.Client().Chat(ctx, &req, func(resp api.ChatResponse) error {
		if resp.Message.Content == "" {
			return nil
		}
		return emit(resp.Message.Content)
	})
}

func convertTurns(turns []assistant.Turn) []api.Message {
	converted := make([]api.Message, 0, len(turns))
	for _, t := range turns {
		converted = append(converted, api.Message{
			Role:    string(t.Role),
			Content: t.Content,
		})
	}
	return converted
}
