package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/liuwen-dev/vocana/pkg/assistant"
)

type Provider struct {
	client *genai.Client
}

func New(ctx context.Context, apiKey string) (*Provider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Provider{client: client}, nil
}

// ChatStream implements gateway.ChatStreamer.
func (p *Provider) ChatStream(ctx context.Context, model string, turns []assistant.Turn, emit func(text string) error) error {
	m := p.client.GenerativeModel(model)
	iter := m.GenerateContentStream(ctx, convertTurns(turns)...)
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return err
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				txt, ok := part.(genai.Text)
				if !ok || txt == "" {
					continue
				}
				if err := emit(string(txt)); err != nil {
					return err
				}
			}
		}
	}
}

// Gemini takes a flat part list; roles are carried as text prefixes.
func convertTurns(turns []assistant.Turn) []genai.Part {
	parts := make([]genai.Part, 0, len(turns))
	for _, t := range turns {
		parts = append(parts, genai.Text(fmt.Sprintf("%s: %s", t.Role, t.Content)))
	}
	return parts
}

func (p *Provider) Close() error {
	return p.client.Close()
}
