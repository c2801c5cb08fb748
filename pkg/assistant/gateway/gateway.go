package gateway

import (
	"context"
	"errors"

	"github.com/liuwen-dev/vocana/pkg/Logger"
	"github.com/liuwen-dev/vocana/pkg/assistant"
)

// Apology is the single fragment surfaced when a provider call fails.
// The stream still terminates cleanly afterwards.
const Apology = "抱歉，模型调用失败，请稍后重试。"

// stubPlaceholder is yielded for providers that are catalogued but not
// wired to a live back-end yet.
const stubPlaceholder = "pass"

// Fragment is one incremental piece of a streamed model response. The
// channel closing marks end-of-stream; Final is set on the last fragment
// when the producer knows it is last.
type Fragment struct {
	Text  string
	Final bool
}

// ChatStreamer is the capability every live provider implements: push
// incremental text through emit until done. Returning emit's error promptly
// is what propagates consumer cancellation upstream.
type ChatStreamer interface {
	ChatStream(ctx context.Context, model string, turns []assistant.Turn, emit func(text string) error) error
}

// Gateway dispatches a prompt to the back-end named by the descriptor's
// provider tag and exposes the response as a finite fragment channel.
type Gateway struct {
	qwen   ChatStreamer
	ollama ChatStreamer
	gemini ChatStreamer
	logger *Logger.Logger
}

func New(qwen, ollama, gemini ChatStreamer, logger *Logger.Logger) *Gateway {
	return &Gateway{
		qwen:   qwen,
		ollama: ollama,
		gemini: gemini,
		logger: logger,
	}
}

// Stream produces a lazy, finite, non-restartable fragment sequence for one
// model turn. The returned channel is always closed, whatever the provider
// does: failures degrade to a single apology fragment. Cancelling ctx stops
// production promptly; no apology is emitted for a cancelled stream.
func (g *Gateway) Stream(ctx context.Context, model assistant.ModelDescriptor, turns []assistant.Turn) <-chan Fragment {
	out := make(chan Fragment)
	go func() {
		defer close(out)
		err := g.dispatch(ctx, model, turns, func(text string) error {
			if text == "" {
				return nil
			}
			select {
			case out <- Fragment{Text: text}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		g.logger.Errorf("provider %s failed for model %s: %v", model.Provider, model.Name, err)
		select {
		case out <- Fragment{Text: Apology, Final: true}:
		case <-ctx.Done():
		}
	}()
	return out
}

func (g *Gateway) dispatch(ctx context.Context, model assistant.ModelDescriptor, turns []assistant.Turn, emit func(string) error) error {
	switch model.Provider {
	case assistant.ProviderQwen:
		if g.qwen == nil {
			return emit(stubPlaceholder)
		}
		return g.qwen.ChatStream(ctx, model.Name, turns, emit)
	case assistant.ProviderOllama:
		if g.ollama == nil {
			return emit(stubPlaceholder)
		}
		return g.ollama.ChatStream(ctx, model.Name, turns, emit)
	case assistant.ProviderGemini:
		if g.gemini == nil {
			return emit(stubPlaceholder)
		}
		return g.gemini.ChatStream(ctx, model.Name, turns, emit)
	default:
		// openai, anthropic: catalogued but not wired yet. The registry
		// gates disabled models before they ever reach the gateway, so this
		// branch only runs when such a model is explicitly enabled.
		return emit(stubPlaceholder)
	}
}
