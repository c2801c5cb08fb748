package chat

import (
	"context"

	"github.com/liuwen-dev/vocana/internal/types"
	"github.com/liuwen-dev/vocana/pkg/assistant"
)

// contextKinds are the message kinds that feed model context. Raw client
// markers (audio payloads, wait pings) carry no conversational content.
var contextKinds = map[types.MessageType]bool{
	types.MessageText:          true,
	types.MessageTranscription: true,
	types.MessageModelResponse: true,
}

// ContextAssembler builds a model-ready prompt from stored history: one
// leading system turn followed by the recent persisted messages in
// ascending creation order. Purely read-only.
type ContextAssembler struct {
	repository   ChatRepository
	systemPrompt string
	turnLimit    int
}

func NewContextAssembler(repository ChatRepository, systemPrompt string, turnLimit int) *ContextAssembler {
	if turnLimit <= 0 {
		turnLimit = 10
	}
	return &ContextAssembler{
		repository:   repository,
		systemPrompt: systemPrompt,
		turnLimit:    turnLimit,
	}
}

// fetchFactor oversizes the history read so raw markers (audio payloads,
// wait pings) sharing the window cannot starve the content turns.
const fetchFactor = 3

func (a *ContextAssembler) Build(ctx context.Context, userID, conversationID string) ([]assistant.Turn, error) {
	msgs, err := a.repository.ListMessages(ctx, userID, conversationID, a.turnLimit*fetchFactor)
	if err != nil {
		return nil, err
	}

	history := make([]assistant.Turn, 0, len(msgs))
	for _, m := range msgs {
		if !contextKinds[m.MessageType] {
			continue
		}
		if m.IsUserMessage {
			history = append(history, assistant.UserTurn(m.Content))
		} else {
			history = append(history, assistant.AssistantTurn(m.Content))
		}
	}
	if len(history) > a.turnLimit {
		history = history[len(history)-a.turnLimit:]
	}

	turns := make([]assistant.Turn, 0, len(history)+1)
	turns = append(turns, assistant.SystemTurn(a.systemPrompt))
	return append(turns, history...), nil
}
