package prompts

// PromptDefinition pins one version of a system prompt.
type PromptDefinition struct {
	Content string
	Version float32
}

// SYS_PROMPT is a versioned system prompt; the current version is what
// sessions get, older ones stay around for replaying old conversations.
type SYS_PROMPT struct {
	Intent         string
	CurrentVersion float32
	Items          map[float32]PromptDefinition
}

func (sp *SYS_PROMPT) GetVersion(version float32) (PromptDefinition, bool) {
	i, ok := sp.Items[version]
	return i, ok
}

func (sp *SYS_PROMPT) Current() string {
	def, _ := sp.GetVersion(sp.CurrentVersion)
	return def.Content
}

var (
	CONVERSATION_PROMPT = SYS_PROMPT{
		Intent:         "Conversation",
		CurrentVersion: 0.1,
		Items: map[float32]PromptDefinition{
			0.1: {
				Version: 0.1,
				Content: `You are a friendly voice assistant. Users talk to you by
				voice or text, often in Chinese. Answer concisely and helpfully in
				the language the user speaks, and keep answers short enough to be
				read aloud.`,
			},
		},
	}
)
