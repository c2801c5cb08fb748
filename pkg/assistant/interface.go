package assistant

type Role string

const (
	USER      Role = "user"
	ASSISTANT Role = "assistant"
	SYSTEM    Role = "system"
)

// Turn is one role-tagged entry of a model prompt.
type Turn struct {
	Role    Role
	Content string
}

func SystemTurn(content string) Turn    { return Turn{Role: SYSTEM, Content: content} }
func UserTurn(content string) Turn      { return Turn{Role: USER, Content: content} }
func AssistantTurn(content string) Turn { return Turn{Role: ASSISTANT, Content: content} }
