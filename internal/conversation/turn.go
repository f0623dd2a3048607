// Package conversation holds the ordered log of turns replayed as context.
package conversation

// Role tags who produced a turn.
type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
)

// Turn is one message in the conversation. Turns are values and are never
// edited after they are appended.
type Turn struct {
	Role Role
	Text string
}

// UserTurn returns a Turn authored by the user.
func UserTurn(text string) Turn {
	return Turn{Role: User, Text: text}
}

// AssistantTurn returns a Turn authored by the model.
func AssistantTurn(text string) Turn {
	return Turn{Role: Assistant, Text: text}
}
