package openai

import "github.com/compresr/turnchat/internal/conversation"

// MessagesFromTurns maps conversation turns to wire messages, preserving
// order. This is the only place that knows the wire role names.
func MessagesFromTurns(turns []conversation.Turn) []Message {
	msgs := make([]Message, 0, len(turns))
	for _, t := range turns {
		role := "user"
		if t.Role == conversation.Assistant {
			role = "assistant"
		}
		msgs = append(msgs, Message{Role: role, Content: t.Text})
	}
	return msgs
}
