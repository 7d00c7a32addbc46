package models

// Message represents a single entry in a conversation transcript
type Message struct {
	Role    string // "user" or "assistant"
	Content string
	// Audio holds the raw voice clip attached to a user message, retained
	// for playback. Empty for text-only and assistant messages.
	Audio []byte
}

// Roles for Message.Role
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HasAudio reports whether the message carries a voice clip
func (m Message) HasAudio() bool {
	return len(m.Audio) > 0
}
