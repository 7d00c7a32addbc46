package chat

import (
	"time"

	"github.com/diogo/companion/internal/models"
)

// UntitledTitle is the title sentinel assigned at creation. It is replaced
// exactly once, from the conversation's first real exchange.
const UntitledTitle = "untitled"

// Conversation is an isolated chat thread: its own transcript, model choice,
// upstream session, and dedup state. Switching conversations never shares
// any of these.
type Conversation struct {
	ID        string
	Title     string
	Model     models.Model
	Messages  []models.Message
	CreatedAt time.Time

	// Attachment identities already forwarded upstream. Files are keyed by
	// name, voice clips by content hash. Reset on model change.
	sentFiles map[string]struct{}
	sentAudio map[string]struct{}

	// Lazily created on first send, dropped on model change.
	session Upstream
}

func newConversation(id string, model models.Model) *Conversation {
	return &Conversation{
		ID:        id,
		Title:     UntitledTitle,
		Model:     model,
		CreatedAt: time.Now(),
		sentFiles: make(map[string]struct{}),
		sentAudio: make(map[string]struct{}),
	}
}

// Untitled reports whether the title is still the creation sentinel
func (c *Conversation) Untitled() bool {
	return c.Title == UntitledTitle
}

// Append adds a message to the transcript. The transcript is append-only;
// nothing in the core reorders or rewrites it.
func (c *Conversation) Append(msg models.Message) {
	c.Messages = append(c.Messages, msg)
}

// LastMessage returns the most recent transcript entry, or nil
func (c *Conversation) LastMessage() *models.Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// reset wipes transcript, dedup state, and the session handle. Called when
// the model changes so histories never mix across models.
func (c *Conversation) reset() {
	c.Messages = nil
	c.sentFiles = make(map[string]struct{})
	c.sentAudio = make(map[string]struct{})
	c.session = nil
}
