// Package chat implements the conversation core: the conversation store,
// attachment deduplication, message composition, and the exchange driver
// that forwards one turn of user input to the upstream model.
package chat

import "github.com/diogo/companion/internal/models"

// FileRef identifies an attachment already uploaded upstream
type FileRef struct {
	ResourceID string
	Name       string
}

// Upstream is the narrow surface the core needs from a model session.
// One Upstream instance represents one multi-turn exchange under a fixed
// model and persona; the store creates them lazily and drops them when the
// conversation's model changes.
type Upstream interface {
	// Upload pushes an opaque byte blob upstream. The filename's extension
	// is the only content-type hint.
	Upload(data []byte, filename string) (FileRef, error)

	// Send forwards a prompt plus previously uploaded attachments and
	// returns the model's text reply.
	Send(prompt string, files []FileRef) (string, error)
}

// SessionFactory creates a fresh upstream session for a model
type SessionFactory func(model models.Model) Upstream
