package api

import (
	"sync"

	"github.com/diogo/companion/internal/chat"
	"github.com/diogo/companion/internal/models"
)

// Session is one multi-turn exchange with Gemini under a fixed model and
// persona. It tracks the [cid, rid, rcid] metadata that threads messages
// together upstream and satisfies chat.Upstream.
type Session struct {
	client   *Client
	mu       sync.Mutex
	model    models.Model
	persona  string
	metadata []string
}

var _ chat.Upstream = (*Session)(nil)

// NewSession creates a session for the given model and persona. The persona
// conditions every exchange; the generate endpoint has no system-instruction
// field, so it is prepended to the session's first prompt.
func NewSession(client *Client, model models.Model, persona string) *Session {
	return &Session{
		client:  client,
		model:   model,
		persona: persona,
	}
}

// Upload pushes an attachment blob upstream
func (s *Session) Upload(data []byte, filename string) (chat.FileRef, error) {
	file, err := s.client.Upload(data, filename)
	if err != nil {
		return chat.FileRef{}, err
	}
	return chat.FileRef{ResourceID: file.ResourceID, Name: file.Name}, nil
}

// Send forwards a prompt plus uploaded attachments and returns the reply
// text, updating the session metadata on success.
func (s *Session) Send(prompt string, files []chat.FileRef) (string, error) {
	s.mu.Lock()
	outbound := prompt
	if len(s.metadata) == 0 && s.persona != "" {
		outbound = s.persona + "\n\n" + prompt
	}
	opts := &GenerateOptions{
		Model:    s.model,
		Metadata: copyMetadata(s.metadata),
		Files:    toUploadedFiles(files),
	}
	s.mu.Unlock()

	output, err := s.client.GenerateContent(outbound, opts)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.updateMetadataLocked(output)
	s.mu.Unlock()

	return output.Text(), nil
}

// Model returns the session's model
func (s *Session) Model() models.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// Metadata returns a copy of the current [cid, rid, rcid] metadata
func (s *Session) Metadata() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMetadata(s.metadata)
}

// updateMetadataLocked refreshes metadata from a response.
// MUST be called with s.mu held.
func (s *Session) updateMetadataLocked(output *models.ModelOutput) {
	if len(output.Metadata) > 0 {
		s.metadata = copyMetadata(output.Metadata)
	}

	// Thread the chosen candidate's reply ID into the next turn
	switch {
	case len(s.metadata) >= 3:
		s.metadata[2] = output.RCID()
	case len(s.metadata) == 2:
		s.metadata = append(s.metadata, output.RCID())
	}
}

func copyMetadata(m []string) []string {
	if m == nil {
		return nil
	}
	result := make([]string, len(m))
	copy(result, m)
	return result
}

func toUploadedFiles(refs []chat.FileRef) []*UploadedFile {
	if len(refs) == 0 {
		return nil
	}
	files := make([]*UploadedFile, 0, len(refs))
	for _, ref := range refs {
		files = append(files, &UploadedFile{
			ResourceID: ref.ResourceID,
			Name:       ref.Name,
			MIMEType:   models.MIMEForFilename(ref.Name),
		})
	}
	return files
}
