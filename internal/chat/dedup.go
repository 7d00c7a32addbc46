package chat

import (
	"crypto/sha256"
	"encoding/hex"
)

// FileInput is a candidate attachment: a display name plus opaque bytes
type FileInput struct {
	Name string
	Data []byte
}

// The driving UI re-presents every still-attached file and voice clip on
// each interaction, so the dedup sets are what keep a re-entrant driver from
// re-uploading (and re-billing) the same attachment. Filtering never mutates
// state; commits happen only after the corresponding upload succeeded, so a
// failed upload stays eligible for retry on the next turn.

// FilterNewFiles returns, in order, the candidates whose name has not been
// forwarded upstream for this conversation yet.
func (c *Conversation) FilterNewFiles(candidates []FileInput) []FileInput {
	var fresh []FileInput
	for _, cand := range candidates {
		if _, seen := c.sentFiles[cand.Name]; !seen {
			fresh = append(fresh, cand)
		}
	}
	return fresh
}

// CommitFile records a file name as forwarded. Call only after its upload
// succeeded.
func (c *Conversation) CommitFile(name string) {
	c.sentFiles[name] = struct{}{}
}

// HasSentFile reports whether a file name was already forwarded
func (c *Conversation) HasSentFile(name string) bool {
	_, ok := c.sentFiles[name]
	return ok
}

// IsNewAudio hashes a voice clip's content and reports whether that clip has
// been forwarded for this conversation. Identity is content-based: an
// identical re-recording is a duplicate, a single differing byte is not.
func (c *Conversation) IsNewAudio(data []byte) (bool, string) {
	hash := HashAudio(data)
	_, seen := c.sentAudio[hash]
	return !seen, hash
}

// CommitAudio records a clip hash as forwarded. Call only after its upload
// succeeded.
func (c *Conversation) CommitAudio(hash string) {
	c.sentAudio[hash] = struct{}{}
}

// HashAudio returns the content hash used for voice-clip identity
func HashAudio(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
