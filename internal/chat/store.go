package chat

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apierrors "github.com/diogo/companion/internal/errors"
	"github.com/diogo/companion/internal/models"
)

// titlePrefixLen bounds auto-assigned titles to a short prefix of the first
// message, with an ellipsis marker when truncated.
const titlePrefixLen = 10

// Store owns the set of conversations and the "current" pointer. Exactly one
// conversation is current at any time and the set is never empty: NewStore
// seeds a default conversation, and no delete operation is exposed.
type Store struct {
	mu      sync.Mutex
	factory SessionFactory
	byID    map[string]*Conversation
	order   []string
	current string
	logger  zerolog.Logger
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithLogger sets the logger used by the store and the exchange driver
func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a store with one default conversation, already current
func NewStore(factory SessionFactory, defaultModel models.Model, opts ...StoreOption) *Store {
	s := &Store{
		factory: factory,
		byID:    make(map[string]*Conversation),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.createLocked(defaultModel)
	return s
}

// createLocked allocates a conversation and makes it current.
// MUST be called with s.mu held (or before the store escapes the constructor).
func (s *Store) createLocked(model models.Model) string {
	conv := newConversation(uuid.NewString(), model)
	s.byID[conv.ID] = conv
	s.order = append(s.order, conv.ID)
	s.current = conv.ID
	return conv.ID
}

// Create allocates a new conversation with empty history and dedup state.
// The session handle stays nil until the first send. The new conversation
// becomes current.
func (s *Store) Create(model models.Model) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.createLocked(model)
	s.logger.Debug().Str("conversation", id).Str("model", model.Name).Msg("conversation created")
	return id
}

// Switch makes the conversation with the given id current. Unknown ids are a
// contract violation (ids only ever come from Create) and surface as
// ErrConversationNotFound.
func (s *Store) Switch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("switch to %s: %w", id, apierrors.ErrConversationNotFound)
	}
	s.current = id
	return nil
}

// Current returns the currently selected conversation. Never nil.
func (s *Store) Current() *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[s.current]
}

// Get returns a conversation by id
func (s *Store) Get(id string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, apierrors.ErrConversationNotFound)
	}
	return conv, nil
}

// List returns all conversations in creation order
func (s *Store) List() []*Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Conversation, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Len returns the number of conversations
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// SetModel changes a conversation's model. A differing model clears the
// transcript and both dedup sets and drops the session handle, so histories
// never mix across models. Re-selecting the same model is a strict no-op.
func (s *Store) SetModel(id string, model models.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("set model on %s: %w", id, apierrors.ErrConversationNotFound)
	}
	if conv.Model.Name == model.Name {
		return nil
	}

	conv.Model = model
	conv.reset()
	s.logger.Debug().Str("conversation", id).Str("model", model.Name).Msg("model changed, conversation reset")
	return nil
}

// RenameIfUntitled assigns a title from candidate, only while the title is
// still the creation sentinel. Long candidates keep a short prefix plus an
// ellipsis marker.
func (s *Store) RenameIfUntitled(id, candidate string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.byID[id]
	if !ok || !conv.Untitled() || candidate == "" {
		return
	}
	conv.Title = TruncateTitle(candidate, titlePrefixLen)
}

// TruncateTitle bounds a title to maxLen runes, appending an ellipsis when
// the candidate was longer.
func TruncateTitle(candidate string, maxLen int) string {
	runes := []rune(candidate)
	if len(runes) <= maxLen {
		return candidate
	}
	return string(runes[:maxLen]) + "…"
}

// sessionFor returns the conversation's upstream session, creating it on
// first use with the conversation's current model.
func (s *Store) sessionFor(conv *Conversation) Upstream {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv.session == nil {
		conv.session = s.factory(conv.Model)
		s.logger.Debug().Str("conversation", conv.ID).Str("model", conv.Model.Name).Msg("upstream session created")
	}
	return conv.session
}
