package chat

import (
	"errors"
	"testing"

	apierrors "github.com/diogo/companion/internal/errors"
	"github.com/diogo/companion/internal/models"
)

func newTestStore() *Store {
	return NewStore(func(model models.Model) Upstream {
		return &fakeUpstream{}
	}, models.Model25Flash)
}

func TestNewStore(t *testing.T) {
	store := newTestStore()

	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 default conversation", store.Len())
	}

	conv := store.Current()
	if conv == nil {
		t.Fatal("Current() returned nil")
	}
	if conv.Title != UntitledTitle {
		t.Errorf("Title = %s, want %s", conv.Title, UntitledTitle)
	}
	if conv.Model.Name != models.Model25Flash.Name {
		t.Errorf("Model = %s, want %s", conv.Model.Name, models.Model25Flash.Name)
	}
	if len(conv.Messages) != 0 {
		t.Errorf("expected empty transcript, got %d messages", len(conv.Messages))
	}
}

func TestStore_CreateBecomesCurrent(t *testing.T) {
	store := newTestStore()
	first := store.Current().ID

	id := store.Create(models.Model30Pro)
	if store.Current().ID != id {
		t.Error("new conversation should become current")
	}
	if id == first {
		t.Error("conversation ids must be unique")
	}
	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
}

func TestStore_Switch(t *testing.T) {
	store := newTestStore()
	first := store.Current().ID
	store.Create(models.Model30Pro)

	if err := store.Switch(first); err != nil {
		t.Fatalf("Switch failed: %v", err)
	}
	if store.Current().ID != first {
		t.Error("Switch did not change the current conversation")
	}
}

func TestStore_SwitchUnknownID(t *testing.T) {
	store := newTestStore()
	before := store.Current().ID

	err := store.Switch("no-such-id")
	if !errors.Is(err, apierrors.ErrConversationNotFound) {
		t.Errorf("expected ErrConversationNotFound, got %v", err)
	}
	if store.Current().ID != before {
		t.Error("failed switch must not change the current conversation")
	}
}

func TestStore_SetModelResets(t *testing.T) {
	store := newTestStore()
	conv := store.Current()

	conv.Append(models.Message{Role: models.RoleUser, Content: "hi"})
	conv.CommitFile("report.pdf")
	_, hash := conv.IsNewAudio([]byte("clip"))
	conv.CommitAudio(hash)
	store.sessionFor(conv)

	if err := store.SetModel(conv.ID, models.Model30Pro); err != nil {
		t.Fatalf("SetModel failed: %v", err)
	}

	if conv.Model.Name != models.Model30Pro.Name {
		t.Errorf("Model = %s, want %s", conv.Model.Name, models.Model30Pro.Name)
	}
	if len(conv.Messages) != 0 {
		t.Error("transcript should be cleared on model change")
	}
	if conv.HasSentFile("report.pdf") {
		t.Error("file dedup set should be cleared on model change")
	}
	if fresh, _ := conv.IsNewAudio([]byte("clip")); !fresh {
		t.Error("audio dedup set should be cleared on model change")
	}
	if conv.session != nil {
		t.Error("session handle should be dropped on model change")
	}
}

func TestStore_SetModelSameIsNoOp(t *testing.T) {
	store := newTestStore()
	conv := store.Current()

	conv.Append(models.Message{Role: models.RoleUser, Content: "hi"})
	conv.CommitFile("report.pdf")
	store.sessionFor(conv)
	session := conv.session

	if err := store.SetModel(conv.ID, conv.Model); err != nil {
		t.Fatalf("SetModel failed: %v", err)
	}

	if len(conv.Messages) != 1 {
		t.Error("re-selecting the same model must not clear the transcript")
	}
	if !conv.HasSentFile("report.pdf") {
		t.Error("re-selecting the same model must not clear dedup state")
	}
	if conv.session != session {
		t.Error("re-selecting the same model must not recreate the session")
	}
}

func TestStore_SetModelUnknownID(t *testing.T) {
	store := newTestStore()
	err := store.SetModel("no-such-id", models.Model30Pro)
	if !errors.Is(err, apierrors.ErrConversationNotFound) {
		t.Errorf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestStore_RenameIfUntitled(t *testing.T) {
	store := newTestStore()
	conv := store.Current()

	store.RenameIfUntitled(conv.ID, "Hello there, how are you doing today?")
	if conv.Title != "Hello ther…" {
		t.Errorf("Title = %q, want %q", conv.Title, "Hello ther…")
	}

	// A second message never changes the title again
	store.RenameIfUntitled(conv.ID, "Something else entirely")
	if conv.Title != "Hello ther…" {
		t.Errorf("Title changed on second rename: %q", conv.Title)
	}
}

func TestStore_RenameIfUntitledShortCandidate(t *testing.T) {
	store := newTestStore()
	conv := store.Current()

	store.RenameIfUntitled(conv.ID, "Hi!")
	if conv.Title != "Hi!" {
		t.Errorf("Title = %q, want %q", conv.Title, "Hi!")
	}
}

func TestStore_RenameIfUntitledEmptyCandidate(t *testing.T) {
	store := newTestStore()
	conv := store.Current()

	store.RenameIfUntitled(conv.ID, "")
	if !conv.Untitled() {
		t.Error("empty candidate must not consume the title sentinel")
	}
}

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		expected  string
	}{
		{"short", "hello", "hello"},
		{"exact", "1234567890", "1234567890"},
		{"long", "12345678901", "1234567890…"},
		{"multibyte", "你好你好你好你好你好你好", "你好你好你好你好你好…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateTitle(tt.candidate, 10); got != tt.expected {
				t.Errorf("TruncateTitle(%q) = %q, want %q", tt.candidate, got, tt.expected)
			}
		})
	}
}

func TestStore_ListOrder(t *testing.T) {
	store := newTestStore()
	first := store.Current().ID
	second := store.Create(models.Model30Pro)
	third := store.Create(models.Model25Flash)

	list := store.List()
	if len(list) != 3 {
		t.Fatalf("List() returned %d conversations, want 3", len(list))
	}
	for i, want := range []string{first, second, third} {
		if list[i].ID != want {
			t.Errorf("List()[%d].ID = %s, want %s", i, list[i].ID, want)
		}
	}
}

func TestStore_SessionLazyPerConversation(t *testing.T) {
	created := 0
	store := NewStore(func(model models.Model) Upstream {
		created++
		return &fakeUpstream{}
	}, models.Model25Flash)

	conv := store.Current()
	if created != 0 {
		t.Fatal("session must not be created before first use")
	}

	first := store.sessionFor(conv)
	second := store.sessionFor(conv)
	if created != 1 {
		t.Errorf("factory called %d times, want 1", created)
	}
	if first != second {
		t.Error("sessionFor must reuse the existing handle")
	}
}
