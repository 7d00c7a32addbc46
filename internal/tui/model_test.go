package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/companion/internal/chat"
	"github.com/diogo/companion/internal/models"
)

type stubUpstream struct{}

func (stubUpstream) Upload(data []byte, filename string) (chat.FileRef, error) {
	return chat.FileRef{ResourceID: "res/" + filename, Name: filename}, nil
}

func (stubUpstream) Send(prompt string, files []chat.FileRef) (string, error) {
	return "ok", nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	store := chat.NewStore(func(models.Model) chat.Upstream {
		return stubUpstream{}
	}, models.DefaultModel)
	return NewChatModel(store, nil)
}

func TestSwitchByIndex(t *testing.T) {
	m := newTestModel(t)
	first := m.store.Current().ID
	second := m.store.Create(models.DefaultModel)

	if err := m.switchByIndex("1"); err != nil {
		t.Fatalf("switchByIndex(1) failed: %v", err)
	}
	if m.store.Current().ID != first {
		t.Error("should have switched to the first conversation")
	}

	if err := m.switchByIndex("2"); err != nil {
		t.Fatalf("switchByIndex(2) failed: %v", err)
	}
	if m.store.Current().ID != second {
		t.Error("should have switched to the second conversation")
	}
}

func TestSwitchByIndex_Invalid(t *testing.T) {
	m := newTestModel(t)

	for _, arg := range []string{"", "x", "0", "5", "-1"} {
		if err := m.switchByIndex(arg); err == nil {
			t.Errorf("switchByIndex(%q) should fail", arg)
		}
	}
	// Failed switches must not move the current pointer
	if m.store.Current() == nil {
		t.Fatal("current conversation lost")
	}
}

func TestStageFile(t *testing.T) {
	m := newTestModel(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("contents"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := m.stageFile(path); err != nil {
		t.Fatalf("stageFile failed: %v", err)
	}
	if len(m.pendingFiles) != 1 {
		t.Fatalf("pendingFiles = %d, want 1", len(m.pendingFiles))
	}
	if m.pendingFiles[0].Name != "notes.txt" {
		t.Errorf("staged name = %s", m.pendingFiles[0].Name)
	}
	if string(m.pendingFiles[0].Data) != "contents" {
		t.Errorf("staged data = %q", m.pendingFiles[0].Data)
	}

	// Staging the same name twice keeps a single copy
	if err := m.stageFile(path); err != nil {
		t.Fatalf("re-staging failed: %v", err)
	}
	if len(m.pendingFiles) != 1 {
		t.Errorf("duplicate staging grew pendingFiles to %d", len(m.pendingFiles))
	}
}

func TestStageFile_Errors(t *testing.T) {
	m := newTestModel(t)

	if err := m.stageFile(""); err == nil {
		t.Error("empty path should fail")
	}
	if err := m.stageFile("/nonexistent/file.txt"); err == nil {
		t.Error("missing file should fail")
	}
	if len(m.pendingFiles) != 0 {
		t.Error("failed staging must not leave partial state")
	}
}

func TestStageVoice(t *testing.T) {
	m := newTestModel(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "clip.m4a")
	if err := os.WriteFile(path, []byte{0x01, 0x02}, 0o600); err != nil {
		t.Fatal(err)
	}

	if err := m.stageVoice(path); err != nil {
		t.Fatalf("stageVoice failed: %v", err)
	}
	if len(m.pendingAudio) != 2 {
		t.Errorf("pendingAudio = %d bytes, want 2", len(m.pendingAudio))
	}
}

func TestStageVoice_RejectsNonAudio(t *testing.T) {
	m := newTestModel(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "document.pdf")
	if err := os.WriteFile(path, []byte("pdf"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := m.stageVoice(path); err == nil {
		t.Error("non-audio extension should be rejected")
	}
	if m.pendingAudio != nil {
		t.Error("rejected clip must not be staged")
	}
}

func TestUploadNote(t *testing.T) {
	if got := uploadNote(nil); got != "" {
		t.Errorf("no errors should yield empty note, got %q", got)
	}

	one := uploadNote([]error{os.ErrPermission})
	if !strings.Contains(one, "1 attachment failed") {
		t.Errorf("single failure note = %q", one)
	}
	if !strings.Contains(one, "retry") {
		t.Errorf("note should mention retry: %q", one)
	}

	two := uploadNote([]error{os.ErrPermission, os.ErrClosed})
	if !strings.Contains(two, "2 attachments failed") {
		t.Errorf("multi failure note = %q", two)
	}
}

// blockingUpstream holds Send until released, keeping an exchange in flight
type blockingUpstream struct {
	release chan struct{}
}

func (b *blockingUpstream) Upload(data []byte, filename string) (chat.FileRef, error) {
	return chat.FileRef{ResourceID: "res/" + filename, Name: filename}, nil
}

func (b *blockingUpstream) Send(prompt string, files []chat.FileRef) (string, error) {
	<-b.release
	return "late reply", nil
}

func TestRenderDuringExchange(t *testing.T) {
	up := &blockingUpstream{release: make(chan struct{})}
	store := chat.NewStore(func(models.Model) chat.Upstream {
		return up
	}, models.DefaultModel)

	var m Model
	updated, _ := NewChatModel(store, nil).Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	submitted, cmd := m.submit("hello there")
	m = submitted.(Model)
	if !m.loading {
		t.Fatal("submit should enter the loading state")
	}
	if cmd == nil {
		t.Fatal("submit should return a command")
	}

	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected a batched command, got %T", cmd())
	}
	msgs := make(chan tea.Msg, len(batch))
	for _, c := range batch {
		c := c
		go func() { msgs <- c() }()
	}

	// The exchange is blocked in Send; rendering must not touch the store
	for i := 0; i < 50; i++ {
		_ = m.View()
		m.refreshTranscript()
	}
	close(up.release)

	var resp responseMsg
	for found := false; !found; {
		switch msg := (<-msgs).(type) {
		case responseMsg:
			resp, found = msg, true
		case errMsg:
			t.Fatalf("exchange failed: %v", msg.err)
		}
	}

	updated, _ = m.Update(resp)
	m = updated.(Model)
	if m.loading {
		t.Error("loading should clear once the reply arrives")
	}
	if len(m.messages) != 2 {
		t.Fatalf("snapshot has %d messages, want user+assistant", len(m.messages))
	}
	if m.messages[1].Content != "late reply" {
		t.Errorf("assistant message = %q", m.messages[1].Content)
	}
}

func TestSnapshotFollowsStoreMutations(t *testing.T) {
	m := newTestModel(t)

	if len(m.tabs) != 1 || !m.tabs[0].active {
		t.Fatalf("initial tabs = %+v, want one active tab", m.tabs)
	}
	if m.modelName != models.DefaultModel.Name {
		t.Errorf("modelName = %s", m.modelName)
	}

	m.store.Create(models.Model30Pro)
	m.syncFromStore()

	if len(m.tabs) != 2 {
		t.Fatalf("tabs = %d, want 2 after create", len(m.tabs))
	}
	if m.tabs[0].active || !m.tabs[1].active {
		t.Errorf("active tab should be the new conversation: %+v", m.tabs)
	}
	if m.modelName != models.Model30Pro.Name {
		t.Errorf("modelName = %s, want %s", m.modelName, models.Model30Pro.Name)
	}
}
