package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/companion/internal/chat"
	"github.com/diogo/companion/internal/config"
	apierrors "github.com/diogo/companion/internal/errors"
	"github.com/diogo/companion/internal/models"
	"github.com/diogo/companion/internal/render"
)

type animationTickMsg time.Time

type (
	responseMsg struct {
		result *chat.Result
	}
	errMsg struct {
		err error
	}
	nothingToSendMsg struct{}
)

// tabInfo is a display snapshot of one conversation tab
type tabInfo struct {
	title  string
	active bool
}

// Model is the bubbletea state for the chat screen. Conversation state lives
// in the store; the model renders from its own snapshot of it, taken on the
// UI goroutine. While an exchange runs in a command goroutine the store is
// never read here, so conversation state has a single accessor at any time.
type Model struct {
	store *chat.Store
	cfg   *config.Config

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Snapshot of the current conversation, refreshed after every store
	// mutation and never while loading
	messages  []models.Message
	tabs      []tabInfo
	modelName string

	// Attachments staged for the next message
	pendingFiles []chat.FileInput
	pendingAudio []byte

	loading        bool
	ready          bool
	err            error
	note           string
	animationFrame int

	width  int
	height int
}

// NewChatModel creates the chat screen over an initialized store.
func NewChatModel(store *chat.Store, cfg *config.Config) Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message, or /help for commands..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	m := Model{
		store:    store,
		cfg:      cfg,
		textarea: ta,
		spinner:  s,
	}
	m.syncFromStore()
	return m
}

// syncFromStore refreshes the render snapshot. Only called on the UI
// goroutine while no exchange is in flight.
func (m *Model) syncFromStore() {
	conv := m.store.Current()
	m.messages = append([]models.Message(nil), conv.Messages...)
	m.modelName = conv.Model.Name

	m.tabs = nil
	for _, c := range m.store.List() {
		m.tabs = append(m.tabs, tabInfo{title: c.Title, active: c.ID == conv.ID})
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 1
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.textarea.SetWidth(contentWidth - 4)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
			m.textarea.SetWidth(contentWidth - 4)
		}
		m.refreshTranscript()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			// While an exchange is in flight the store belongs to its
			// goroutine; stay in the loading state until it reports back
			if !m.loading {
				return m, tea.Quit
			}

		case "enter":
			if m.loading {
				break
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" && len(m.pendingFiles) == 0 && m.pendingAudio == nil {
				break
			}
			return m.submit(input)
		}

	case responseMsg:
		m.loading = false
		m.pendingFiles = nil
		m.pendingAudio = nil
		m.note = uploadNote(msg.result.UploadErrors)
		m.syncFromStore()
		m.refreshTranscript()
		m.viewport.GotoBottom()
		if m.cfg != nil && m.cfg.CopyToClipboard && msg.result.Reply != "" {
			// Clipboard may be unavailable (headless session); not an error
			_ = clipboard.WriteAll(msg.result.Reply)
		}

	case nothingToSendMsg:
		m.loading = false

	case errMsg:
		m.loading = false
		m.err = msg.err
		m.syncFromStore()
		m.refreshTranscript()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit handles one entered line: slash commands run locally, everything
// else becomes an exchange against the current conversation.
func (m Model) submit(input string) (tea.Model, tea.Cmd) {
	c := parseCommand(input)
	m.err = nil
	m.note = ""

	switch c.kind {
	case cmdQuit:
		return m, tea.Quit

	case cmdNew:
		m.textarea.Reset()
		m.store.Create(m.store.Current().Model)
		m.pendingFiles = nil
		m.pendingAudio = nil
		m.syncFromStore()
		m.refreshTranscript()
		return m, nil

	case cmdSwitch:
		m.textarea.Reset()
		if err := m.switchByIndex(c.arg); err != nil {
			m.err = err
		} else {
			m.pendingFiles = nil
			m.pendingAudio = nil
			m.syncFromStore()
			m.refreshTranscript()
		}
		return m, nil

	case cmdModel:
		m.textarea.Reset()
		if !models.KnownModelName(c.arg) {
			m.err = fmt.Errorf("unknown model %q (try: fast, pro)", c.arg)
			return m, nil
		}
		model := models.ModelFromName(c.arg)
		conv := m.store.Current()
		hadMessages := len(conv.Messages) > 0
		if err := m.store.SetModel(conv.ID, model); err != nil {
			m.err = err
			return m, nil
		}
		if hadMessages && len(m.store.Current().Messages) == 0 {
			m.note = fmt.Sprintf("switched to %s; conversation restarted", model.Name)
		} else {
			m.note = fmt.Sprintf("model: %s", model.Name)
		}
		m.syncFromStore()
		m.refreshTranscript()
		return m, nil

	case cmdAttach:
		m.textarea.Reset()
		if err := m.stageFile(c.arg); err != nil {
			m.err = err
		}
		return m, nil

	case cmdVoice:
		m.textarea.Reset()
		if err := m.stageVoice(c.arg); err != nil {
			m.err = err
		}
		return m, nil

	case cmdCopy:
		m.textarea.Reset()
		m.copyLastReply()
		return m, nil

	case cmdHelp:
		m.textarea.Reset()
		m.note = helpText
		return m, nil
	}

	// Ordinary message: run the exchange off the UI goroutine
	m.loading = true
	m.animationFrame = 0
	m.textarea.Reset()

	in := chat.Inputs{
		Files: m.pendingFiles,
		Audio: m.pendingAudio,
		Text:  c.arg,
	}
	send := func() tea.Msg {
		result, err := m.store.Exchange(in)
		if err != nil {
			if errors.Is(err, apierrors.ErrNothingToSend) {
				return nothingToSendMsg{}
			}
			return errMsg{err: err}
		}
		return responseMsg{result: result}
	}

	return m, tea.Batch(send, m.spinner.Tick, animationTick())
}

// switchByIndex resolves a 1-based tab number against the store order.
func (m *Model) switchByIndex(arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("usage: /switch <number>")
	}
	list := m.store.List()
	if n < 1 || n > len(list) {
		return fmt.Errorf("no conversation %d (have %d)", n, len(list))
	}
	return m.store.Switch(list[n-1].ID)
}

func (m *Model) stageFile(path string) error {
	if path == "" {
		return fmt.Errorf("usage: /attach <path>")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", path, err)
	}
	name := filepath.Base(path)
	for _, f := range m.pendingFiles {
		if f.Name == name {
			m.note = fmt.Sprintf("%s already staged", name)
			return nil
		}
	}
	m.pendingFiles = append(m.pendingFiles, chat.FileInput{Name: name, Data: data})
	m.note = fmt.Sprintf("staged %s (%d bytes)", name, len(data))
	return nil
}

func (m *Model) stageVoice(path string) error {
	if path == "" {
		return fmt.Errorf("usage: /voice <path>")
	}
	if !models.IsAudioFilename(path) {
		return fmt.Errorf("%s does not look like an audio file", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", path, err)
	}
	m.pendingAudio = data
	m.note = fmt.Sprintf("staged voice clip (%d bytes)", len(data))
	return nil
}

// copyLastReply puts the newest assistant message on the clipboard.
func (m *Model) copyLastReply() {
	msgs := m.messages
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == models.RoleAssistant {
			if err := clipboard.WriteAll(msgs[i].Content); err != nil {
				m.err = fmt.Errorf("clipboard unavailable: %w", err)
				return
			}
			m.note = "reply copied to clipboard"
			return
		}
	}
	m.note = "nothing to copy yet"
}

// uploadNote summarizes per-attachment upload failures for the status line.
func uploadNote(errs []error) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return fmt.Sprintf("1 attachment failed to upload: %v (it will retry on your next message)", errs[0])
	}
	return fmt.Sprintf("%d attachments failed to upload (they will retry on your next message)", len(errs))
}

func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	sections = append(sections, m.renderHeader(contentWidth))

	var messagesContent string
	if len(m.messages) == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	var inputContent string
	if m.loading {
		inputContent = m.renderLoading()
	} else {
		label := inputLabelStyle.Render("You")
		if staged := m.renderStaged(); staged != "" {
			label += "  " + staged
		}
		inputContent = lipgloss.JoinVertical(lipgloss.Left, label, m.textarea.View())
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.note != "" {
		sections = append(sections, noteStyle.Render(m.note))
	}
	if m.err != nil {
		sections = append(sections, m.formatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(width int) string {
	parts := []string{
		titleStyle.Render("✦ Companion"),
		subtitleStyle.Render("  •  " + m.modelName),
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center, parts...)

	tabs := m.renderTabs()
	content := lipgloss.JoinVertical(lipgloss.Left, header, tabs)
	return headerStyle.Width(width).Render(content)
}

// renderTabs shows one numbered tab per conversation, newest last.
func (m Model) renderTabs() string {
	var tabs []string
	for i, tab := range m.tabs {
		label := fmt.Sprintf("%d:%s", i+1, tab.title)
		if tab.active {
			tabs = append(tabs, tabActiveStyle.Render("["+label+"]"))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, tabs...)
}

// renderStaged summarizes attachments waiting for the next message.
func (m Model) renderStaged() string {
	var parts []string
	if n := len(m.pendingFiles); n > 0 {
		parts = append(parts, fmt.Sprintf("%d file(s)", n))
	}
	if m.pendingAudio != nil {
		parts = append(parts, "voice clip")
	}
	if len(parts) == 0 {
		return ""
	}
	return attachmentStyle.Render("📎 " + strings.Join(parts, ", "))
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	title := welcomeTitleStyle.Width(width).Render("Your companion is listening")
	subtitle := welcomeStyle.Width(width).Render("Type a message, attach a document with /attach, or share a voice clip with /voice")

	content := lipgloss.JoinVertical(lipgloss.Center, "", title, "", subtitle, "")

	contentHeight := lipgloss.Height(content)
	topPadding := (height - contentHeight) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderLoading() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	frame := m.animationFrame
	spin := loadingStyle.Bold(true).Render(chars[frame%len(chars)])

	dots := strings.Repeat("●", (frame/3)%4)
	text := lipgloss.NewStyle().Foreground(colorText).Render(" thinking ")
	return fmt.Sprintf("%s%s%s", spin, text, loadingStyle.Render(dots))
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"/help", "Commands"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// refreshTranscript rebuilds the viewport from the message snapshot.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	bubbleWidth := m.viewport.Width - 6
	var content strings.Builder

	for i, msg := range m.messages {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Role == models.RoleUser {
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ Companion")
			rendered, err := render.MarkdownWithWidth(msg.Content, bubbleWidth-4)
			if err != nil {
				rendered = msg.Content
			}
			rendered = strings.TrimRight(rendered, "\n")
			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// formatError renders an error with a recovery hint where one is known.
func (m Model) formatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("⚠ Error: %v", err)))

	switch {
	case apierrors.IsQuotaError(err):
		sb.WriteString("\n")
		sb.WriteString(hintStyle.Render("Usage limit reached; please wait a while or switch models with /model"))
	case apierrors.IsAuthError(err):
		sb.WriteString("\n")
		sb.WriteString(hintStyle.Render("Try 'companion import-cookies --from-browser' to refresh your session"))
	case apierrors.IsNetworkError(err):
		sb.WriteString("\n")
		sb.WriteString(hintStyle.Render("Check your internet connection and try again"))
	}

	return sb.String()
}

// RunChat starts the interactive chat screen.
func RunChat(store *chat.Store, cfg *config.Config) error {
	p := tea.NewProgram(NewChatModel(store, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
