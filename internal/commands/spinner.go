package commands

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	spinnerColor  = lipgloss.Color("#7aa2f7")
	successColor  = lipgloss.Color("#9ece6a")
	spinnerStyle  = lipgloss.NewStyle().Foreground(spinnerColor).Bold(true)
	spinTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5"))
)

// spinner is a stderr progress indicator for the one-shot command path,
// where no bubbletea program is running.
type spinner struct {
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(message string) *spinner {
	return &spinner{
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprint(os.Stderr, "\033[?25l")

		for {
			select {
			case <-s.stop:
				fmt.Fprint(os.Stderr, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	spin := spinnerStyle.Render(chars[s.frame%len(chars)])
	msg := spinTextStyle.Render(s.message)
	fmt.Fprintf(os.Stderr, "\r\033[K%s %s", spin, msg)
}

func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	check := lipgloss.NewStyle().Foreground(successColor).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(successColor).Render(message)
	fmt.Fprintf(os.Stderr, "%s %s\n", check, msg)
}

func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}
