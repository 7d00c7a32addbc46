package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/diogo/companion/internal/chat"
	"github.com/diogo/companion/internal/config"
	apierrors "github.com/diogo/companion/internal/errors"
	"github.com/diogo/companion/internal/models"
	"github.com/diogo/companion/internal/render"
)

// runQuery sends one prompt and prints the reply. When stdout is not a
// terminal (or -o is given) the reply is written raw, without markdown
// styling or spinners.
func runQuery(prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	cfg, _ := config.LoadConfig()

	modelName := resolveModelName()
	if !models.KnownModelName(modelName) {
		return fmt.Errorf("unknown model %q (try: fast, pro)", modelName)
	}
	model := models.ModelFromName(modelName)

	persona, err := resolvePersona(&cfg)
	if err != nil {
		return err
	}

	rawOutput := outputFlag != "" || !term.IsTerminal(int(os.Stdout.Fd()))

	var spin *spinner
	if !rawOutput {
		spin = newSpinner("Connecting")
		spin.start()
	}

	client, err := connect(false)
	if err != nil {
		if spin != nil {
			spin.stopWithError()
		}
		return formatConnectError(err)
	}
	defer client.Close()

	if spin != nil {
		spin.stopWithSuccess("Connected")
		spin = newSpinner("Thinking")
		spin.start()
	}

	store := newStore(client, model, persona)
	result, err := store.Exchange(chat.Inputs{Text: prompt})
	if err != nil {
		if spin != nil {
			spin.stopWithError()
		}
		return formatSendError(err)
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(result.Reply), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Reply saved to %s\n", outputFlag)
		return nil
	}

	if rawOutput {
		fmt.Println(result.Reply)
		return nil
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	rendered, err := render.Markdown(result.Reply, render.OptionsFromConfig(&cfg, width))
	if err != nil {
		rendered = result.Reply
	}
	fmt.Print(rendered)

	if cfg.CopyToClipboard {
		if err := clipboard.WriteAll(result.Reply); err == nil {
			fmt.Fprintln(os.Stderr, "(reply copied to clipboard)")
		}
	}
	return nil
}

func formatConnectError(err error) error {
	switch {
	case apierrors.IsAuthError(err):
		return fmt.Errorf("%w\n\nYour session may have expired. Re-import cookies with:\n  companion import-cookies --from-browser", err)
	case apierrors.IsNetworkError(err):
		return fmt.Errorf("%w\n\nCheck your internet connection and try again", err)
	default:
		return err
	}
}

func formatSendError(err error) error {
	if apierrors.IsQuotaError(err) {
		return fmt.Errorf("%w\n\nUsage limit reached; please wait a while or try another model with -m", err)
	}
	return err
}
