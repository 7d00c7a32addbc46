package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/companion/internal/config"
	"github.com/diogo/companion/internal/models"
	"github.com/diogo/companion/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start the interactive terminal chat. Multiple conversations run side by
side; use /new to open another one and /switch to move between them.
Documents and voice clips can be staged with /attach and /voice.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _ := config.LoadConfig()

		modelName := resolveModelName()
		if !models.KnownModelName(modelName) {
			return fmt.Errorf("unknown model %q (try: fast, pro)", modelName)
		}

		persona, err := resolvePersona(&cfg)
		if err != nil {
			return err
		}

		spin := newSpinner("Connecting")
		spin.start()

		client, err := connect(true)
		if err != nil {
			spin.stopWithError()
			return formatConnectError(err)
		}
		defer client.Close()
		spin.stopWithSuccess("Connected")

		store := newStore(client, models.ModelFromName(modelName), persona)
		return tui.RunChat(store, &cfg)
	},
}
