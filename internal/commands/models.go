package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/companion/internal/config"
	"github.com/diogo/companion/internal/models"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available models",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _ := config.LoadConfig()
		defaultName := "fast"
		if cfg.DefaultModel != "" {
			defaultName = cfg.DefaultModel
		}
		defaultModel := models.ModelFromName(defaultName)

		fmt.Println("Available models:")
		for _, m := range models.AllModels() {
			marker := " "
			if m.Name == defaultModel.Name {
				marker = "*"
			}
			fmt.Printf("  %s %s\n", marker, m.Name)
		}
		fmt.Println("\nAliases: fast, pro. Set the default in ~/.companion/config.json")
		return nil
	},
}

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List available personas",
	RunE: func(cmd *cobra.Command, args []string) error {
		personas, err := config.LoadPersonas(time.Now())
		if err != nil {
			return err
		}

		fmt.Println("Available personas:")
		for _, p := range personas.Personas {
			marker := " "
			if p.Name == personas.DefaultPersona {
				marker = "*"
			}
			fmt.Printf("  %s %-12s %s\n", marker, p.Name, p.Description)
		}
		fmt.Println("\nAdd your own in ~/.companion/personas.json")
		return nil
	},
}
