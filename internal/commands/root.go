// Package commands provides the CLI commands for companion.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/diogo/companion/internal/config"
)

var (
	modelFlag   string
	personaFlag string
	outputFlag  string
	fileFlag    string
	verboseFlag bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "companion [prompt]",
	Short: "A personal AI companion in your terminal",
	Long: `companion is a conversational assistant backed by Google Gemini's web API.
It supports multiple conversations, document attachments, and voice clips,
with cookie-based authentication.

Examples:
  companion chat                          Start an interactive session
  companion "What should I cook tonight?" Send a single question
  companion -f prompt.md                  Read the prompt from a file
  cat notes.txt | companion               Read the prompt from stdin
  companion import-cookies --from-browser Log in using browser cookies`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("companion %s (built %s)\n", Version, BuildTime)
			return nil
		}

		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data))
		}

		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data))
		}

		if len(args) > 0 {
			return runQuery(args[0])
		}

		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging configures the global zerolog logger. Debug output only
// appears with --verbose or the config file's verbose setting.
func setupLogging() {
	level := zerolog.WarnLevel
	if verboseFlag {
		level = zerolog.DebugLevel
	} else if cfg, err := config.LoadConfig(); err == nil && cfg.Verbose {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()
}

// resolveModelName returns the model to use, preferring the flag over the
// configured default.
func resolveModelName() string {
	if modelFlag != "" {
		return modelFlag
	}
	cfg, err := config.LoadConfig()
	if err != nil || cfg.DefaultModel == "" {
		return "fast"
	}
	return cfg.DefaultModel
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use (fast, pro)")
	rootCmd.PersistentFlags().StringVarP(&personaFlag, "persona", "p", "", "Persona to apply (companion, default, analyst, or user-defined)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save the reply to a file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the prompt from a file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(personasCmd)
	rootCmd.AddCommand(importCookiesCmd)
}
