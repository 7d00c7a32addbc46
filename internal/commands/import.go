package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/companion/internal/browser"
	"github.com/diogo/companion/internal/config"
)

var fromBrowserFlag string

var importCookiesCmd = &cobra.Command{
	Use:   "import-cookies [path]",
	Short: "Import Gemini authentication cookies",
	Long: `Import the __Secure-1PSID and __Secure-1PSIDTS cookies used to
authenticate with gemini.google.com.

Either pass a JSON export from a browser extension:
  companion import-cookies ~/Downloads/cookies.json

Or read them straight from a browser's cookie store:
  companion import-cookies --from-browser
  companion import-cookies --from-browser=firefox

The browser must be logged into gemini.google.com and should be closed
first, since some browsers lock their cookie database while running.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("from-browser") {
			return importFromBrowser(fromBrowserFlag)
		}
		if len(args) == 0 {
			return fmt.Errorf("pass a cookies.json path or use --from-browser")
		}

		if err := config.ImportCookies(args[0]); err != nil {
			return err
		}
		fmt.Println("Cookies imported. Start chatting with: companion chat")
		return nil
	},
}

func importFromBrowser(name string) error {
	b, err := browser.ParseBrowser(name)
	if err != nil {
		available := browser.ListAvailableBrowsers()
		if len(available) > 0 {
			return fmt.Errorf("%w\nDetected on this machine: %s", err, strings.Join(available, ", "))
		}
		return err
	}

	spin := newSpinner(fmt.Sprintf("Reading cookies from %s", b))
	spin.start()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := browser.ExtractCookies(ctx, b)
	if err != nil {
		spin.stopWithError()
		return err
	}

	if err := config.SaveCookies(result.Cookies); err != nil {
		spin.stopWithError()
		return err
	}

	spin.stopWithSuccess(fmt.Sprintf("Cookies imported from %s", result.BrowserName))
	fmt.Println("Start chatting with: companion chat")
	return nil
}

func init() {
	importCookiesCmd.Flags().StringVar(&fromBrowserFlag, "from-browser", "auto",
		"Extract cookies from a browser (auto, chrome, chromium, firefox, edge, opera)")
	importCookiesCmd.Flags().Lookup("from-browser").NoOptDefVal = "auto"
}
