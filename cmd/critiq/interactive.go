package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/critiq-ai/critiq/internal/tui"
)

var interactiveTheme string

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Start an interactive review session in the terminal",
	Long: `Start an interactive chat session with the model. The conversation
history is kept for the lifetime of the session; /review reviews a file from
within the session.`,
	RunE: runInteractive,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	interactiveCmd.Flags().StringVar(&interactiveTheme, "theme", "", "UI theme (cyan, matrix, amber, cyberpunk, ice, dracula)")
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	theme := interactiveTheme
	if theme == "" {
		theme = os.Getenv("CRITIQ_THEME")
	}
	if theme == "" {
		theme = string(tui.ThemeCyan)
	}

	appInstance, cleanup, err := initApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer cleanup()

	return tui.Run(appInstance, tui.ThemeName(theme))
}
