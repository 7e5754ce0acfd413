package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/critiq-ai/critiq/internal/app"
	"github.com/critiq-ai/critiq/internal/wire"
)

var rootCmd = &cobra.Command{
	Use:   "critiq",
	Short: "critiq is an AI-assisted code review tool.",
	Long: `critiq forwards code and git history to a hosted language model and
presents the model's review: per-commit reviews of a repository, single-file
reviews, algorithm optimization suggestions, an interactive chat session and a
small web front-end.`,
	SilenceUsage: true,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("provider", "", "LLM provider (gemini, ollama)")
	rootCmd.PersistentFlags().String("model", "", "model name, e.g. gemini-1.5-flash")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	bindings := map[string]string{
		"LLM_PROVIDER": "provider",
		"MODEL_NAME":   "model",
		"LOG_LEVEL":    "log-level",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			slog.Error("error binding flag", "flag", flag, "error", err)
			os.Exit(1)
		}
	}
}

func initConfig() {
	viper.AutomaticEnv()
}

// initApp wires the full application for a command invocation.
func initApp(ctx context.Context) (*app.App, func(), error) {
	return wire.InitializeApp(ctx)
}
