package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var webPort string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the web front-end",
	Long: `Serve the web front-end: a single-page app plus a JSON API for repository
analysis, file reviews, algorithm suggestions and chat. Requests are handled
synchronously and nothing is persisted.`,
	RunE: runWeb,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	webCmd.Flags().StringVarP(&webPort, "port", "p", "", "port to listen on (default 8080)")
	rootCmd.AddCommand(webCmd)
}

func runWeb(cmd *cobra.Command, _ []string) error {
	if webPort != "" {
		viper.Set("SERVER_PORT", webPort)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appInstance, cleanup, err := initApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer cleanup()

	go func() {
		if err := appInstance.Start(); err != nil {
			appInstance.Logger.Error("server error", "error", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		appInstance.Logger.Info("received shutdown signal")
	case <-ctx.Done():
		appInstance.Logger.Info("context cancelled, shutting down")
	}

	if err := appInstance.Stop(); err != nil {
		return fmt.Errorf("failed to stop application: %w", err)
	}
	return nil
}
