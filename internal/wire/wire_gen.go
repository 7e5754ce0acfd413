// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"

	"github.com/critiq-ai/critiq/internal/app"
	"github.com/critiq-ai/critiq/internal/config"
	"github.com/critiq-ai/critiq/internal/gitutil"
	"github.com/critiq-ai/critiq/internal/llm"
	"github.com/critiq-ai/critiq/internal/review"
	"github.com/critiq-ai/critiq/internal/server"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerConfig := provideLoggerConfig(cfg)
	logWriter := provideLogWriter(cfg)
	slogLogger := provideSlogLogger(loggerConfig, logWriter)

	model, err := llm.NewModel(ctx, cfg, slogLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create model client: %w", err)
	}
	generator := llm.NewGenerator(model, cfg, slogLogger)

	promptMgr, err := llm.NewPromptManager()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prompt manager: %w", err)
	}

	gitClient := gitutil.NewClient(slogLogger)
	reviewService := review.NewService(generator, promptMgr, gitClient, cfg, slogLogger)
	srv := server.NewServer(cfg, reviewService, slogLogger)
	application := app.NewApp(cfg, slogLogger, reviewService, gitClient, srv)

	cleanup := func() {}

	return application, cleanup, nil
}
