//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/critiq-ai/critiq/internal/app"
	"github.com/critiq-ai/critiq/internal/config"
	"github.com/critiq-ai/critiq/internal/gitutil"
	"github.com/critiq-ai/critiq/internal/llm"
	"github.com/critiq-ai/critiq/internal/review"
	"github.com/critiq-ai/critiq/internal/server"
)

func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	wire.Build(
		app.NewApp,
		server.NewServer,
		review.NewService,
		gitutil.NewClient,
		llm.NewPromptManager,
		llm.NewModel,
		llm.NewGenerator,
		config.Load,
		provideLoggerConfig,
		provideLogWriter,
		provideSlogLogger,
	)
	return &app.App{}, nil, nil
}
