// Package llm provides the client for the hosted language model: provider
// construction, prompt templates, and best-effort parsing of responses.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/critiq-ai/critiq/internal/config"
)

// Generator is the minimal surface the rest of the application needs from a
// language model: one prompt in, one text response out. It exists so the
// review service can be exercised with a fake in tests.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// NewModel creates the configured provider's model client.
func NewModel(ctx context.Context, cfg *config.Config, logger *slog.Logger) (llms.Model, error) {
	switch cfg.LLMProvider {
	case "gemini":
		logger.Info("using Gemini provider", "model", cfg.ModelName)
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set in environment for gemini provider")
		}
		return gemini.New(ctx,
			gemini.WithModel(cfg.ModelName),
			gemini.WithAPIKey(cfg.GeminiAPIKey),
		)

	case "ollama":
		logger.Info("using Ollama provider", "model", cfg.ModelName, "host", cfg.OllamaHost)
		return ollama.New(
			ollama.WithServerURL(cfg.OllamaHost),
			ollama.WithHTTPClient(newProviderHTTPClient()),
			ollama.WithModel(cfg.ModelName),
			ollama.WithLogger(logger),
		)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}

// NewGenerator wraps a model client with the configured hard timeout and
// error classification.
func NewGenerator(model llms.Model, cfg *config.Config, logger *slog.Logger) Generator {
	return &modelGenerator{
		model:   model,
		name:    cfg.ModelName,
		timeout: cfg.LLMTimeout,
		logger:  logger,
	}
}

type modelGenerator struct {
	model   llms.Model
	name    string
	timeout time.Duration
	logger  *slog.Logger
}

func (g *modelGenerator) Name() string {
	return g.name
}

// Generate sends a single prompt and waits for the full response, bounded by
// the configured timeout. There is no retry: a failure is classified and
// returned once.
func (g *modelGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type result struct {
		resp string
		err  error
	}
	resultCh := make(chan result, 1)

	start := time.Now()
	go func() {
		resp, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt)
		select {
		case resultCh <- result{resp, err}:
		case <-ctx.Done():
		}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			return "", classifyError(res.err)
		}
		g.logger.Debug("model call complete",
			"model", g.name,
			"prompt_chars", len(prompt),
			"response_chars", len(res.resp),
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
		return res.resp, nil
	case <-ctx.Done():
		return "", classifyError(ctx.Err())
	}
}

// newProviderHTTPClient builds an HTTP client with generous timeouts; local
// providers can take a while to produce a full completion.
func newProviderHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   5 * time.Minute,
	}
}
