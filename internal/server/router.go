package server

import (
	"embed"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/critiq-ai/critiq/internal/review"
	"github.com/critiq-ai/critiq/internal/server/handler"
)

//go:embed static/index.html
var staticFiles embed.FS

// NewRouter creates and configures a new HTTP router with middleware, the
// embedded single-page app and the review API routes.
func NewRouter(svc *review.Service, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Review calls are synchronous; the timeout must cover a full model call.
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		page, err := staticFiles.ReadFile("static/index.html")
		if err != nil {
			http.Error(w, "page unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})

	r.Route("/api/v1", func(r chi.Router) {
		reviewHandler := handler.NewReviewHandler(svc, logger)
		r.Post("/analyze", reviewHandler.AnalyzeRepo)
		r.Post("/analyze-file", reviewHandler.AnalyzeFile)
		r.Post("/suggest", reviewHandler.SuggestAlgorithms)
		r.Post("/chat", reviewHandler.Chat)
	})

	return r
}
