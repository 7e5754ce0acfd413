// Package handler provides the HTTP handlers for the review API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/critiq-ai/critiq/internal/core"
	"github.com/critiq-ai/critiq/internal/gitutil"
	"github.com/critiq-ai/critiq/internal/llm"
	"github.com/critiq-ai/critiq/internal/review"
)

// ReviewHandler serves the review API. Every request is handled
// synchronously: the response carries the finished review, there is no job
// queue and nothing survives the process.
type ReviewHandler struct {
	svc    *review.Service
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*review.Session
}

func NewReviewHandler(svc *review.Service, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		svc:      svc,
		logger:   logger,
		sessions: make(map[string]*review.Session),
	}
}

type analyzeRepoRequest struct {
	Repo    string `json:"repo"`
	Commits string `json:"commits,omitempty"`
}

// AnalyzeRepo reviews commits of a local repository path or a public remote
// repository URL.
func (h *ReviewHandler) AnalyzeRepo(w http.ResponseWriter, r *http.Request) {
	var req analyzeRepoRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Repo == "" {
		h.writeError(w, http.StatusBadRequest, errors.New("repo is required"))
		return
	}

	ctx := r.Context()
	if gitutil.IsRemoteURL(req.Repo) {
		analysis, err := h.svc.AnalyzeRemoteRepo(ctx, req.Repo, req.Commits)
		h.respond(w, analysis, err)
		return
	}

	analysis, err := h.svc.AnalyzeRepo(ctx, req.Repo, req.Commits)
	h.respond(w, analysis, err)
}

type analyzeFileRequest struct {
	Path     string `json:"path"`
	Code     string `json:"code,omitempty"`
	Language string `json:"language,omitempty"`
}

// AnalyzeFile reviews a single file, given either a server-local path or the
// code itself.
func (h *ReviewHandler) AnalyzeFile(w http.ResponseWriter, r *http.Request) {
	var req analyzeFileRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	if req.Code != "" {
		result, err := h.svc.ReviewCode(ctx, core.ReviewRequest{Code: req.Code, Language: req.Language})
		h.respond(w, result, err)
		return
	}
	if req.Path == "" {
		h.writeError(w, http.StatusBadRequest, errors.New("path or code is required"))
		return
	}

	analysis, err := h.svc.AnalyzeFile(ctx, req.Path, req.Language)
	h.respond(w, analysis, err)
}

type suggestRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Task     string `json:"task,omitempty"`
}

// SuggestAlgorithms proposes more efficient algorithms for the posted code.
func (h *ReviewHandler) SuggestAlgorithms(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if !h.decode(w, r, &req) {
		return
	}

	analysis, err := h.svc.SuggestAlgorithms(r.Context(), req.Code, req.Language, req.Task)
	h.respond(w, analysis, err)
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// Chat exchanges one message within a session. Sessions are identified by a
// client-chosen id and live in memory until the process exits.
func (h *ReviewHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		h.writeError(w, http.StatusBadRequest, errors.New("session_id is required"))
		return
	}

	session := h.session(req.SessionID)
	reply, err := session.Send(r.Context(), req.Message)
	if err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}
	h.writeJSON(w, http.StatusOK, chatResponse{SessionID: req.SessionID, Reply: reply})
}

// session returns the session for the id, creating it on first use. Only the
// map is guarded; each session synchronizes itself.
func (h *ReviewHandler) session(id string) *review.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[id]; ok {
		return s
	}
	s := h.svc.NewSession()
	h.sessions[id] = s
	return s
}

func (h *ReviewHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return false
	}
	return true
}

func (h *ReviewHandler) respond(w http.ResponseWriter, result any, err error) {
	if err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *ReviewHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *ReviewHandler) writeError(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		h.logger.Error("request failed", "error", err)
	} else {
		h.logger.Debug("request rejected", "status", status, "error", err)
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps application errors onto HTTP status codes.
func statusFor(err error) int {
	var accessErr *gitutil.AccessError
	if errors.As(err, &accessErr) {
		return http.StatusBadRequest
	}
	if errors.Is(err, review.ErrEmptyCode) || errors.Is(err, review.ErrEmptyMessage) {
		return http.StatusBadRequest
	}

	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case llm.ErrKindAuth:
			return http.StatusBadGateway
		case llm.ErrKindRateLimit:
			return http.StatusTooManyRequests
		case llm.ErrKindNetwork:
			return http.StatusGatewayTimeout
		default:
			return http.StatusBadGateway
		}
	}
	return http.StatusInternalServerError
}
