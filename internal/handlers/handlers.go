package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fortuna/services/cfb-analytics-service/internal/analysis"
	"github.com/fortuna/services/cfb-analytics-service/internal/hub"
	"github.com/fortuna/services/cfb-analytics-service/internal/logging"
	"github.com/fortuna/services/cfb-analytics-service/internal/service"
	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const (
	maxBodyBytes        = 10 << 20
	gameRequestTimeout  = 30 * time.Second
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
	defaultRecentLimit  = 20
)

// AnalysisService is the part of service.AnalysisService the handlers call
type AnalysisService interface {
	Analyze(input models.AnalysisInput) (*models.GameReport, error)
	Grade(input models.AnalysisInput) []models.PlayerGrade
	AnalyzeGame(ctx context.Context, gameID string, refresh bool) (*models.GameReport, error)
	GameGrades(ctx context.Context, gameID string, refresh bool) ([]models.PlayerGrade, error)
	GradeHistory(ctx context.Context, gameID string, limit int) ([]models.GradeRun, error)
	RecentGames(ctx context.Context, limit int) ([]string, error)
}

// Handler serves the analysis API and the live update socket
type Handler struct {
	ctx     context.Context
	service AnalysisService
	hub     *hub.Hub
	logger  *logrus.Entry
}

// NewHandler creates a new handler. ctx bounds websocket client lifetimes.
func NewHandler(ctx context.Context, svc AnalysisService, h *hub.Hub, logger *logrus.Entry) *Handler {
	return &Handler{
		ctx:     ctx,
		service: svc,
		hub:     h,
		logger:  logging.OrDiscard(logger),
	}
}

// Register mounts every route on r
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Get("/metrics", h.HandleMetrics)
	r.Get("/ws", h.HandleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analysis", h.PostAnalysis)
		r.Post("/analysis/grades", h.PostGrades)
		r.Get("/games/recent", h.GetRecentGames)

		r.Route("/games/{game_id}", func(r chi.Router) {
			r.Get("/analysis", h.GetGameAnalysis)
			r.Get("/grades", h.GetGameGrades)
			r.Get("/grades/history", h.GetGradeHistory)
		})
	})
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"service":        "cfb-analytics-service",
		"timestamp":      time.Now().UTC(),
		"active_clients": h.hub.GetClientCount(),
	})
}

// HandleMetrics returns hub metrics
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.hub.GetMetrics())
}

// PostAnalysis runs both engines over a caller-supplied document bundle
func (h *Handler) PostAnalysis(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	report, err := h.service.Analyze(input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// PostGrades runs only the grading engine. It never fails on well-formed JSON.
func (h *Handler) PostGrades(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, h.service.Grade(input))
}

// GetGameAnalysis returns the report for a game
// Query params: refresh
func (h *Handler) GetGameAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), gameRequestTimeout)
	defer cancel()

	gameID := chi.URLParam(r, "game_id")
	report, err := h.service.AnalyzeGame(ctx, gameID, parseBoolParam(r, "refresh"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetGameGrades returns player grades for a game
// Query params: refresh
func (h *Handler) GetGameGrades(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), gameRequestTimeout)
	defer cancel()

	gameID := chi.URLParam(r, "game_id")
	grades, err := h.service.GameGrades(ctx, gameID, parseBoolParam(r, "refresh"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game_id":       gameID,
		"player_grades": grades,
		"count":         len(grades),
	})
}

// GetGradeHistory returns archived grading runs for a game
// Query params: limit
func (h *Handler) GetGradeHistory(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "game_id")

	limit := parseIntParam(r, "limit", defaultHistoryLimit)
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	runs, err := h.service.GradeHistory(r.Context(), gameID, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game_id": gameID,
		"runs":    runs,
		"count":   len(runs),
	})
}

// GetRecentGames lists recently analyzed game IDs, newest first
// Query params: limit
func (h *Handler) GetRecentGames(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.RecentGames(r.Context(), parseIntParam(r, "limit", defaultRecentLimit))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game_ids": ids,
		"count":    len(ids),
	})
}

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (models.AnalysisInput, bool) {
	var input models.AnalysisInput

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return input, false
	}
	return input, true
}

// respondServiceError maps service sentinels to status codes
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analysis.ErrMissingGameInfo):
		h.respondError(w, http.StatusUnprocessableEntity, "analysis unavailable: game info missing", err)
	case errors.Is(err, service.ErrGameNotFound):
		h.respondError(w, http.StatusNotFound, "game not found", err)
	case errors.Is(err, service.ErrArchiveDisabled):
		h.respondError(w, http.StatusServiceUnavailable, "grade history is not enabled", err)
	case errors.Is(err, service.ErrCacheDisabled):
		h.respondError(w, http.StatusServiceUnavailable, "report cache is not enabled", err)
	case errors.Is(err, context.DeadlineExceeded):
		h.respondError(w, http.StatusGatewayTimeout, "upstream timed out", err)
	default:
		h.respondError(w, http.StatusInternalServerError, "analysis failed", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		entry := h.logger.WithError(err).WithField("status", status)
		if status >= http.StatusInternalServerError {
			entry.Error(message)
		} else {
			entry.Debug(message)
		}
	}

	respondJSON(w, status, models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// respondJSON encodes before writing the header so an unencodable body becomes a 500
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(models.ErrorResponse{
			Error:   http.StatusText(status),
			Message: "response encoding failed",
			Code:    status,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func parseIntParam(r *http.Request, key string, defaultValue int) int {
	if n, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func parseBoolParam(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}
