package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fortuna/services/cfb-analytics-service/internal/handlers"
	"github.com/fortuna/services/cfb-analytics-service/internal/hub"
	"github.com/fortuna/services/cfb-analytics-service/internal/service"
	"github.com/fortuna/services/cfb-analytics-service/internal/testutil"
	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// stubService runs the real engines for posted documents and canned results for games
type stubService struct {
	*service.AnalysisService

	report  *models.GameReport
	runs    []models.GradeRun
	recent  []string
	err     error
	refresh bool
	limit   int
}

func (s *stubService) AnalyzeGame(_ context.Context, gameID string, refresh bool) (*models.GameReport, error) {
	s.refresh = refresh
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func (s *stubService) GameGrades(ctx context.Context, gameID string, refresh bool) ([]models.PlayerGrade, error) {
	report, err := s.AnalyzeGame(ctx, gameID, refresh)
	if err != nil {
		return nil, err
	}
	return report.PlayerGrades, nil
}

func (s *stubService) GradeHistory(_ context.Context, gameID string, limit int) ([]models.GradeRun, error) {
	s.limit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.runs, nil
}

// RecentGames falls through to the cacheless service when no IDs are canned
func (s *stubService) RecentGames(ctx context.Context, limit int) ([]string, error) {
	s.limit = limit
	if s.recent == nil {
		return s.AnalysisService.RecentGames(ctx, limit)
	}
	if limit < len(s.recent) {
		return s.recent[:limit], nil
	}
	return s.recent, nil
}

func setupRouter(t *testing.T, svc *stubService) (http.Handler, *hub.Hub) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := hub.NewHub(nil)
	go h.Run(ctx)

	if svc.AnalysisService == nil {
		svc.AnalysisService = service.New(service.Options{})
	}

	r := chi.NewRouter()
	handlers.NewHandler(ctx, svc, h, nil).Register(r)
	return r, h
}

func do(t *testing.T, router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupRouter(t, &stubService{})

	rec := do(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decode[map[string]interface{}](t, rec)
	if body["status"] != "healthy" || body["service"] != "cfb-analytics-service" {
		t.Errorf("body = %v", body)
	}
}

func TestMetrics(t *testing.T) {
	router, _ := setupRouter(t, &stubService{})

	rec := do(t, router, http.MethodGet, "/metrics", nil)
	body := decode[map[string]interface{}](t, rec)
	if _, ok := body["active_clients"]; !ok {
		t.Errorf("missing active_clients in %v", body)
	}
}

func TestPostAnalysis(t *testing.T) {
	router, _ := setupRouter(t, &stubService{})

	payload, _ := json.Marshal(testutil.AnalysisInputFixture())
	rec := do(t, router, http.MethodPost, "/api/v1/analysis", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	report := decode[models.GameReport](t, rec)
	if report.Analysis == nil || report.Analysis.Game.HomeTeam != testutil.HomeTeam {
		t.Fatalf("analysis = %+v", report.Analysis)
	}
	if report.Analysis.Game.HomePoints != 28 || report.Analysis.Game.AwayPoints != 21 {
		t.Errorf("score = %d-%d", report.Analysis.Game.HomePoints, report.Analysis.Game.AwayPoints)
	}
	if len(report.PlayerGrades) == 0 {
		t.Error("expected player grades")
	}
}

func TestPostAnalysis_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"malformed json", `{"boxScore":`, http.StatusBadRequest},
		{"missing game info", `{"boxScore":{}}`, http.StatusUnprocessableEntity},
		{"empty document", `{}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupRouter(t, &stubService{})

			rec := do(t, router, http.MethodPost, "/api/v1/analysis", []byte(tt.body))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			errResp := decode[models.ErrorResponse](t, rec)
			if errResp.Code != tt.wantStatus || errResp.Message == "" {
				t.Errorf("error body = %+v", errResp)
			}
		})
	}
}

func TestPostGrades(t *testing.T) {
	router, _ := setupRouter(t, &stubService{})

	t.Run("full game", func(t *testing.T) {
		payload, _ := json.Marshal(testutil.AnalysisInputFixture())
		rec := do(t, router, http.MethodPost, "/api/v1/analysis/grades", payload)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}

		grades := decode[[]models.PlayerGrade](t, rec)
		if len(grades) == 0 {
			t.Fatal("expected grades")
		}
		for i := 1; i < len(grades); i++ {
			if grades[i].OverallGrade > grades[i-1].OverallGrade {
				t.Errorf("grades not sorted at %d", i)
			}
		}
	})

	t.Run("empty document", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/v1/analysis/grades", []byte(`{}`))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
			t.Errorf("body = %s, want []", body)
		}
	})
}

func TestGetGameAnalysis(t *testing.T) {
	report := &models.GameReport{
		RunID:        "run-1",
		GameID:       "401520281",
		PlayerGrades: []models.PlayerGrade{{Name: "Smith", OverallGrade: 99.8}},
	}

	tests := []struct {
		name        string
		path        string
		err         error
		wantStatus  int
		wantRefresh bool
	}{
		{"cached", "/api/v1/games/401520281/analysis", nil, http.StatusOK, false},
		{"refresh", "/api/v1/games/401520281/analysis?refresh=true", nil, http.StatusOK, true},
		{"not found", "/api/v1/games/1/analysis", fmt.Errorf("x: %w", service.ErrGameNotFound), http.StatusNotFound, false},
		{"upstream failure", "/api/v1/games/1/analysis", fmt.Errorf("status 503"), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{report: report, err: tt.err}
			router, _ := setupRouter(t, svc)

			rec := do(t, router, http.MethodGet, tt.path, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if svc.refresh != tt.wantRefresh {
				t.Errorf("refresh = %v, want %v", svc.refresh, tt.wantRefresh)
			}
			if tt.wantStatus == http.StatusOK {
				if got := decode[models.GameReport](t, rec); got.RunID != "run-1" {
					t.Errorf("RunID = %s", got.RunID)
				}
			}
		})
	}
}

func TestGetGameGrades(t *testing.T) {
	svc := &stubService{report: &models.GameReport{
		PlayerGrades: []models.PlayerGrade{{Name: "Smith"}, {Name: "Jones"}},
	}}
	router, _ := setupRouter(t, svc)

	rec := do(t, router, http.MethodGet, "/api/v1/games/401520281/grades", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decode[map[string]interface{}](t, rec)
	if body["game_id"] != "401520281" || body["count"] != float64(2) {
		t.Errorf("body = %v", body)
	}
}

func TestGetGradeHistory(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		err        error
		wantStatus int
		wantLimit  int
	}{
		{"default limit", "", nil, http.StatusOK, 10},
		{"explicit limit", "?limit=3", nil, http.StatusOK, 3},
		{"capped limit", "?limit=1000", nil, http.StatusOK, 100},
		{"archive disabled", "", service.ErrArchiveDisabled, http.StatusServiceUnavailable, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{runs: []models.GradeRun{{RunID: "run-1"}}, err: tt.err}
			router, _ := setupRouter(t, svc)

			rec := do(t, router, http.MethodGet, "/api/v1/games/401520281/grades/history"+tt.query, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if svc.limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", svc.limit, tt.wantLimit)
			}
		})
	}
}

func TestGetRecentGames(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		recent     []string
		wantStatus int
		wantCount  int
		wantLimit  int
	}{
		{"default limit", "", []string{"401520282", "401520281"}, http.StatusOK, 2, 20},
		{"explicit limit", "?limit=1", []string{"401520282", "401520281"}, http.StatusOK, 1, 1},
		{"cache disabled", "", nil, http.StatusServiceUnavailable, 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{recent: tt.recent}
			router, _ := setupRouter(t, svc)

			rec := do(t, router, http.MethodGet, "/api/v1/games/recent"+tt.query, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if svc.limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", svc.limit, tt.wantLimit)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			body := decode[map[string]interface{}](t, rec)
			if body["count"] != float64(tt.wantCount) {
				t.Errorf("body = %v", body)
			}
			if ids, _ := body["game_ids"].([]interface{}); len(ids) == 0 || ids[0] != "401520282" {
				t.Errorf("game_ids = %v, want newest first", body["game_ids"])
			}
		})
	}
}

func TestGetGameAnalysis_UnencodableReport(t *testing.T) {
	svc := &stubService{report: &models.GameReport{
		RunID:        "run-1",
		PlayerGrades: []models.PlayerGrade{{Name: "Smith", OverallGrade: math.NaN()}},
	}}
	router, _ := setupRouter(t, svc)

	rec := do(t, router, http.MethodGet, "/api/v1/games/401520281/analysis", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := decode[models.ErrorResponse](t, rec); body.Code != http.StatusInternalServerError {
		t.Errorf("body = %+v", body)
	}
}

func TestWebSocket_ReceivesMatchingUpdates(t *testing.T) {
	router, h := setupRouter(t, &stubService{})
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	subscribe := models.ClientMessage{
		Type:    models.MessageTypeSubscribe,
		Payload: map[string]interface{}{"games": []string{"401520281"}},
	}
	if err := conn.WriteJSON(subscribe); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// messages are handled in order, so the heartbeat reply means the filter is set
	if err := conn.WriteJSON(models.ClientMessage{Type: models.MessageTypeHeartbeat}); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	var reply models.ServerMessage
	if err := conn.ReadJSON(&reply); err != nil || reply.Type != models.MessageTypeHeartbeat {
		t.Fatalf("heartbeat reply = %+v, err = %v", reply, err)
	}

	h.Broadcast(models.AnalysisUpdate{GameID: "999", HomeTeam: "Iowa"})
	h.Broadcast(models.AnalysisUpdate{GameID: "401520281", HomeTeam: testutil.HomeTeam})

	var msg struct {
		Type    string                `json:"type"`
		Payload models.AnalysisUpdate `json:"payload"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if msg.Type != models.MessageTypeAnalysisUpdate || msg.Payload.GameID != "401520281" {
		t.Errorf("update = %+v", msg)
	}
}
