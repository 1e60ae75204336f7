package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fortuna/services/cfb-analytics-service/internal/analysis"
	"github.com/fortuna/services/cfb-analytics-service/internal/cache"
	"github.com/fortuna/services/cfb-analytics-service/internal/providers/cfbd"
	"github.com/fortuna/services/cfb-analytics-service/internal/service"
	"github.com/fortuna/services/cfb-analytics-service/internal/testutil"
	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

var fixedNow = time.Date(2024, 11, 30, 20, 0, 0, 0, time.UTC)

type fakeSource struct {
	box        *models.BoxScore
	boxErr     error
	plays      *models.PlayByPlay
	playsErr   error
	scoreboard *models.Scoreboard
	info       *models.GameInfo

	mu    sync.Mutex
	calls int
}

func newFakeSource() *fakeSource {
	input := testutil.AnalysisInputFixture()
	return &fakeSource{box: input.BoxScore, plays: input.PlayByPlay}
}

func (f *fakeSource) count() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeSource) FetchBoxScore(context.Context, string) (*models.BoxScore, error) {
	f.count()
	return f.box, f.boxErr
}

func (f *fakeSource) FetchPlayByPlay(context.Context, string) (*models.PlayByPlay, error) {
	f.count()
	return f.plays, f.playsErr
}

func (f *fakeSource) FetchScoreboard(context.Context, string) (*models.Scoreboard, error) {
	f.count()
	if f.scoreboard == nil {
		return nil, cfbd.ErrNotFound
	}
	return f.scoreboard, nil
}

func (f *fakeSource) FetchGameInfo(context.Context, string) (*models.GameInfo, error) {
	f.count()
	if f.info == nil {
		return nil, cfbd.ErrNotFound
	}
	return f.info, nil
}

type memoryCache struct {
	reports     map[string]*models.GameReport
	grades      map[string][]models.PlayerGrade
	recent      []string
	writeErr    error
	writes      int
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		reports: make(map[string]*models.GameReport),
		grades:  make(map[string][]models.PlayerGrade),
	}
}

func (c *memoryCache) ReadReport(_ context.Context, gameID string) (*models.GameReport, error) {
	if r, ok := c.reports[gameID]; ok {
		return r, nil
	}
	return nil, cache.ErrCacheMiss
}

func (c *memoryCache) WriteReport(_ context.Context, report *models.GameReport) error {
	c.writes++
	if c.writeErr != nil {
		return c.writeErr
	}
	c.reports[report.GameID] = report
	c.grades[report.GameID] = report.PlayerGrades
	c.recent = append([]string{report.GameID}, c.recent...)
	return nil
}

func (c *memoryCache) ReadGrades(_ context.Context, gameID string) ([]models.PlayerGrade, error) {
	if g, ok := c.grades[gameID]; ok {
		return g, nil
	}
	return nil, cache.ErrCacheMiss
}

func (c *memoryCache) Invalidate(_ context.Context, gameID string) error {
	c.invalidated = append(c.invalidated, gameID)
	delete(c.reports, gameID)
	delete(c.grades, gameID)
	return nil
}

func (c *memoryCache) RecentGames(_ context.Context, limit int) ([]string, error) {
	if limit > len(c.recent) {
		limit = len(c.recent)
	}
	return c.recent[:limit], nil
}

type recordingArchive struct {
	saved []*models.GameReport
	err   error
}

func (a *recordingArchive) SaveGradeRun(_ context.Context, report *models.GameReport) error {
	if a.err != nil {
		return a.err
	}
	a.saved = append(a.saved, report)
	return nil
}

func (a *recordingArchive) GetGradeHistory(_ context.Context, gameID string, limit int) ([]models.GradeRun, error) {
	runs := []models.GradeRun{}
	for _, r := range a.saved {
		if r.GameID == gameID && len(runs) < limit {
			runs = append(runs, models.GradeRun{RunID: r.RunID, GameID: r.GameID})
		}
	}
	return runs, nil
}

type recordingPublisher struct {
	updates []models.AnalysisUpdate
	err     error
}

func (p *recordingPublisher) PublishAnalysis(_ context.Context, update models.AnalysisUpdate) error {
	p.updates = append(p.updates, update)
	return p.err
}

type recordingBroadcaster struct {
	updates []models.AnalysisUpdate
}

func (b *recordingBroadcaster) Broadcast(update models.AnalysisUpdate) {
	b.updates = append(b.updates, update)
}

type harness struct {
	source      *fakeSource
	cache       *memoryCache
	archive     *recordingArchive
	publisher   *recordingPublisher
	broadcaster *recordingBroadcaster
	svc         *service.AnalysisService
}

func newHarness(overrides ...func(*harness)) *harness {
	h := &harness{
		source:      newFakeSource(),
		cache:       newMemoryCache(),
		archive:     &recordingArchive{},
		publisher:   &recordingPublisher{},
		broadcaster: &recordingBroadcaster{},
	}
	for _, override := range overrides {
		override(h)
	}

	h.svc = service.New(service.Options{
		Source:      h.source,
		Cache:       h.cache,
		Archive:     h.archive,
		Publisher:   h.publisher,
		Broadcaster: h.broadcaster,
		TopPlayers:  3,
		Now:         func() time.Time { return fixedNow },
	})
	return h
}

func TestAnalyzeGame_FreshRunIsDistributed(t *testing.T) {
	h := newHarness()

	report, err := h.svc.AnalyzeGame(context.Background(), "401520281", false)
	if err != nil {
		t.Fatalf("AnalyzeGame() error = %v", err)
	}

	if report.RunID == "" {
		t.Error("expected a run id")
	}
	if report.GameID != "401520281" || !report.GeneratedAt.Equal(fixedNow) {
		t.Errorf("report header = %s / %v", report.GameID, report.GeneratedAt)
	}
	if report.Analysis.Game.HomeTeam != testutil.HomeTeam {
		t.Errorf("HomeTeam = %s", report.Analysis.Game.HomeTeam)
	}
	if len(report.PlayerGrades) == 0 {
		t.Fatal("expected player grades")
	}

	if h.cache.reports["401520281"] != report {
		t.Error("report was not cached")
	}
	if len(h.archive.saved) != 1 {
		t.Errorf("archived %d runs, want 1", len(h.archive.saved))
	}
	if len(h.publisher.updates) != 1 || len(h.broadcaster.updates) != 1 {
		t.Fatalf("published %d, broadcast %d", len(h.publisher.updates), len(h.broadcaster.updates))
	}

	update := h.publisher.updates[0]
	if update.RunID != report.RunID || update.HomePoints != 28 || update.AwayPoints != 21 {
		t.Errorf("update = %+v", update)
	}
	if len(update.TopPlayers) != 3 {
		t.Errorf("expected 3 top players, got %d", len(update.TopPlayers))
	}
	if update.TopPlayers[0].Name != report.PlayerGrades[0].Name {
		t.Errorf("top player = %s, want %s", update.TopPlayers[0].Name, report.PlayerGrades[0].Name)
	}
}

func TestAnalyzeGame_ServesCache(t *testing.T) {
	cached := &models.GameReport{RunID: "cached", GameID: "401520281"}
	h := newHarness(func(h *harness) { h.cache.reports["401520281"] = cached })

	report, err := h.svc.AnalyzeGame(context.Background(), "401520281", false)
	if err != nil {
		t.Fatalf("AnalyzeGame() error = %v", err)
	}
	if report != cached {
		t.Error("expected the cached report")
	}
	if h.source.calls != 0 {
		t.Errorf("source called %d times on a cache hit", h.source.calls)
	}
	if len(h.publisher.updates) != 0 {
		t.Error("cache hits should not republish")
	}
}

func TestAnalyzeGame_RefreshBypassesCache(t *testing.T) {
	cached := &models.GameReport{RunID: "cached", GameID: "401520281"}
	h := newHarness(func(h *harness) { h.cache.reports["401520281"] = cached })

	report, err := h.svc.AnalyzeGame(context.Background(), "401520281", true)
	if err != nil {
		t.Fatalf("AnalyzeGame() error = %v", err)
	}
	if report.RunID == "cached" {
		t.Error("refresh should run the engines")
	}
	if h.cache.reports["401520281"] != report {
		t.Error("refresh should overwrite the cache")
	}
	if len(h.cache.invalidated) != 1 {
		t.Errorf("invalidated %v, want the refreshed game", h.cache.invalidated)
	}
}

func TestAnalyzeGame_FailedRefreshDropsStaleReport(t *testing.T) {
	cached := &models.GameReport{RunID: "cached", GameID: "401520281"}
	h := newHarness(func(h *harness) {
		h.cache.reports["401520281"] = cached
		h.source.box, h.source.boxErr = nil, errors.New("status 503")
	})

	if _, err := h.svc.AnalyzeGame(context.Background(), "401520281", true); err == nil {
		t.Fatal("expected the upstream error")
	}
	if _, ok := h.cache.reports["401520281"]; ok {
		t.Error("stale report survived a failed refresh")
	}
}

func TestAnalyzeGame_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  func(*fakeSource)
		wantErr error
	}{
		{
			name:    "unknown game",
			source:  func(f *fakeSource) { f.box, f.boxErr = nil, fmt.Errorf("fetch: %w", cfbd.ErrNotFound) },
			wantErr: service.ErrGameNotFound,
		},
		{
			name:    "box score without game info",
			source:  func(f *fakeSource) { f.box = &models.BoxScore{} },
			wantErr: analysis.ErrMissingGameInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(func(h *harness) { tt.source(h.source) })

			_, err := h.svc.AnalyzeGame(context.Background(), "401520281", false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(h.publisher.updates) != 0 || h.cache.writes != 0 {
				t.Error("failed runs should not be distributed")
			}
		})
	}
}

func TestAnalyzeGame_UpstreamFailureIsNotNotFound(t *testing.T) {
	h := newHarness(func(h *harness) { h.source.box, h.source.boxErr = nil, errors.New("status 503") })

	_, err := h.svc.AnalyzeGame(context.Background(), "401520281", false)
	if err == nil || errors.Is(err, service.ErrGameNotFound) {
		t.Errorf("expected a plain upstream error, got %v", err)
	}
}

func TestAnalyzeGame_OptionalDocumentsDegrade(t *testing.T) {
	h := newHarness(func(h *harness) { h.source.plays, h.source.playsErr = nil, errors.New("timeout") })

	report, err := h.svc.AnalyzeGame(context.Background(), "401520281", false)
	if err != nil {
		t.Fatalf("AnalyzeGame() error = %v", err)
	}
	if len(report.Analysis.KeyPlays) != 0 {
		t.Errorf("expected no key plays without play-by-play, got %d", len(report.Analysis.KeyPlays))
	}
	for _, g := range report.PlayerGrades {
		if g.PlayCount != 0 {
			t.Errorf("%s has %d plays without play-by-play", g.Name, g.PlayCount)
		}
	}
}

func TestAnalyzeGame_SideEffectFailuresAreLogged(t *testing.T) {
	h := newHarness(func(h *harness) {
		h.cache.writeErr = errors.New("redis down")
		h.archive.err = errors.New("db down")
		h.publisher.err = errors.New("broker down")
	})

	if _, err := h.svc.AnalyzeGame(context.Background(), "401520281", false); err != nil {
		t.Fatalf("side effect failures leaked: %v", err)
	}
	if len(h.broadcaster.updates) != 1 {
		t.Error("broadcast should still happen")
	}
}

func TestGameGrades(t *testing.T) {
	h := newHarness()

	grades, err := h.svc.GameGrades(context.Background(), "401520281", false)
	if err != nil {
		t.Fatalf("GameGrades() error = %v", err)
	}
	if len(grades) == 0 {
		t.Error("expected grades")
	}
}

func TestGameGrades_ServesGradesKey(t *testing.T) {
	cached := []models.PlayerGrade{{Name: "Smith", Team: testutil.HomeTeam, OverallGrade: 99.8}}
	h := newHarness(func(h *harness) { h.cache.grades["401520281"] = cached })

	grades, err := h.svc.GameGrades(context.Background(), "401520281", false)
	if err != nil {
		t.Fatalf("GameGrades() error = %v", err)
	}
	if len(grades) != 1 || grades[0].Name != "Smith" {
		t.Errorf("grades = %+v, want the cached grades", grades)
	}
	if h.source.calls != 0 {
		t.Errorf("source called %d times on a grades hit", h.source.calls)
	}

	refreshed, err := h.svc.GameGrades(context.Background(), "401520281", true)
	if err != nil {
		t.Fatalf("GameGrades(refresh) error = %v", err)
	}
	if len(refreshed) == 1 || h.source.calls == 0 {
		t.Error("refresh should regrade from the provider")
	}
}

func TestRecentGames(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		svc := service.New(service.Options{Source: newFakeSource()})
		if _, err := svc.RecentGames(context.Background(), 10); !errors.Is(err, service.ErrCacheDisabled) {
			t.Errorf("expected ErrCacheDisabled, got %v", err)
		}
	})

	t.Run("newest first", func(t *testing.T) {
		h := newHarness()
		ctx := context.Background()

		for _, id := range []string{"401520281", "401520282"} {
			if _, err := h.svc.AnalyzeGame(ctx, id, false); err != nil {
				t.Fatalf("AnalyzeGame(%s) error = %v", id, err)
			}
		}

		ids, err := h.svc.RecentGames(ctx, 10)
		if err != nil {
			t.Fatalf("RecentGames() error = %v", err)
		}
		if len(ids) != 2 || ids[0] != "401520282" {
			t.Errorf("recent = %v", ids)
		}
	})
}

func TestGradeHistory(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		svc := service.New(service.Options{Source: newFakeSource()})
		if _, err := svc.GradeHistory(context.Background(), "401520281", 5); !errors.Is(err, service.ErrArchiveDisabled) {
			t.Errorf("expected ErrArchiveDisabled, got %v", err)
		}
	})

	t.Run("returns archived runs", func(t *testing.T) {
		h := newHarness()
		ctx := context.Background()

		for i := 0; i < 2; i++ {
			if _, err := h.svc.AnalyzeGame(ctx, "401520281", true); err != nil {
				t.Fatalf("AnalyzeGame() error = %v", err)
			}
		}

		runs, err := h.svc.GradeHistory(ctx, "401520281", 5)
		if err != nil {
			t.Fatalf("GradeHistory() error = %v", err)
		}
		if len(runs) != 2 || runs[0].RunID == runs[1].RunID {
			t.Errorf("runs = %+v", runs)
		}
	})
}

func TestAnalyze_IsSideEffectFree(t *testing.T) {
	h := newHarness()

	report, err := h.svc.Analyze(testutil.AnalysisInputFixture())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if report.GameID != "401520281" {
		t.Errorf("GameID = %s", report.GameID)
	}
	if h.cache.writes != 0 || len(h.publisher.updates) != 0 || len(h.archive.saved) != 0 {
		t.Error("Analyze should not touch any sink")
	}

	grades := h.svc.Grade(testutil.AnalysisInputFixture())
	if len(grades) != len(report.PlayerGrades) {
		t.Errorf("Grade() returned %d players, Analyze %d", len(grades), len(report.PlayerGrades))
	}
}
