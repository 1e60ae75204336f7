package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fortuna/services/cfb-analytics-service/internal/analysis"
	"github.com/fortuna/services/cfb-analytics-service/internal/cache"
	"github.com/fortuna/services/cfb-analytics-service/internal/grading"
	"github.com/fortuna/services/cfb-analytics-service/internal/logging"
	"github.com/fortuna/services/cfb-analytics-service/internal/providers/cfbd"
	"github.com/fortuna/services/cfb-analytics-service/internal/publisher"
	"github.com/fortuna/services/cfb-analytics-service/pkg/contracts"
	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrGameNotFound is returned when the provider has no box score for the game
	ErrGameNotFound = errors.New("game not found")

	// ErrArchiveDisabled is returned by GradeHistory when no archive is configured
	ErrArchiveDisabled = errors.New("grade archive disabled")

	// ErrCacheDisabled is returned by RecentGames when no cache is configured
	ErrCacheDisabled = errors.New("report cache disabled")
)

const defaultTopPlayers = 5

// ReportCache stores finished reports by game
type ReportCache interface {
	ReadReport(ctx context.Context, gameID string) (*models.GameReport, error)
	ReadGrades(ctx context.Context, gameID string) ([]models.PlayerGrade, error)
	WriteReport(ctx context.Context, report *models.GameReport) error
	Invalidate(ctx context.Context, gameID string) error
	RecentGames(ctx context.Context, limit int) ([]string, error)
}

// GradeArchive keeps every grading run for history queries
type GradeArchive interface {
	SaveGradeRun(ctx context.Context, report *models.GameReport) error
	GetGradeHistory(ctx context.Context, gameID string, limit int) ([]models.GradeRun, error)
}

// Broadcaster pushes updates to live subscribers
type Broadcaster interface {
	Broadcast(update models.AnalysisUpdate)
}

// Options wires the service's collaborators. Only Source is required for AnalyzeGame;
// every other sink is optional.
type Options struct {
	Source      contracts.GameDataSource
	Parser      contracts.PlayParser
	Cache       ReportCache
	Publisher   publisher.Publisher
	Archive     GradeArchive
	Broadcaster Broadcaster
	TopPlayers  int
	Logger      *logrus.Entry
	Now         func() time.Time
}

// AnalysisService runs both engines and distributes the results
type AnalysisService struct {
	source      contracts.GameDataSource
	cache       ReportCache
	publisher   publisher.Publisher
	archive     GradeArchive
	broadcaster Broadcaster
	topPlayers  int
	now         func() time.Time

	analyzer *analysis.Engine
	grader   *grading.Engine
	logger   *logrus.Entry
}

// New creates an analysis service
func New(opts Options) *AnalysisService {
	logger := logging.OrDiscard(opts.Logger)

	topPlayers := opts.TopPlayers
	if topPlayers <= 0 {
		topPlayers = defaultTopPlayers
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &AnalysisService{
		source:      opts.Source,
		cache:       opts.Cache,
		publisher:   opts.Publisher,
		archive:     opts.Archive,
		broadcaster: opts.Broadcaster,
		topPlayers:  topPlayers,
		now:         now,
		analyzer:    analysis.NewEngine(logger.WithField("engine", "analysis")),
		grader:      grading.NewEngine(opts.Parser, logger.WithField("engine", "grading")),
		logger:      logger,
	}
}

// Analyze runs both engines over caller-supplied documents. Nothing is cached or published.
func (s *AnalysisService) Analyze(input models.AnalysisInput) (*models.GameReport, error) {
	result, err := s.analyzer.GenerateGameAnalysis(input)
	if err != nil {
		return nil, err
	}

	return &models.GameReport{
		RunID:        uuid.New().String(),
		GameID:       result.Game.GameID,
		GeneratedAt:  s.now().UTC(),
		Analysis:     result,
		PlayerGrades: s.grader.CalculatePlayerGrades(input),
	}, nil
}

// Grade runs only the grading engine
func (s *AnalysisService) Grade(input models.AnalysisInput) []models.PlayerGrade {
	return s.grader.CalculatePlayerGrades(input)
}

// AnalyzeGame returns the report for a game, serving the cache unless refresh is set.
// Refresh drops the cached entry first so a failed rerun never leaves a stale report behind.
// A fresh run is cached, published, archived and broadcast; failures there are logged only.
func (s *AnalysisService) AnalyzeGame(ctx context.Context, gameID string, refresh bool) (*models.GameReport, error) {
	log := s.logger.WithField("game_id", gameID)

	if refresh && s.cache != nil {
		if err := s.cache.Invalidate(ctx, gameID); err != nil {
			log.WithError(err).Warn("cache invalidate failed")
		}
	}

	if !refresh && s.cache != nil {
		report, err := s.cache.ReadReport(ctx, gameID)
		if err == nil {
			log.Debug("serving cached report")
			return report, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.WithError(err).Warn("cache read failed")
		}
	}

	if s.source == nil {
		return nil, fmt.Errorf("analyze game %s: no data source configured", gameID)
	}

	input, err := s.fetchInput(ctx, gameID)
	if err != nil {
		return nil, err
	}

	report, err := s.Analyze(input)
	if err != nil {
		return nil, fmt.Errorf("analyze game %s: %w", gameID, err)
	}
	report.GameID = gameID

	log.WithFields(logrus.Fields{
		"run_id":  report.RunID,
		"players": len(report.PlayerGrades),
		"pattern": report.Analysis.GameFlow.Pattern,
	}).Info("game analyzed")

	s.distribute(ctx, report)
	return report, nil
}

// GameGrades returns the player grades from the latest report for a game.
// The grades key is read first so the full report is not decoded on a hit.
func (s *AnalysisService) GameGrades(ctx context.Context, gameID string, refresh bool) ([]models.PlayerGrade, error) {
	if !refresh && s.cache != nil {
		grades, err := s.cache.ReadGrades(ctx, gameID)
		if err == nil {
			return grades, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WithField("game_id", gameID).WithError(err).Warn("grades cache read failed")
		}
	}

	report, err := s.AnalyzeGame(ctx, gameID, refresh)
	if err != nil {
		return nil, err
	}
	return report.PlayerGrades, nil
}

// RecentGames lists the most recently analyzed game IDs, newest first
func (s *AnalysisService) RecentGames(ctx context.Context, limit int) ([]string, error) {
	if s.cache == nil {
		return nil, ErrCacheDisabled
	}

	ids, err := s.cache.RecentGames(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent games: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// GradeHistory returns archived grading runs for a game, newest first
func (s *AnalysisService) GradeHistory(ctx context.Context, gameID string, limit int) ([]models.GradeRun, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}

	runs, err := s.archive.GetGradeHistory(ctx, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("grade history for %s: %w", gameID, err)
	}
	return runs, nil
}

// fetchInput loads all four documents concurrently.
// The box score is required; the rest degrade to nil with a warning.
func (s *AnalysisService) fetchInput(ctx context.Context, gameID string) (models.AnalysisInput, error) {
	var (
		input models.AnalysisInput
		wg    sync.WaitGroup

		boxErr, playsErr, scoreboardErr, infoErr error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		input.BoxScore, boxErr = s.source.FetchBoxScore(ctx, gameID)
	}()
	go func() {
		defer wg.Done()
		input.PlayByPlay, playsErr = s.source.FetchPlayByPlay(ctx, gameID)
	}()
	go func() {
		defer wg.Done()
		input.Scoreboard, scoreboardErr = s.source.FetchScoreboard(ctx, gameID)
	}()
	go func() {
		defer wg.Done()
		input.GameInfo, infoErr = s.source.FetchGameInfo(ctx, gameID)
	}()
	wg.Wait()

	if boxErr != nil {
		if errors.Is(boxErr, cfbd.ErrNotFound) {
			return input, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
		}
		return input, fmt.Errorf("fetching box score for %s: %w", gameID, boxErr)
	}

	for name, err := range map[string]error{
		"plays":      playsErr,
		"scoreboard": scoreboardErr,
		"game_info":  infoErr,
	} {
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"game_id":  gameID,
				"document": name,
			}).WithError(err).Warn("optional document unavailable")
		}
	}
	if playsErr != nil {
		input.PlayByPlay = nil
	}
	if scoreboardErr != nil {
		input.Scoreboard = nil
	}
	if infoErr != nil {
		input.GameInfo = nil
	}

	return input, nil
}

// distribute fans a fresh report out to every configured sink
func (s *AnalysisService) distribute(ctx context.Context, report *models.GameReport) {
	log := s.logger.WithFields(logrus.Fields{
		"game_id": report.GameID,
		"run_id":  report.RunID,
	})

	if s.cache != nil {
		if err := s.cache.WriteReport(ctx, report); err != nil {
			log.WithError(err).Warn("cache write failed")
		}
	}

	if s.archive != nil {
		if err := s.archive.SaveGradeRun(ctx, report); err != nil {
			log.WithError(err).Warn("archive write failed")
		}
	}

	update := models.NewAnalysisUpdate(report, s.topPlayers)

	if s.publisher != nil {
		if err := s.publisher.PublishAnalysis(ctx, update); err != nil {
			log.WithError(err).Warn("publish failed")
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(update)
	}
}
