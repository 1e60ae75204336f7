package poller

import (
	"context"
	"sync"
	"time"

	"github.com/fortuna/services/cfb-analytics-service/internal/logging"
	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
	"github.com/sirupsen/logrus"
)

const (
	defaultInterval = time.Minute
	maxConcurrent   = 4
)

// Refresher re-runs the analysis for one game
type Refresher interface {
	AnalyzeGame(ctx context.Context, gameID string, refresh bool) (*models.GameReport, error)
}

// GamePoller refreshes a fixed set of tracked games on an interval
type GamePoller struct {
	refresher Refresher
	games     []string
	interval  time.Duration
	logger    *logrus.Entry
}

// NewGamePoller creates a new poller for the tracked games
func NewGamePoller(refresher Refresher, games []string, interval time.Duration, logger *logrus.Entry) *GamePoller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &GamePoller{
		refresher: refresher,
		games:     games,
		interval:  interval,
		logger:    logging.OrDiscard(logger),
	}
}

// Run polls immediately and then on every tick until ctx is cancelled
func (p *GamePoller) Run(ctx context.Context) {
	if len(p.games) == 0 {
		p.logger.Info("no tracked games, poller idle")
		return
	}

	p.logger.WithFields(logrus.Fields{
		"games":    len(p.games),
		"interval": p.interval.String(),
	}).Info("starting poller")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("stopping poller")
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

// pollOnce refreshes every tracked game, at most maxConcurrent at a time.
// It returns the number of games refreshed successfully.
func (p *GamePoller) pollOnce(ctx context.Context) int {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		refreshed int
	)
	sem := make(chan struct{}, maxConcurrent)

	for _, gameID := range p.games {
		select {
		case <-ctx.Done():
			wg.Wait()
			return refreshed
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(gameID string) {
			defer wg.Done()
			defer func() { <-sem }()

			report, err := p.refresher.AnalyzeGame(ctx, gameID, true)
			if err != nil {
				p.logger.WithField("game_id", gameID).WithError(err).Warn("refresh failed")
				return
			}

			mu.Lock()
			refreshed++
			mu.Unlock()

			p.logger.WithFields(logrus.Fields{
				"game_id": gameID,
				"run_id":  report.RunID,
			}).Debug("game refreshed")
		}(gameID)
	}

	wg.Wait()
	return refreshed
}
