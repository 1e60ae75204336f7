package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
	_ "github.com/glebarez/go-sqlite"
	_ "github.com/lib/pq"
)

// Supported archive drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrUnsupportedDriver is returned by Open for drivers other than postgres and sqlite
var ErrUnsupportedDriver = errors.New("unsupported archive driver")

const defaultHistoryLimit = 10

var schema = []string{
	`CREATE TABLE IF NOT EXISTS grade_runs (
		run_id       TEXT PRIMARY KEY,
		game_id      TEXT NOT NULL,
		home_team    TEXT NOT NULL,
		away_team    TEXT NOT NULL,
		generated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_grade_runs_game ON grade_runs (game_id, generated_at)`,
	`CREATE TABLE IF NOT EXISTS player_grades (
		run_id         TEXT NOT NULL REFERENCES grade_runs (run_id) ON DELETE CASCADE,
		player_name    TEXT NOT NULL,
		team           TEXT NOT NULL,
		position       TEXT NOT NULL,
		overall_grade  DOUBLE PRECISION NOT NULL,
		play_count     INTEGER NOT NULL,
		average_ppa    DOUBLE PRECISION NOT NULL,
		name_collision BOOLEAN NOT NULL,
		PRIMARY KEY (run_id, team, player_name)
	)`,
}

// Archive stores grading runs so grades can be compared across re-analyses of a game
type Archive struct {
	db     *sql.DB
	driver string
}

// Open connects to the archive database
func Open(driver, dsn string) (*Archive, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}

	// :memory: databases are per-connection
	if driver == DriverSQLite {
		conn.SetMaxOpenConns(1)
	}

	return NewArchive(conn, driver), nil
}

// NewArchive wraps an existing connection
func NewArchive(conn *sql.DB, driver string) *Archive {
	return &Archive{
		db:     conn,
		driver: driver,
	}
}

// Ping verifies the connection
func (a *Archive) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// Close closes the underlying connection pool
func (a *Archive) Close() error {
	return a.db.Close()
}

// EnsureSchema creates the archive tables if they do not exist
func (a *Archive) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// placeholder returns the nth bind parameter for the active driver
func (a *Archive) placeholder(n int) string {
	if a.driver == DriverPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// placeholders returns a comma-separated list of n bind parameters
func (a *Archive) placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = a.placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}

// SaveGradeRun writes a report's grades in one transaction
func (a *Archive) SaveGradeRun(ctx context.Context, report *models.GameReport) error {
	if report == nil {
		return errors.New("nil report")
	}

	var homeTeam, awayTeam string
	if report.Analysis != nil {
		homeTeam = report.Analysis.Game.HomeTeam
		awayTeam = report.Analysis.Game.AwayTeam
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if commit doesn't happen

	runQuery := fmt.Sprintf(`
		INSERT INTO grade_runs (run_id, game_id, home_team, away_team, generated_at)
		VALUES (%s)
	`, a.placeholders(5))

	if _, err := tx.ExecContext(ctx, runQuery,
		report.RunID,
		report.GameID,
		homeTeam,
		awayTeam,
		report.GeneratedAt.UTC(),
	); err != nil {
		return fmt.Errorf("failed to insert grade run: %w", err)
	}

	gradeQuery := fmt.Sprintf(`
		INSERT INTO player_grades (
			run_id, player_name, team, position,
			overall_grade, play_count, average_ppa, name_collision
		) VALUES (%s)
	`, a.placeholders(8))

	for _, g := range report.PlayerGrades {
		if _, err := tx.ExecContext(ctx, gradeQuery,
			report.RunID,
			g.Name,
			g.Team,
			g.Position,
			g.OverallGrade,
			g.PlayCount,
			g.AveragePPA,
			g.NameCollision,
		); err != nil {
			return fmt.Errorf("failed to insert grade for %s: %w", g.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGradeHistory returns the most recent runs for a game, newest first.
// Each run's grades are ordered best first.
func (a *Archive) GetGradeHistory(ctx context.Context, gameID string, limit int) ([]models.GradeRun, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	runQuery := fmt.Sprintf(`
		SELECT run_id, game_id, home_team, away_team, generated_at
		FROM grade_runs
		WHERE game_id = %s
		ORDER BY generated_at DESC
		LIMIT %s
	`, a.placeholder(1), a.placeholder(2))

	rows, err := a.db.QueryContext(ctx, runQuery, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query grade runs: %w", err)
	}

	runs := []models.GradeRun{}
	for rows.Next() {
		var run models.GradeRun
		if err := rows.Scan(&run.RunID, &run.GameID, &run.HomeTeam, &run.AwayTeam, &run.GeneratedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan grade run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating grade runs: %w", err)
	}
	rows.Close()

	for i := range runs {
		grades, err := a.gradesForRun(ctx, runs[i].RunID)
		if err != nil {
			return nil, err
		}
		runs[i].Grades = grades
	}

	return runs, nil
}

func (a *Archive) gradesForRun(ctx context.Context, runID string) ([]models.GradeRecord, error) {
	query := fmt.Sprintf(`
		SELECT player_name, team, position, overall_grade, play_count, average_ppa, name_collision
		FROM player_grades
		WHERE run_id = %s
		ORDER BY overall_grade DESC, player_name ASC
	`, a.placeholder(1))

	rows, err := a.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query player grades: %w", err)
	}
	defer rows.Close()

	grades := []models.GradeRecord{}
	for rows.Next() {
		var g models.GradeRecord
		if err := rows.Scan(
			&g.PlayerName,
			&g.Team,
			&g.Position,
			&g.OverallGrade,
			&g.PlayCount,
			&g.AveragePPA,
			&g.NameCollision,
		); err != nil {
			return nil, fmt.Errorf("failed to scan player grade: %w", err)
		}
		grades = append(grades, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player grades: %w", err)
	}
	return grades, nil
}
