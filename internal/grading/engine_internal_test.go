package grading

import (
	"testing"

	"github.com/fortuna/services/cfb-analytics-service/internal/testutil"
	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

func TestCalculatePlayerGrades_RecoversPerPlayer(t *testing.T) {
	engine := NewEngine(NewTextPlayParser(), nil)
	engine.score = func(position string, metrics models.PerformanceMetrics, details []models.PlayDetail) float64 {
		if position == "QB" {
			panic("qb grade")
		}
		return computeGrade(position, metrics, details)
	}

	grades := engine.CalculatePlayerGrades(testutil.AnalysisInputFixture())

	want := map[string]float64{
		"Smith": DefaultGrade,
		"Davis": DefaultGrade,
		"Jones": 100,
		"Brown": 94.6,
	}
	if len(grades) != 8 {
		t.Fatalf("expected 8 players, got %d: %+v", len(grades), grades)
	}
	for _, g := range grades {
		w, ok := want[g.Name]
		if !ok {
			continue
		}
		if g.OverallGrade != w {
			t.Errorf("%s grade = %v, want %v", g.Name, g.OverallGrade, w)
		}
		if g.Position == "QB" && g.PlayCount == 0 {
			t.Errorf("%s lost its play count after recovery", g.Name)
		}
	}
}
