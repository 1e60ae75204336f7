package grading

import (
	"math"
	"sort"

	"github.com/fortuna/services/cfb-analytics-service/internal/logging"
	"github.com/fortuna/services/cfb-analytics-service/pkg/contracts"
	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
	"github.com/sirupsen/logrus"
)

// Engine grades every player who appears in a game's PPA list or play text
type Engine struct {
	parser contracts.PlayParser
	score  func(position string, metrics models.PerformanceMetrics, details []models.PlayDetail) float64
	logger *logrus.Entry
}

// NewEngine creates a grading engine. A nil parser selects the text parser.
func NewEngine(parser contracts.PlayParser, logger *logrus.Entry) *Engine {
	if parser == nil {
		parser = NewTextPlayParser()
	}
	return &Engine{
		parser: parser,
		score:  computeGrade,
		logger: logging.OrDiscard(logger),
	}
}

// CalculatePlayerGrades grades all players, best first.
// It never fails: a panic grading one player defaults that player to DefaultGrade,
// and a panic anywhere else yields an empty slice.
func (e *Engine) CalculatePlayerGrades(input models.AnalysisInput) (grades []models.PlayerGrade) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithField("panic", r).Error("player grading aborted")
			grades = []models.PlayerGrade{}
		}
	}()

	plays := input.Plays()
	players := newRoster()

	if input.BoxScore != nil {
		for _, ppa := range input.BoxScore.Players.PPA {
			players.seed(ppa, e.parser, plays)
		}
	}
	seeded := len(players.order)

	parsed := 0
	for _, play := range plays {
		if play.IsNonPlay() {
			continue
		}

		// a sack-fumble names the passer twice; count the play once per player
		seen := make(map[*playerAccumulator]bool)
		for _, participant := range e.parser.ParsePlay(play) {
			acc := players.resolve(participant, e.parser, plays)
			if seen[acc] {
				continue
			}
			seen[acc] = true

			if acc.position == "Unknown" && participant.Position != "" {
				acc.position = participant.Position
			}
			acc.record(play, participant)
			parsed++
		}
	}

	grades = make([]models.PlayerGrade, 0, len(players.order))
	for _, acc := range players.order {
		grades = append(grades, e.gradePlayer(players, acc))
	}

	sort.SliceStable(grades, func(i, j int) bool {
		if grades[i].OverallGrade != grades[j].OverallGrade {
			return grades[i].OverallGrade > grades[j].OverallGrade
		}
		return grades[i].Name < grades[j].Name
	})

	e.logger.WithFields(logrus.Fields{
		"plays":        len(plays),
		"seeded":       seeded,
		"players":      len(grades),
		"participants": parsed,
		"parser":       e.parser.ParserKey(),
	}).Debug("graded players")

	return grades
}

// gradePlayer builds one PlayerGrade, recovering to DefaultGrade on panic
func (e *Engine) gradePlayer(players *roster, acc *playerAccumulator) (grade models.PlayerGrade) {
	details := acc.details
	if details == nil {
		details = []models.PlayDetail{}
	}

	grade = models.PlayerGrade{
		Name:               acc.name,
		Team:               acc.team,
		Position:           acc.position,
		OverallGrade:       DefaultGrade,
		PlayCount:          acc.metrics.TotalPlays,
		Insights:           []string{},
		NameCollision:      players.hasCollision(acc),
		PerformanceMetrics: acc.metrics,
		PlayDetails:        details,
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.WithFields(logrus.Fields{
				"player": acc.name,
				"team":   acc.team,
				"panic":  r,
			}).Warn("grade computation failed, using default")
			grade.OverallGrade = DefaultGrade
		}
	}()

	grade.AveragePPA = math.Round(averagePPA(acc.metrics)*1000) / 1000
	grade.OverallGrade = e.score(acc.position, acc.metrics, details)
	grade.Insights = buildInsights(acc.position, details)

	return grade
}
