package grading

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

// TextParserKey identifies the free-text play parser
const TextParserKey = "text"

// namePattern matches a capitalized player name, optionally multi-token ("J.J. McCarthy", "De'Von Achane")
const namePattern = `([A-Z][A-Za-z.'\-]*(?:\s[A-Z][A-Za-z.'\-]*)*)`

// participantRule binds capture groups of one regex to roles
type participantRule struct {
	name    string
	pattern *regexp.Regexp
	roles   []models.Role // one per capture group; groups may be empty
}

func rule(name, expr string, roles ...models.Role) participantRule {
	expr = strings.ReplaceAll(expr, "NAME", namePattern)
	return participantRule{
		name:    name,
		pattern: regexp.MustCompile(expr),
		roles:   roles,
	}
}

// Rules are applied in order; a play can match several (a sack that becomes a fumble).
var participantRules = []participantRule{
	rule("completion", `NAME\s+pass\s+complete\s+to\s+NAME`, models.RolePasser, models.RoleReceiver),
	rule("incompletion", `NAME\s+pass\s+incomplete(?:\s+to\s+NAME)?`, models.RolePasser, models.RoleTarget),
	rule("rush", `NAME\s+(?:run|rush)\s+for`, models.RoleRusher),
	rule("sack", `NAME\s+sacked(?:\s+by\s+NAME)?`, models.RoleSacked, models.RoleSacker),
	rule("interception_thrown", `NAME\s+pass\s+intercepted`, models.RoleIntercepted),
	rule("fumble", `NAME\s+fumbled?\b`, models.RoleFumbler),
	rule("interception_return", `(?:intercepted|interception)\s+(?:by\s+)?NAME`, models.RoleInterceptor),
	rule("tackle", `tackled\s+by\s+NAME`, models.RoleTackler),
}

// Default position implied by a role when the roster has none
var rolePositions = map[models.Role]string{
	models.RolePasser:      "QB",
	models.RoleReceiver:    "WR",
	models.RoleTarget:      "WR",
	models.RoleRusher:      "RB",
	models.RoleSacked:      "QB",
	models.RoleSacker:      "DL",
	models.RoleIntercepted: "QB",
	models.RoleInterceptor: "DB",
	models.RoleTackler:     "LB",
}

// Words the name pattern can swallow that are never player names
var nonNames = map[string]bool{
	"team": true, "penalty": true, "timeout": true, "end": true, "the": true, "no": true,
}

// TextPlayParser extracts participants from free-text play descriptions
type TextPlayParser struct{}

// NewTextPlayParser creates the regex-based parser
func NewTextPlayParser() *TextPlayParser {
	return &TextPlayParser{}
}

func (p *TextPlayParser) ParserKey() string {
	return TextParserKey
}

// ParsePlay applies every rule to the play text
func (p *TextPlayParser) ParsePlay(play models.Play) []models.Participant {
	text := strings.TrimSpace(play.PlayText)
	if text == "" {
		return nil
	}

	var participants []models.Participant
	for _, r := range participantRules {
		match := r.pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		for i, role := range r.roles {
			if i+1 >= len(match) {
				break
			}
			name := CleanName(match[i+1])
			if name == "" || nonNames[strings.ToLower(name)] {
				continue
			}

			participants = append(participants, models.Participant{
				Name:     name,
				Position: rolePositions[role],
				Role:     role,
				Team:     teamForRole(play, role),
			})
		}
	}

	return participants
}

// InferPosition scans play text for the name in a passing, rushing or receiving phrase
func (p *TextPlayParser) InferPosition(name string, plays []models.Play) string {
	name = CleanName(name)
	if name == "" {
		return ""
	}

	quoted := regexp.QuoteMeta(name)
	suffix := `(?:\s+(?:Jr\.?|Sr\.?|II|III|IV|V))?`
	checks := []struct {
		position string
		pattern  *regexp.Regexp
	}{
		{"QB", regexp.MustCompile(fmt.Sprintf(`(?i)\b%s%s\s+pass\b`, quoted, suffix))},
		{"RB", regexp.MustCompile(fmt.Sprintf(`(?i)\b%s%s\s+(?:run|rush)\s+for\b`, quoted, suffix))},
		{"WR", regexp.MustCompile(fmt.Sprintf(`(?i)pass\s+complete\s+to\s+%s\b`, quoted))},
	}

	for _, check := range checks {
		for _, play := range plays {
			if check.pattern.MatchString(play.PlayText) {
				return check.position
			}
		}
	}

	return ""
}

// teamForRole puts offensive roles on the offense and defensive roles on the defense
func teamForRole(play models.Play, role models.Role) string {
	if role.IsDefensive() {
		return play.DefenseTeam()
	}
	return play.OffenseTeam()
}
