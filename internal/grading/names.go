package grading

import (
	"regexp"
	"strings"
)

var suffixPattern = regexp.MustCompile(`(?i)[\s,]+(jr\.?|sr\.?|ii|iii|iv|v)$`)

// CleanName collapses whitespace and strips generational suffixes ("Jr.", "III", ...)
func CleanName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	for {
		stripped := suffixPattern.ReplaceAllString(name, "")
		if stripped == name {
			break
		}
		name = stripped
	}
	name = strings.TrimRight(name, ", ")

	// sentence period glued to a surname ("tackled by Lee."), but keep initials like "J.J."
	tokens := strings.Split(name, " ")
	last := tokens[len(tokens)-1]
	if strings.HasSuffix(last, ".") && !strings.Contains(strings.TrimSuffix(last, "."), ".") && len(last) > 2 {
		tokens[len(tokens)-1] = strings.TrimSuffix(last, ".")
		name = strings.Join(tokens, " ")
	}
	return name
}

// normalizeName is the lookup form of a player name
func normalizeName(name string) string {
	return strings.ToLower(CleanName(name))
}

// normalizeTeam is the lookup form of a team name
func normalizeTeam(team string) string {
	return strings.ToLower(strings.TrimSpace(team))
}
