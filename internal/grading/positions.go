package grading

import "strings"

// Roster position codes folded into grading groups
var positionGroups = map[string]string{
	"QB":   "QB",
	"RB":   "RB",
	"HB":   "RB",
	"TB":   "RB",
	"FB":   "RB",
	"WR":   "WR",
	"TE":   "TE",
	"OL":   "OL",
	"OT":   "OL",
	"OG":   "OL",
	"T":    "OL",
	"G":    "OL",
	"C":    "OL",
	"DL":   "DL",
	"DE":   "DL",
	"DT":   "DL",
	"NT":   "DL",
	"EDGE": "DL",
	"LB":   "LB",
	"ILB":  "LB",
	"OLB":  "LB",
	"MLB":  "LB",
	"DB":   "DB",
	"CB":   "CB",
	"S":    "S",
	"FS":   "S",
	"SS":   "S",
	"SAF":  "S",
}

// Grade multipliers by position group
var positionFactors = map[string]float64{
	"QB": 1.05,
	"RB": 1.1,
	"WR": 1.1,
	"TE": 1.1,
	"OL": 0.95,
	"DL": 1.0,
	"LB": 1.0,
	"DB": 1.05,
	"CB": 1.05,
	"S":  1.05,
}

// PositionGroup folds a roster position into its grading group ("DE" -> "DL").
// Unknown codes are returned upper-cased.
func PositionGroup(position string) string {
	code := strings.ToUpper(strings.TrimSpace(position))
	if group, ok := positionGroups[code]; ok {
		return group
	}
	return code
}

// PositionFactor returns the grade multiplier for a position, 1.0 when unknown
func PositionFactor(position string) float64 {
	if factor, ok := positionFactors[PositionGroup(position)]; ok {
		return factor
	}
	return 1.0
}

// IsDefensivePosition reports whether the position plays on defense
func IsDefensivePosition(position string) bool {
	switch PositionGroup(position) {
	case "DL", "LB", "DB", "CB", "S":
		return true
	default:
		return false
	}
}

// isKnownPosition reports whether the roster gave a usable position
func isKnownPosition(position string) bool {
	code := strings.ToUpper(strings.TrimSpace(position))
	return code != "" && code != "?" && code != "UNKNOWN" && code != "NA"
}
