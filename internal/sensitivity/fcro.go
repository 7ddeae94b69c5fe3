package sensitivity

import (
	"regexp"
	"strconv"
)

// Scores holds the four FCRO risk-axis sub-scores extracted from a
// justification: Functional, Confidentiality, Regulatory, Operational.
type Scores struct {
	F int `json:"f"`
	C int `json:"c"`
	R int `json:"r"`
	O int `json:"o"`
}

// Axis patterns tolerate arbitrary punctuation around each score and do not
// require the axes to appear in a fixed order.
var fcroPatterns = map[rune]*regexp.Regexp{
	'F': regexp.MustCompile(`(?i)\bF\s*[:=]\s*(\d)`),
	'C': regexp.MustCompile(`(?i)\bC\s*[:=]\s*(\d)`),
	'R': regexp.MustCompile(`(?i)\bR\s*[:=]\s*(\d)`),
	'O': regexp.MustCompile(`(?i)\bO\s*[:=]\s*(\d)`),
}

// ExtractScores searches free text for an FCRO sub-score quadruple. The
// second return reports whether all four axes were found.
func ExtractScores(text string) (Scores, bool) {
	var s Scores
	found := 0

	for axis, pattern := range fcroPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found++
		switch axis {
		case 'F':
			s.F = n
		case 'C':
			s.C = n
		case 'R':
			s.R = n
		case 'O':
			s.O = n
		}
	}

	return s, found == 4
}

// Max returns the highest sub-score, floored at 1.
func (s Scores) Max() int {
	m := 1
	for _, n := range []int{s.F, s.C, s.R, s.O} {
		if n > m {
			m = n
		}
	}
	return m
}

// ScoreMax extracts the FCRO quadruple from text and returns its maximum.
// Returns 1 when the text carries no recognizable quadruple.
func ScoreMax(text string) int {
	s, ok := ExtractScores(text)
	if !ok {
		return 1
	}
	return s.Max()
}

// MaxScores reduces per-field justifications to entity-level FCRO sub-scores
// by taking the per-axis maximum across all fields. Fields without a
// recognizable quadruple contribute nothing.
func MaxScores(fields []FieldClassification) Scores {
	var out Scores
	for _, f := range fields {
		s, ok := ExtractScores(f.Justification)
		if !ok {
			continue
		}
		out.F = max(out.F, s.F)
		out.C = max(out.C, s.C)
		out.R = max(out.R, s.R)
		out.O = max(out.O, s.O)
	}
	return out
}
