package sensitivity

import (
	"regexp"
	"strconv"
	"strings"
)

// commentKeywords maps sensitivity-label keywords found in reviewer
// comments to forced levels. Order matters: the first keyword contained in
// the comment wins, so "tres secret" resolves through "secret" to level 4.
// The ordering is retained from the legacy override table; reviewers who
// want level 5 spell it "niveau 5".
var commentKeywords = []struct {
	keyword string
	level   Level
}{
	{"public", LevelPublic},
	{"restreint", LevelRestreint},
	{"confidentiel", LevelConfidentiel},
	{"secret", LevelSecret},
	{"tres secret", LevelTresSecret},
	{"très secret", LevelTresSecret},
}

var niveauPattern = regexp.MustCompile(`niveau\s*(\d)`)

// LevelFromComment scans a free-text reviewer comment for a forced
// sensitivity level: first an exact label keyword, then a "niveau <digit>"
// pattern clamped to the canonical scale. The second return is false when
// the comment forces nothing.
func LevelFromComment(comment string) (Level, bool) {
	if comment == "" {
		return 0, false
	}

	lowered := strings.ToLower(comment)

	for _, entry := range commentKeywords {
		if strings.Contains(lowered, entry.keyword) {
			return entry.level, true
		}
	}

	if m := niveauPattern.FindStringSubmatch(lowered); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= int(MinLevel) && n <= int(MaxLevel) {
			return Level(n), true
		}
	}

	return 0, false
}

// Aggregate reduces per-field ratings to the entity-level rating: the
// maximum FCROMax across all fields, floored at Public. An empty field
// list yields Public.
func Aggregate(fields []FieldClassification) Level {
	overall := MinLevel
	for _, f := range fields {
		if Level(f.FCROMax) > overall {
			overall = Clamp(f.FCROMax)
		}
	}
	return overall
}

// ApplyComments returns a new field slice with reviewer comment overrides
// applied. Fields whose comment forces a level have both FCROMax and
// LLMLevel rewritten; fields without a recognizable override keep their
// prior values. The input slice is never mutated.
func ApplyComments(fields []FieldClassification, comments map[string]string) []FieldClassification {
	out := make([]FieldClassification, len(fields))
	copy(out, fields)

	for i := range out {
		comment, ok := comments[out[i].FieldName]
		if !ok {
			continue
		}
		if forced, ok := LevelFromComment(comment); ok {
			out[i].FCROMax = int(forced)
			out[i].LLMLevel = int(forced)
		}
	}

	return out
}

// Splice merges a fresh classification pass into prior results for a
// selected subset of fields. Selected fields take their row from fresh
// when present there; all other fields, and selected fields missing from
// the fresh pass, retain their prior rows. The inputs are never mutated.
func Splice(prior, fresh []FieldClassification, selected []string) []FieldClassification {
	selectedSet := make(map[string]bool, len(selected))
	for _, name := range selected {
		selectedSet[name] = true
	}

	freshByName := make(map[string]FieldClassification, len(fresh))
	for _, f := range fresh {
		freshByName[f.FieldName] = f
	}

	out := make([]FieldClassification, len(prior))
	copy(out, prior)

	for i := range out {
		if !selectedSet[out[i].FieldName] {
			continue
		}
		if replacement, ok := freshByName[out[i].FieldName]; ok {
			out[i] = replacement
		}
	}

	return out
}
