package workflow

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/JaimeStill/steward/internal/sensitivity"
)

// All response patterns live here so a model format drift is fixed in one
// place. The parser is tolerant about decoration (emoji prefixes, casing,
// spacing) but strict about substance: a response missing the entity name,
// the final classification, or the final justification yields no record.
var (
	entityPattern        = regexp.MustCompile(`(?mi)^\W*(?:table|collection)\s*:\s*(.+)$`)
	finalPattern         = regexp.MustCompile(`Classification finale\s*:\s*([^(\n]+)\((\d+)\)`)
	justificationPattern = regexp.MustCompile(`(?i)Justification finale\s*:\s*(.*)`)
)

// Table rows are any pipe-delimited line with at least five cells that is
// neither a header nor a separator.
var headerKeywords = []string{"Colonne", "Champ", "Sensible", "Justification"}

// Parsed is the structured form of a model response.
type Parsed struct {
	EntityName         string
	Label              string
	Level              int
	FinalJustification string
	Fields             []sensitivity.FieldClassification
}

// ParseError reports which response patterns matched and which did not,
// alongside the raw text, so a failed parse can be diagnosed without
// rerunning the model.
type ParseError struct {
	Raw     string
	Matched map[string]bool
}

func (e *ParseError) Error() string {
	var missing []string
	for _, name := range []string{"entity", "classification", "justification"} {
		if !e.Matched[name] {
			missing = append(missing, name)
		}
	}
	return fmt.Sprintf("unparseable model response: missing %s", strings.Join(missing, ", "))
}

// Parse extracts the structured classification from a raw model response.
// All of entity name, final classification, and final justification must be
// present; otherwise it returns a *ParseError and no partial record.
func Parse(raw string) (*Parsed, error) {
	matched := map[string]bool{}

	entity := entityPattern.FindStringSubmatch(raw)
	matched["entity"] = entity != nil

	final := finalPattern.FindStringSubmatch(raw)
	matched["classification"] = final != nil

	justification, ok := extractJustification(raw)
	matched["justification"] = ok

	if entity == nil || final == nil || !ok {
		return nil, &ParseError{Raw: raw, Matched: matched}
	}

	level, err := strconv.Atoi(final[2])
	if err != nil {
		matched["classification"] = false
		return nil, &ParseError{Raw: raw, Matched: matched}
	}

	return &Parsed{
		EntityName:         strings.TrimSpace(entity[1]),
		Label:              strings.TrimSpace(final[1]),
		Level:              level,
		FinalJustification: justification,
		Fields:             parseFields(raw),
	}, nil
}

// extractJustification returns the text following the justification marker,
// including continuation lines, and stops at the next recognized pattern.
// Models sometimes echo the entity header or table fragments after the
// justification; those lines are not part of it.
func extractJustification(raw string) (string, bool) {
	loc := justificationPattern.FindStringSubmatchIndex(raw)
	if loc == nil {
		return "", false
	}

	text := raw[loc[2]:loc[3]]
	rest := strings.Split(raw[loc[3]:], "\n")
	for _, line := range rest[1:] {
		if entityPattern.MatchString(line) || finalPattern.MatchString(line) || strings.Contains(line, "|") {
			break
		}
		text += "\n" + line
	}

	text = strings.TrimSpace(text)
	return text, text != ""
}

func parseFields(raw string) []sensitivity.FieldClassification {
	var fields []sensitivity.FieldClassification

	for _, line := range strings.Split(raw, "\n") {
		if !strings.Contains(line, "|") || strings.Contains(line, "---") {
			continue
		}
		if isHeaderRow(line) {
			continue
		}

		cells := splitRow(line)
		if len(cells) < 5 {
			continue
		}

		level, _ := strconv.Atoi(cells[3])
		fields = append(fields, sensitivity.FieldClassification{
			FieldName:     cells[0],
			FieldType:     cells[1],
			Sensitive:     cells[2],
			LLMLevel:      level,
			Justification: cells[4],
			FCROMax:       sensitivity.ScoreMax(cells[4]),
		})
	}

	return fields
}

func isHeaderRow(line string) bool {
	for _, kw := range headerKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}

func splitRow(line string) []string {
	trimmed := strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
