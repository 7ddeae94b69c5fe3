package sensitivity_test

import (
	"testing"

	"github.com/JaimeStill/steward/internal/sensitivity"
)

func TestLevelLabel(t *testing.T) {
	tests := []struct {
		level sensitivity.Level
		want  string
	}{
		{sensitivity.LevelPublic, "Public"},
		{sensitivity.LevelRestreint, "Restreint"},
		{sensitivity.LevelConfidentiel, "Confidentiel"},
		{sensitivity.LevelSecret, "Secret"},
		{sensitivity.LevelTresSecret, "Très secret"},
	}

	for _, tt := range tests {
		if got := tt.level.Label(); got != tt.want {
			t.Errorf("Label(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLevelFormat(t *testing.T) {
	tests := []struct {
		name  string
		level sensitivity.Level
		want  string
	}{
		{"confidentiel displays offset index", sensitivity.LevelConfidentiel, "Confidentiel (2)"},
		{"public displays zero", sensitivity.LevelPublic, "Public (0)"},
		{"tres secret displays four", sensitivity.LevelTresSecret, "Très secret (4)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.Format(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in   int
		want sensitivity.Level
	}{
		{0, sensitivity.LevelPublic},
		{-3, sensitivity.LevelPublic},
		{1, sensitivity.LevelPublic},
		{3, sensitivity.LevelConfidentiel},
		{5, sensitivity.LevelTresSecret},
		{9, sensitivity.LevelTresSecret},
	}

	for _, tt := range tests {
		if got := sensitivity.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestExtractScores(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     sensitivity.Scores
		complete bool
	}{
		{
			name:     "colon separated",
			text:     "Données personnelles. F:2 C:4 R:3 O:1",
			want:     sensitivity.Scores{F: 2, C: 4, R: 3, O: 1},
			complete: true,
		},
		{
			name:     "equals separated out of order",
			text:     "O=2, R=5, C=1, F=3",
			want:     sensitivity.Scores{F: 3, C: 1, R: 5, O: 2},
			complete: true,
		},
		{
			name:     "missing axis",
			text:     "F:2 C:4 R:3",
			want:     sensitivity.Scores{F: 2, C: 4, R: 3},
			complete: false,
		},
		{
			name:     "no scores",
			text:     "aucune donnée sensible",
			complete: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, complete := sensitivity.ExtractScores(tt.text)
			if got != tt.want {
				t.Errorf("scores = %+v, want %+v", got, tt.want)
			}
			if complete != tt.complete {
				t.Errorf("complete = %v, want %v", complete, tt.complete)
			}
		})
	}
}

func TestScoreMax(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"complete quadruple", "F:2 C:4 R:3 O:1", 4},
		{"incomplete defaults to one", "F:5 C:5", 1},
		{"no quadruple defaults to one", "rien", 1},
		{"all low floors at one", "F:0 C:0 R:0 O:0", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sensitivity.ScoreMax(tt.text); got != tt.want {
				t.Errorf("ScoreMax(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	fields := func(levels ...int) []sensitivity.FieldClassification {
		out := make([]sensitivity.FieldClassification, len(levels))
		for i, l := range levels {
			out[i] = sensitivity.FieldClassification{FieldName: "f", FCROMax: l}
		}
		return out
	}

	tests := []struct {
		name   string
		fields []sensitivity.FieldClassification
		want   sensitivity.Level
	}{
		{"maximum wins", fields(1, 3, 2), sensitivity.LevelConfidentiel},
		{"empty yields public", nil, sensitivity.LevelPublic},
		{"all public", fields(1, 1), sensitivity.LevelPublic},
		{"out of range clamps", fields(9), sensitivity.LevelTresSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sensitivity.Aggregate(tt.fields); got != tt.want {
				t.Errorf("Aggregate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLevelFromComment(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		want    sensitivity.Level
		forced  bool
	}{
		{"label keyword", "cette colonne est Confidentiel", sensitivity.LevelConfidentiel, true},
		{"niveau digit", "mettre au niveau 4 svp", sensitivity.LevelSecret, true},
		{"secret shadows tres secret", "données tres secret", sensitivity.LevelSecret, true},
		{"niveau out of range ignored", "niveau 7", 0, false},
		{"no override", "à vérifier plus tard", 0, false},
		{"empty comment", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, forced := sensitivity.LevelFromComment(tt.comment)
			if forced != tt.forced {
				t.Fatalf("forced = %v, want %v", forced, tt.forced)
			}
			if forced && got != tt.want {
				t.Errorf("level = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestApplyComments(t *testing.T) {
	prior := []sensitivity.FieldClassification{
		{FieldName: "iban", FCROMax: 2, LLMLevel: 2},
		{FieldName: "nom", FCROMax: 1, LLMLevel: 1},
	}

	out := sensitivity.ApplyComments(prior, map[string]string{
		"iban": "niveau 5",
		"nom":  "rien à signaler",
	})

	if out[0].FCROMax != 5 || out[0].LLMLevel != 5 {
		t.Errorf("iban override = (%d, %d), want (5, 5)", out[0].FCROMax, out[0].LLMLevel)
	}
	if out[1].FCROMax != 1 {
		t.Errorf("nom should retain FCROMax 1, got %d", out[1].FCROMax)
	}
	if prior[0].FCROMax != 2 {
		t.Error("input slice was mutated")
	}
}

func TestSplice(t *testing.T) {
	prior := []sensitivity.FieldClassification{
		{FieldName: "iban", FCROMax: 2},
		{FieldName: "nom", FCROMax: 1},
	}
	fresh := []sensitivity.FieldClassification{
		{FieldName: "iban", FCROMax: 4},
		{FieldName: "nom", FCROMax: 3},
	}

	out := sensitivity.Splice(prior, fresh, []string{"iban"})

	if out[0].FCROMax != 4 {
		t.Errorf("selected field FCROMax = %d, want 4", out[0].FCROMax)
	}
	if out[1].FCROMax != 1 {
		t.Errorf("unselected field FCROMax = %d, want 1", out[1].FCROMax)
	}
	if prior[0].FCROMax != 2 {
		t.Error("prior slice was mutated")
	}
}

func TestSpliceMissingFromFresh(t *testing.T) {
	prior := []sensitivity.FieldClassification{{FieldName: "iban", FCROMax: 2}}
	out := sensitivity.Splice(prior, nil, []string{"iban"})

	if out[0].FCROMax != 2 {
		t.Errorf("field missing from fresh pass should retain prior, got %d", out[0].FCROMax)
	}
}

func TestMaxScores(t *testing.T) {
	fields := []sensitivity.FieldClassification{
		{Justification: "F:1 C:4 R:2 O:1"},
		{Justification: "F:3 C:2 R:1 O:2"},
		{Justification: "pas de scores"},
	}

	got := sensitivity.MaxScores(fields)
	want := sensitivity.Scores{F: 3, C: 4, R: 2, O: 2}
	if got != want {
		t.Errorf("MaxScores() = %+v, want %+v", got, want)
	}
}
