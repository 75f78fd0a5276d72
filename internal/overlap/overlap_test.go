package overlap

import (
	"testing"
)

func TestMatch(t *testing.T) {
	synonyms := [][]string{
		{"loto", "lockout", "tagout", "isolamento energie"},
		{"ventilazione", "ventilation"},
	}

	tests := []struct {
		name      string
		existing  string
		candidate string
		want      Kind
	}{
		{"exact-substring", "Apply LOTO procedure before work", "LOTO procedure", Exact},
		{"exact-reverse", "gas test", "Perform gas test before entry", Exact},
		{"synonym-group", "Procedura LOTO applicata", "Lockout of energy sources", Semantic},
		{"synonym-cross-language", "ventilazione forzata del locale", "forced ventilation of the area", Semantic},
		{"word-overlap", "continuous atmospheric monitoring required", "atmospheric monitoring with calibrated detector", Semantic},
		{"unrelated", "wear safety helmet", "obtain hot work permit", None},
		{"empty-candidate", "anything", "", None},
		{"short-words-ignored", "do it now", "it is ok now", None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.existing, tt.candidate, synonyms, 2)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchMinWordsDisabled(t *testing.T) {
	got := Match("continuous atmospheric monitoring", "atmospheric monitoring station", nil, 0)
	if got != None {
		t.Errorf("got %v, want None with word overlap disabled", got)
	}
}
