package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTables(t *testing.T) {
	cfg := Default()

	if len(cfg.Domains) != 6 {
		t.Fatalf("domains: got %d, want 6", len(cfg.Domains))
	}

	thresholds := map[string]float64{
		"hot_work":       0.7,
		"confined_space": 0.7,
		"electrical":     0.6,
		"height":         0.6,
		"chemical":       0.6,
		"mechanical":     0.5,
	}
	for id, want := range thresholds {
		dom, ok := cfg.DomainByID(id)
		if !ok {
			t.Fatalf("missing domain %q", id)
		}
		if dom.Threshold != want {
			t.Errorf("%s threshold: got %.2f, want %.2f", id, dom.Threshold, want)
		}
	}

	if cfg.InconsistentBar != 0.8 {
		t.Errorf("inconsistent bar: got %.2f, want 0.8", cfg.InconsistentBar)
	}
	if cfg.KeywordCeiling != 0.5 {
		t.Errorf("keyword ceiling: got %.2f, want 0.5", cfg.KeywordCeiling)
	}
}

func TestExpectedDomains(t *testing.T) {
	cfg := Default()

	tests := []struct {
		name     string
		workType string
		want     []string
	}{
		{"electrical-it", "Lavoro Elettrico", []string{"electrical"}},
		{"welding", "saldatura su serbatoio", []string{"hot_work"}},
		{"unknown", "manutenzione ordinaria", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.ExpectedDomains(tt.workType)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Domains) == 0 {
		t.Fatal("expected default domains")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	body := "inconsistent_bar: 0.9\nkeyword_step: 0.25\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.InconsistentBar != 0.9 {
		t.Errorf("inconsistent bar: got %.2f, want 0.9", cfg.InconsistentBar)
	}
	if cfg.KeywordStep != 0.25 {
		t.Errorf("keyword step: got %.2f, want 0.25", cfg.KeywordStep)
	}
	// Untouched tables fall back to defaults.
	if len(cfg.Domains) != 6 {
		t.Errorf("domains: got %d, want 6", len(cfg.Domains))
	}
	if len(cfg.PPE.Categories) == 0 {
		t.Error("expected default ppe categories")
	}
}
