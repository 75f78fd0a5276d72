package ppe

import (
	"reflect"
	"testing"

	"github.com/permitsafe/go-analyzer/internal/rules"
)

func itemsByCategory(items []Item, category string) []Item {
	var out []Item
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

func TestConsolidateScaleTakesMax(t *testing.T) {
	c := New(rules.Default().PPE)

	out := c.Consolidate([]Item{
		{Name: "Scarpe antinfortunistiche S1", Source: "mechanical"},
		{Name: "Safety shoes S3", Source: "hot_work"},
		{Name: "Scarpe S2", Source: "chemical"},
	})

	foot := itemsByCategory(out, "foot")
	if len(foot) != 1 {
		t.Fatalf("foot items: got %d, want 1 merged", len(foot))
	}
	if foot[0].Level != "S3" {
		t.Errorf("level: got %q, want S3", foot[0].Level)
	}
	info := foot[0].Consolidation
	if info == nil || info.MergedCount != 3 {
		t.Fatalf("consolidation info: got %+v, want merged_count 3", info)
	}
	wantSources := []string{"chemical", "hot_work", "mechanical"}
	if !reflect.DeepEqual(info.Sources, wantSources) {
		t.Errorf("sources: got %v, want %v", info.Sources, wantSources)
	}

	// The losing items' original text survives for traceability.
	descs := map[string]bool{}
	for _, d := range info.SourceDescriptions {
		descs[d] = true
	}
	for _, want := range []string{"Scarpe antinfortunistiche S1", "Safety shoes S3", "Scarpe S2"} {
		if !descs[want] {
			t.Errorf("source descriptions missing %q: %v", want, info.SourceDescriptions)
		}
	}

	// Features are the union across the contributing levels, so the S2
	// water resistance is kept even though S3 wins the level.
	feats := map[string]bool{}
	for _, f := range foot[0].Features {
		feats[f] = true
	}
	for _, want := range []string{"toe protection", "antistatic", "water resistant", "midsole penetration plate"} {
		if !feats[want] {
			t.Errorf("features missing %q: %v", want, foot[0].Features)
		}
	}
}

func TestConsolidateRespiratoryScale(t *testing.T) {
	c := New(rules.Default().PPE)

	out := c.Consolidate([]Item{
		{Name: "Maschera FFP2", Source: "chemical"},
		{Name: "FFP3 respirator", Source: "confined_space"},
	})

	resp := itemsByCategory(out, "respiratory")
	if len(resp) != 1 || resp[0].Level != "FFP3" {
		t.Fatalf("respiratory: got %+v, want single FFP3 item", resp)
	}
}

func TestConsolidateGloveSubTypesStaySeparate(t *testing.T) {
	c := New(rules.Default().PPE)

	out := c.Consolidate([]Item{
		{Name: "Guanti chimici in nitrile", Source: "chemical"},
		{Name: "Guanti antitaglio", Source: "mechanical"},
		{Name: "Chemical gloves for solvents", Source: "chemical"},
	})

	hand := itemsByCategory(out, "hand")
	if len(hand) != 2 {
		t.Fatalf("hand items: got %d, want 2 (chemical merged, cut_resistant separate)", len(hand))
	}
	subtypes := map[string]bool{}
	for _, it := range hand {
		subtypes[it.SubType] = true
	}
	if !subtypes["chemical"] || !subtypes["cut_resistant"] {
		t.Errorf("sub-types: got %+v, want chemical and cut_resistant", subtypes)
	}
}

func TestConsolidateOtherPassthrough(t *testing.T) {
	c := New(rules.Default().PPE)

	out := c.Consolidate([]Item{
		{Name: "Rilevatore gas portatile personale"},
		{Name: "Crema barriera"},
	})

	other := itemsByCategory(out, rules.CategoryOther)
	if len(other) != 2 {
		t.Fatalf("other items: got %d, want 2 untouched", len(other))
	}
	for _, it := range other {
		if it.Consolidation != nil {
			t.Errorf("passthrough item must not carry merge metadata: %+v", it)
		}
	}
}

func TestConsolidateConflictAnnotation(t *testing.T) {
	c := New(rules.Default().PPE)

	out := c.Consolidate([]Item{
		{Name: "Maschera FFP3", Source: "chemical"},
		{Name: "Occhiali di sicurezza", Source: "mechanical"},
	})

	if len(out) != 2 {
		t.Fatalf("items: got %d, want 2 (annotation never removes items)", len(out))
	}
	for _, it := range out {
		if len(it.ConflictWarnings) != 1 {
			t.Errorf("%s: got %d warnings, want 1", it.Category, len(it.ConflictWarnings))
		}
	}
}

func TestConsolidateIdempotent(t *testing.T) {
	c := New(rules.Default().PPE)

	first := c.Consolidate([]Item{
		{Name: "Scarpe S1", Source: "mechanical"},
		{Name: "Scarpe S3", Source: "hot_work"},
		{Name: "Maschera FFP2", Source: "chemical"},
		{Name: "Occhiali di sicurezza", Source: "mechanical"},
		{Name: "Guanti chimici", Source: "chemical"},
		{Name: "Attrezzo speciale non classificato"},
	})
	second := c.Consolidate(first)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("consolidation not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestConsolidateDropsEmptyNames(t *testing.T) {
	c := New(rules.Default().PPE)
	out := c.Consolidate([]Item{{Name: "  "}, {Name: "Casco"}})
	if len(out) != 1 {
		t.Fatalf("items: got %d, want 1", len(out))
	}
}
