package ppe

// #region imports
import (
	"log"
	"sort"
	"strings"

	"github.com/permitsafe/go-analyzer/internal/rules"
)

// #endregion

// #region item

// ConsolidationInfo explains how a merged item was produced.
// SourceDescriptions keeps the merged items' original text for
// traceability.
type ConsolidationInfo struct {
	MergedCount        int      `json:"merged_count"`
	Sources            []string `json:"sources,omitempty"`
	SourceDescriptions []string `json:"source_descriptions,omitempty"`
	HighestLevel       string   `json:"highest_level,omitempty"`
}

// Item is one protective-equipment requirement. Specialists emit raw
// items; the consolidator fills Category, Level, SubType and merge
// metadata.
type Item struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Level    string `json:"level,omitempty"`
	SubType  string `json:"sub_type,omitempty"`
	Source   string `json:"source,omitempty"`
	Note     string `json:"note,omitempty"`

	// Features is the union of protection features across merged inputs
	// on scaled categories.
	Features []string `json:"features,omitempty"`

	Consolidation    *ConsolidationInfo `json:"consolidation,omitempty"`
	ConflictWarnings []string           `json:"conflict_warnings,omitempty"`
}

// #endregion item

// #region consolidator

// Consolidator merges duplicate and overlapping equipment requirements
// according to the category tables.
type Consolidator struct {
	rules rules.PPERules
}

// New builds a Consolidator over the given PPE rules.
func New(r rules.PPERules) *Consolidator {
	return &Consolidator{rules: r}
}

// #endregion consolidator

// #region consolidate

// Consolidate classifies, merges and conflict-annotates an equipment list.
// Scaled categories keep only the highest protection level; glove
// sub-types are merged per sub-type, never across; unclassifiable items
// pass through under the "other" category. Conflict annotations never
// remove items. Consolidating an already-consolidated list is a no-op.
func (c *Consolidator) Consolidate(items []Item) []Item {
	classified := make([]Item, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		classified = append(classified, c.classify(item))
	}

	groups := make(map[string][]Item)
	var order []string
	for _, item := range classified {
		key := item.Category
		if item.SubType != "" {
			key += "/" + item.SubType
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], item)
	}
	sort.Strings(order)

	var out []Item
	for _, key := range order {
		group := groups[key]
		if strings.HasPrefix(key, rules.CategoryOther) {
			// Unclassifiable items are preserved as-is.
			out = append(out, group...)
			continue
		}
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}
		log.Printf("[PPE] merging %d items in %s", len(group), key)
		out = append(out, c.merge(group))
	}

	c.annotateConflicts(out)
	return out
}

// #endregion consolidate

// #region classify

// classify resolves category, scale level and sub-type from the item text.
// Already-classified items are left untouched so consolidation stays
// idempotent.
func (c *Consolidator) classify(item Item) Item {
	text := strings.ToLower(item.Name + " " + item.Note)

	if item.Category == "" {
		item.Category = rules.CategoryOther
		for _, cat := range c.rules.Categories {
			if matchesAny(text, cat.Keywords) {
				item.Category = cat.ID
				break
			}
		}
	}

	cat, ok := c.category(item.Category)
	if !ok {
		return item
	}

	if item.Level == "" && len(cat.Scale) > 0 {
		best := -1
		for _, lvl := range cat.Scale {
			if matchesAny(text, lvl.Markers) && lvl.Rank > best {
				best = lvl.Rank
				item.Level = lvl.Name
			}
		}
	}

	if item.SubType == "" && len(cat.SubTypes) > 0 {
		for _, st := range cat.SubTypes {
			if matchesAny(text, st.Markers) {
				item.SubType = st.ID
				break
			}
		}
	}

	return item
}

func (c *Consolidator) category(id string) (rules.PPECategory, bool) {
	for _, cat := range c.rules.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return rules.PPECategory{}, false
}

func matchesAny(text string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(text, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// #endregion classify

// #region merge

// merge collapses a category (or sub-type) group into one item. On scaled
// categories the highest-ranked level wins and the feature sets of every
// contributing level are unioned; the merged items' original text is kept
// for traceability.
func (c *Consolidator) merge(group []Item) Item {
	cat, _ := c.category(group[0].Category)

	winner := group[0]
	if len(cat.Scale) > 0 {
		best := rankOf(cat.Scale, winner.Level)
		for _, item := range group[1:] {
			if r := rankOf(cat.Scale, item.Level); r > best {
				best = r
				winner = item
			}
		}
	}

	info := &ConsolidationInfo{MergedCount: len(group), HighestLevel: winner.Level}
	seenSrc := make(map[string]bool)
	seenDesc := make(map[string]bool)
	for _, item := range group {
		if src := item.Source; src != "" && !seenSrc[src] {
			seenSrc[src] = true
			info.Sources = append(info.Sources, src)
		}
		if !seenDesc[item.Name] {
			seenDesc[item.Name] = true
			info.SourceDescriptions = append(info.SourceDescriptions, item.Name)
		}
		// Carry traceability forward when consolidated lists are combined.
		if item.Consolidation != nil {
			for _, desc := range item.Consolidation.SourceDescriptions {
				if !seenDesc[desc] {
					seenDesc[desc] = true
					info.SourceDescriptions = append(info.SourceDescriptions, desc)
				}
			}
		}
	}
	sort.Strings(info.Sources)

	winner.Features = unionFeatures(cat.Scale, group)
	winner.Consolidation = info
	return winner
}

// unionFeatures collects the features of every scale level present in the
// group, in scale order.
func unionFeatures(scale []rules.ScaleLevel, group []Item) []string {
	if len(scale) == 0 {
		return nil
	}
	levels := make(map[string]bool, len(group))
	for _, item := range group {
		levels[item.Level] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, lvl := range scale {
		if !levels[lvl.Name] {
			continue
		}
		for _, f := range lvl.Features {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

func rankOf(scale []rules.ScaleLevel, level string) int {
	for _, lvl := range scale {
		if lvl.Name == level {
			return lvl.Rank
		}
	}
	return 0
}

// #endregion merge

// #region conflicts

// annotateConflicts appends cross-category compatibility warnings in
// place. A warning already present on an item is not duplicated.
func (c *Consolidator) annotateConflicts(items []Item) {
	present := make(map[string]bool)
	for _, item := range items {
		present[item.Category] = true
	}

	for _, conflict := range c.rules.Conflicts {
		if !present[conflict.Categories[0]] || !present[conflict.Categories[1]] {
			continue
		}
		for i := range items {
			cat := items[i].Category
			if cat != conflict.Categories[0] && cat != conflict.Categories[1] {
				continue
			}
			if hasWarning(items[i].ConflictWarnings, conflict.Warning) {
				continue
			}
			items[i].ConflictWarnings = append(items[i].ConflictWarnings, conflict.Warning)
		}
	}
}

func hasWarning(warnings []string, w string) bool {
	for _, existing := range warnings {
		if existing == w {
			return true
		}
	}
	return false
}

// #endregion conflicts
