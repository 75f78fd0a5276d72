package permit

// #region imports
import (
	"sort"
	"strings"
)

// #endregion

// #region record

// Record is the work-permit input to the analysis pipeline.
// It is created by the caller and read-only to every component.
type Record struct {
	ID          string            `json:"id"`
	Tenant      string            `json:"tenant"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	WorkType    string            `json:"work_type"`
	Location    string            `json:"location"`
	Equipment   string            `json:"equipment"`

	// Measures already declared on the permit.
	ExistingPPE     []string `json:"existing_ppe"`
	ExistingActions []string `json:"existing_actions"`

	CustomFields map[string]string `json:"custom_fields,omitempty"`
}

// #endregion record

// #region empty

// Empty reports whether the record carries no analyzable content at all.
func (r Record) Empty() bool {
	return strings.TrimSpace(r.Title) == "" &&
		strings.TrimSpace(r.Description) == "" &&
		strings.TrimSpace(r.WorkType) == "" &&
		strings.TrimSpace(r.Location) == "" &&
		strings.TrimSpace(r.Equipment) == "" &&
		len(r.ExistingPPE) == 0 &&
		len(r.ExistingActions) == 0
}

// #endregion empty

// #region flatten

// FlattenContent joins every populated field into one labeled block for
// prompting. Field order is fixed so the output is deterministic.
func (r Record) FlattenContent() string {
	var parts []string
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			parts = append(parts, label+": "+value)
		}
	}

	add("TITLE", r.Title)
	add("DESCRIPTION", r.Description)
	add("WORK_TYPE", r.WorkType)
	add("LOCATION", r.Location)
	add("EQUIPMENT", r.Equipment)
	if len(r.ExistingActions) > 0 {
		parts = append(parts, "EXISTING_ACTIONS: "+strings.Join(r.ExistingActions, "; "))
	}
	if len(r.ExistingPPE) > 0 {
		parts = append(parts, "EXISTING_PPE: "+strings.Join(r.ExistingPPE, "; "))
	}

	// Custom fields sorted by name for stable output.
	keys := make([]string, 0, len(r.CustomFields))
	for k := range r.CustomFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.TrimSpace(r.CustomFields[k]) != "" {
			parts = append(parts, strings.ToUpper(k)+": "+r.CustomFields[k])
		}
	}

	return strings.Join(parts, "\n")
}

// #endregion flatten

// #region search-text

// SearchText returns the lowercased free text of the permit for keyword
// matching. Existing measures are excluded: a declared mitigation is not
// evidence of a hazard on its own.
func (r Record) SearchText() string {
	fields := []string{r.Title, r.Description, r.WorkType, r.Location, r.Equipment}
	for _, v := range r.CustomFields {
		fields = append(fields, v)
	}
	return strings.ToLower(strings.Join(fields, " "))
}

// #endregion search-text
