// internal/models/catalog.go
package models

type EvidenceLevel string

const (
	EvidenceStrong       EvidenceLevel = "STRONG"
	EvidenceModerate     EvidenceLevel = "MODERATE"
	EvidenceWeak         EvidenceLevel = "WEAK"
	EvidenceInsufficient EvidenceLevel = "INSUFFICIENT"
	EvidenceConflicting  EvidenceLevel = "CONFLICTING"
)

type Severity string

const (
	SeverityBeneficial      Severity = "beneficial"
	SeverityMinor           Severity = "minor"
	SeverityModerate        Severity = "moderate"
	SeverityMajor           Severity = "major"
	SeverityContraindicated Severity = "contraindicated"
	SeverityCritical        Severity = "critical"
)

// severityWeights is the single ordering used for every severity comparison.
var severityWeights = map[Severity]int{
	SeverityBeneficial:      0,
	SeverityMinor:           1,
	SeverityModerate:        2,
	SeverityMajor:           3,
	SeverityContraindicated: 4,
	SeverityCritical:        4,
}

// Weight returns the ordinal weight of the severity. Unknown values weigh as minor.
func (s Severity) Weight() int {
	if w, ok := severityWeights[s]; ok {
		return w
	}
	return 1
}

func (s Severity) Valid() bool {
	_, ok := severityWeights[s]
	return ok
}

type InteractionType string

const (
	InteractionSynergistic  InteractionType = "synergistic"
	InteractionAntagonistic InteractionType = "antagonistic"
	InteractionCompetitive  InteractionType = "competitive"
	InteractionBeneficial   InteractionType = "beneficial"
)

type InteractionRecord struct {
	Counterpart          string          `json:"counterpart"`
	Type                 InteractionType `json:"type"`
	Severity             Severity        `json:"severity"`
	Mechanism            string          `json:"mechanism,omitempty"`
	ClinicalSignificance string          `json:"clinical_significance,omitempty"`
	Recommendation       string          `json:"recommendation,omitempty"`
	PolishRecommendation string          `json:"polish_recommendation,omitempty"`
	EvidenceLevel        EvidenceLevel   `json:"evidence_level"`
}

// DosageGuideline carries the therapeutic range. Min and Max are nil when the
// source record did not provide them.
type DosageGuideline struct {
	Min                *float64            `json:"min,omitempty"`
	Max                *float64            `json:"max,omitempty"`
	Unit               string              `json:"unit"`
	Timing             []string            `json:"timing,omitempty"`
	WithFood           bool                `json:"with_food"`
	Contraindications  []string            `json:"contraindications,omitempty"`
	Interactions       []InteractionRecord `json:"interactions,omitempty"`
	NoGeriatricCaution bool                `json:"no_geriatric_caution,omitempty"`
}

// Complete reports whether the guideline has a usable range.
func (g DosageGuideline) Complete() bool {
	return g.Min != nil && g.Max != nil && *g.Min >= 0 && *g.Max > 0 && *g.Min <= *g.Max
}

type SideEffect struct {
	Effect       string `json:"effect"`
	PolishEffect string `json:"polish_effect,omitempty"`
	Frequency    string `json:"frequency,omitempty"`
	Severity     string `json:"severity"`
}

type ClinicalApplication struct {
	Condition           string        `json:"condition"`
	EffectivenessRating float64       `json:"effectiveness_rating"`
	EvidenceLevel       EvidenceLevel `json:"evidence_level"`
	Duration            string        `json:"duration,omitempty"`
}

// CatalogRecord is the read-only, already normalized data for one substance.
type CatalogRecord struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	PolishName           string                `json:"polish_name,omitempty"`
	CommonNames          []string              `json:"common_names,omitempty"`
	Guideline            DosageGuideline       `json:"dosage_guideline"`
	SideEffects          []SideEffect          `json:"side_effects,omitempty"`
	ClinicalApplications []ClinicalApplication `json:"clinical_applications,omitempty"`
	EvidenceLevel        EvidenceLevel         `json:"evidence_level"`
}

// Identifiers returns every name the substance can be referenced by.
func (r CatalogRecord) Identifiers() []string {
	ids := []string{r.ID}
	if r.Name != "" {
		ids = append(ids, r.Name)
	}
	if r.PolishName != "" {
		ids = append(ids, r.PolishName)
	}
	return append(ids, r.CommonNames...)
}
