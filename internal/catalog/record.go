// internal/catalog/record.go
package catalog

import (
	"errors"
	"strings"

	"mcp-dosage-safety/internal/models"
)

// RawRecord mirrors supplement content as it is stored by the content side:
// loosely typed strings, optional numbers and legacy enum spellings.
// Normalize turns it into a models.CatalogRecord.
type RawRecord struct {
	ID                   string           `json:"id" yaml:"id"`
	Name                 string           `json:"name" yaml:"name"`
	PolishName           string           `json:"polish_name,omitempty" yaml:"polish_name"`
	CommonNames          []string         `json:"common_names,omitempty" yaml:"common_names"`
	PolishCommonNames    []string         `json:"polish_common_names,omitempty" yaml:"polish_common_names"`
	EvidenceLevel        string           `json:"evidence_level" yaml:"evidence_level"`
	DosageGuidelines     *RawGuideline    `json:"dosage_guidelines,omitempty" yaml:"dosage_guidelines"`
	SideEffects          []RawSideEffect  `json:"side_effects,omitempty" yaml:"side_effects"`
	ClinicalApplications []RawApplication `json:"clinical_applications,omitempty" yaml:"clinical_applications"`
	Interactions         []RawInteraction `json:"interactions,omitempty" yaml:"interactions"`
}

type RawGuideline struct {
	Min                *float64         `json:"min,omitempty" yaml:"min"`
	Max                *float64         `json:"max,omitempty" yaml:"max"`
	Unit               string           `json:"unit" yaml:"unit"`
	Timing             []string         `json:"timing,omitempty" yaml:"timing"`
	WithFood           bool             `json:"with_food" yaml:"with_food"`
	Contraindications  []string         `json:"contraindications,omitempty" yaml:"contraindications"`
	Interactions       []RawInteraction `json:"interactions,omitempty" yaml:"interactions"`
	NoGeriatricCaution bool             `json:"no_geriatric_caution,omitempty" yaml:"no_geriatric_caution"`
}

type RawInteraction struct {
	Substance            string `json:"substance" yaml:"substance"`
	PolishSubstance      string `json:"polish_substance,omitempty" yaml:"polish_substance"`
	Type                 string `json:"type" yaml:"type"`
	Severity             string `json:"severity" yaml:"severity"`
	Mechanism            string `json:"mechanism,omitempty" yaml:"mechanism"`
	ClinicalSignificance string `json:"clinical_significance,omitempty" yaml:"clinical_significance"`
	Recommendation       string `json:"recommendation,omitempty" yaml:"recommendation"`
	PolishRecommendation string `json:"polish_recommendation,omitempty" yaml:"polish_recommendation"`
	EvidenceLevel        string `json:"evidence_level,omitempty" yaml:"evidence_level"`
}

type RawSideEffect struct {
	Effect       string `json:"effect" yaml:"effect"`
	PolishEffect string `json:"polish_effect,omitempty" yaml:"polish_effect"`
	Frequency    string `json:"frequency,omitempty" yaml:"frequency"`
	Severity     string `json:"severity" yaml:"severity"`
}

type RawApplication struct {
	Condition           string  `json:"condition" yaml:"condition"`
	EffectivenessRating float64 `json:"effectiveness_rating" yaml:"effectiveness_rating"`
	EvidenceLevel       string  `json:"evidence_level" yaml:"evidence_level"`
	Duration            string  `json:"duration,omitempty" yaml:"duration"`
}

var ErrMissingID = errors.New("catalog record has no id")

// Legacy severity spellings found in content.
var severityAliases = map[string]models.Severity{
	"beneficial":       models.SeverityBeneficial,
	"minor":            models.SeverityMinor,
	"mild":             models.SeverityMinor,
	"low":              models.SeverityMinor,
	"moderate":         models.SeverityModerate,
	"medium":           models.SeverityModerate,
	"major":            models.SeverityMajor,
	"severe":           models.SeverityMajor,
	"high":             models.SeverityMajor,
	"contraindicated":  models.SeverityContraindicated,
	"life_threatening": models.SeverityContraindicated,
	"critical":         models.SeverityCritical,
}

var interactionAliases = map[string]models.InteractionType{
	"synergistic":  models.InteractionSynergistic,
	"additive":     models.InteractionSynergistic,
	"antagonistic": models.InteractionAntagonistic,
	"competitive":  models.InteractionCompetitive,
	"beneficial":   models.InteractionBeneficial,
}

// Normalize validates raw at the ingestion boundary. Only a missing id is an
// error; every other gap becomes an explicit default.
func Normalize(raw RawRecord) (models.CatalogRecord, error) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return models.CatalogRecord{}, ErrMissingID
	}

	rec := models.CatalogRecord{
		ID:            id,
		Name:          strings.TrimSpace(raw.Name),
		PolishName:    strings.TrimSpace(raw.PolishName),
		CommonNames:   cleanList(append(append([]string{}, raw.CommonNames...), raw.PolishCommonNames...)),
		EvidenceLevel: normalizeEvidence(raw.EvidenceLevel),
		SideEffects:   []models.SideEffect{},
	}

	var interactions []RawInteraction
	if g := raw.DosageGuidelines; g != nil {
		rec.Guideline = models.DosageGuideline{
			Min:                g.Min,
			Max:                g.Max,
			Unit:               strings.TrimSpace(g.Unit),
			Timing:             cleanList(g.Timing),
			WithFood:           g.WithFood,
			Contraindications:  cleanList(g.Contraindications),
			NoGeriatricCaution: g.NoGeriatricCaution,
		}
		interactions = append(interactions, g.Interactions...)
	}
	// Content carries interactions both at the top level and inside the guideline.
	interactions = append(interactions, raw.Interactions...)
	for _, in := range interactions {
		rec.Guideline.Interactions = append(rec.Guideline.Interactions, normalizeInteraction(in)...)
	}

	for _, se := range raw.SideEffects {
		if strings.TrimSpace(se.Effect) == "" {
			continue
		}
		rec.SideEffects = append(rec.SideEffects, models.SideEffect{
			Effect:       strings.TrimSpace(se.Effect),
			PolishEffect: strings.TrimSpace(se.PolishEffect),
			Frequency:    strings.ToLower(strings.TrimSpace(se.Frequency)),
			Severity:     strings.ToLower(strings.TrimSpace(se.Severity)),
		})
	}

	for _, app := range raw.ClinicalApplications {
		rating := app.EffectivenessRating
		if rating < 0 {
			rating = 0
		}
		if rating > 10 {
			rating = 10
		}
		rec.ClinicalApplications = append(rec.ClinicalApplications, models.ClinicalApplication{
			Condition:           strings.TrimSpace(app.Condition),
			EffectivenessRating: rating,
			EvidenceLevel:       normalizeEvidence(app.EvidenceLevel),
			Duration:            strings.TrimSpace(app.Duration),
		})
	}
	return rec, nil
}

// normalizeInteraction yields one record per counterpart name; the Polish
// substance name is a second way the same counterpart can be referenced.
func normalizeInteraction(in RawInteraction) []models.InteractionRecord {
	base := models.InteractionRecord{
		Type:                 normalizeInteractionType(in.Type),
		Severity:             normalizeSeverity(in.Severity),
		Mechanism:            strings.TrimSpace(in.Mechanism),
		ClinicalSignificance: strings.TrimSpace(in.ClinicalSignificance),
		Recommendation:       strings.TrimSpace(in.Recommendation),
		PolishRecommendation: strings.TrimSpace(in.PolishRecommendation),
		EvidenceLevel:        normalizeEvidence(in.EvidenceLevel),
	}
	var out []models.InteractionRecord
	for _, name := range []string{in.Substance, in.PolishSubstance} {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		r := base
		r.Counterpart = name
		out = append(out, r)
	}
	return out
}

func normalizeSeverity(s string) models.Severity {
	if sev, ok := severityAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return sev
	}
	return models.SeverityModerate
}

func normalizeInteractionType(s string) models.InteractionType {
	if t, ok := interactionAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return models.InteractionAntagonistic
}

func normalizeEvidence(s string) models.EvidenceLevel {
	switch e := models.EvidenceLevel(strings.ToUpper(strings.TrimSpace(s))); e {
	case models.EvidenceStrong, models.EvidenceModerate, models.EvidenceWeak,
		models.EvidenceInsufficient, models.EvidenceConflicting:
		return e
	default:
		return models.EvidenceInsufficient
	}
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
