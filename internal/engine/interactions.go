// internal/engine/interactions.go
package engine

import (
	"sort"
	"strings"

	"mcp-dosage-safety/internal/models"
)

// ScanInteractions returns every alert candidate for the selected records:
// pairwise interactions, medication interactions, user-state contraindications
// and severe side effects. It does not rank or deduplicate, except that an
// unordered pair of substances yields at most one pairwise alert.
func ScanInteractions(records []models.CatalogRecord, p models.NormalizedProfile) []models.SafetyAlert {
	sorted := append([]models.CatalogRecord{}, records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	alerts := pairwiseAlerts(sorted)
	alerts = append(alerts, medicationAlerts(sorted, p)...)
	alerts = append(alerts, contraindicationAlerts(sorted, p)...)
	return append(alerts, sideEffectAlerts(sorted)...)
}

// pairwiseAlerts checks both directions of every pair; records sorted by id
// make the first-found entry the tie-break winner.
func pairwiseAlerts(recs []models.CatalogRecord) []models.SafetyAlert {
	var alerts []models.SafetyAlert
	for i := 0; i < len(recs); i++ {
		for j := i + 1; j < len(recs); j++ {
			a, b := recs[i], recs[j]
			fwd, okFwd := strongestAgainst(a.Guideline.Interactions, b.Identifiers())
			rev, okRev := strongestAgainst(b.Guideline.Interactions, a.Identifiers())

			var chosen models.InteractionRecord
			switch {
			case okFwd && okRev:
				chosen = fwd
				if rev.Severity.Weight() > fwd.Severity.Weight() {
					chosen = rev
				}
			case okFwd:
				chosen = fwd
			case okRev:
				chosen = rev
			default:
				continue
			}

			alerts = append(alerts, models.SafetyAlert{
				Severity:             chosen.Severity,
				SourceType:           models.SourcePairwiseInteraction,
				Involved:             []string{a.ID, b.ID},
				InteractionType:      chosen.Type,
				Mechanism:            chosen.Mechanism,
				Recommendation:       chosen.Recommendation,
				PolishRecommendation: chosen.PolishRecommendation,
				Code:                 "alert.pairwise",
				Args:                 []string{displayName(a), displayName(b), "@type." + string(chosen.Type), mechanismArg(chosen)},
			})
		}
	}
	return alerts
}

// strongestAgainst picks the highest-severity entry whose counterpart names
// one of ids. Ties keep the earlier entry.
func strongestAgainst(interactions []models.InteractionRecord, ids []string) (models.InteractionRecord, bool) {
	var best models.InteractionRecord
	found := false
	for _, in := range interactions {
		if !identifierIn(in.Counterpart, ids) {
			continue
		}
		if !found || in.Severity.Weight() > best.Severity.Weight() {
			best = in
			found = true
		}
	}
	return best, found
}

func medicationAlerts(recs []models.CatalogRecord, p models.NormalizedProfile) []models.SafetyAlert {
	var alerts []models.SafetyAlert
	for _, rec := range recs {
		for _, med := range p.CurrentMedications {
			var best models.InteractionRecord
			found := false
			for _, in := range rec.Guideline.Interactions {
				if !tokensMatch(med, in.Counterpart) {
					continue
				}
				if !found || in.Severity.Weight() > best.Severity.Weight() {
					best = in
					found = true
				}
			}
			if !found {
				continue
			}
			alerts = append(alerts, models.SafetyAlert{
				Severity:             best.Severity,
				SourceType:           models.SourcePairwiseInteraction,
				Involved:             []string{rec.ID, med},
				InteractionType:      best.Type,
				Mechanism:            best.Mechanism,
				Recommendation:       best.Recommendation,
				PolishRecommendation: best.PolishRecommendation,
				Code:                 "alert.medication",
				Args:                 []string{displayName(rec), med, "@type." + string(best.Type), mechanismArg(best)},
			})
		}
	}
	return alerts
}

func contraindicationAlerts(recs []models.CatalogRecord, p models.NormalizedProfile) []models.SafetyAlert {
	var alerts []models.SafetyAlert
	for _, rec := range recs {
		for _, m := range userStateMatches(p, rec) {
			alert := models.SafetyAlert{
				Severity:   models.SeverityContraindicated,
				SourceType: models.SourceContraindication,
				Involved:   []string{rec.ID, m.Token},
				Code:       "alert.contraindication." + string(m.Kind),
				Args:       []string{displayName(rec), m.Token},
			}
			switch m.Kind {
			case matchPregnancy, matchBreastfeeding, matchAge:
				alert.Args = []string{displayName(rec)}
			case matchAllergen:
				alert.Severity = models.SeverityCritical
			}
			alerts = append(alerts, alert)
		}
	}
	return alerts
}

// severeSideEffect lists side-effect severities that warrant a visibility alert.
var severeSideEffect = map[string]bool{
	"severe":           true,
	"major":            true,
	"critical":         true,
	"life_threatening": true,
}

func sideEffectAlerts(recs []models.CatalogRecord) []models.SafetyAlert {
	var alerts []models.SafetyAlert
	for _, rec := range recs {
		for _, se := range rec.SideEffects {
			if !severeSideEffect[strings.ToLower(strings.TrimSpace(se.Severity))] {
				continue
			}
			alerts = append(alerts, models.SafetyAlert{
				Severity:   models.SeverityMinor,
				SourceType: models.SourceSideEffectRisk,
				Involved:   []string{rec.ID, se.Effect},
				Code:       "alert.side_effect",
				Args:       []string{displayName(rec), se.Effect},
			})
		}
	}
	return alerts
}

// identifierIn compares catalog identifiers ignoring case, and treating
// spaces, underscores and hyphens alike.
func identifierIn(name string, ids []string) bool {
	n := canonicalID(name)
	if n == "" {
		return false
	}
	for _, id := range ids {
		if canonicalID(id) == n {
			return true
		}
	}
	return false
}

var idReplacer = strings.NewReplacer("_", "-", " ", "-")

func canonicalID(s string) string {
	return idReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
}

func displayName(rec models.CatalogRecord) string {
	if rec.Name != "" {
		return rec.Name
	}
	return rec.ID
}

func mechanismArg(in models.InteractionRecord) string {
	if in.Mechanism == "" {
		return "@mechanism.unknown"
	}
	return in.Mechanism
}
