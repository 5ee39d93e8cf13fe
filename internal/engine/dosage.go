// internal/engine/dosage.go
package engine

import (
	"math"
	"strconv"
	"strings"

	"mcp-dosage-safety/internal/i18n"
	"mcp-dosage-safety/internal/models"
)

const (
	referenceWeightKg = 70.0
	minWeightFactor   = 0.6
	maxWeightFactor   = 1.4

	customLowerBound = 0.5
	customUpperBound = 1.5
	customBand       = 0.10

	minBandFraction = 0.05

	pregnancyMultiplier     = 0.5
	breastfeedingMultiplier = 0.6
	geriatricMultiplier     = 0.85
	geriatricAge            = 65
)

var evidenceWeights = map[models.EvidenceLevel]float64{
	models.EvidenceStrong:       1.0,
	models.EvidenceModerate:     0.75,
	models.EvidenceWeak:         0.5,
	models.EvidenceInsufficient: 0.25,
	models.EvidenceConflicting:  0.1,
}

// Adjustment factors recorded on a recommendation.
const (
	FactorCustomDosage      = "custom_dosage"
	FactorBodyWeight        = "body_weight"
	FactorDesiredEffect     = "desired_effect"
	FactorPregnancy         = "pregnancy"
	FactorBreastfeeding     = "breastfeeding"
	FactorAge               = "age"
	FactorContraindication  = "contraindication"
	FactorCatalogIncomplete = "catalog_incomplete"
)

// CalculateDosage produces the recommendation for one selection. The second
// return value is non-nil when the catalog record lacked a usable range; the
// recommendation is still valid (zero range, zero confidence).
func CalculateDosage(sel models.SupplementSelection, rec models.CatalogRecord, p models.NormalizedProfile) (models.DosageRecommendation, *CatalogDataIncompleteError) {
	g := rec.Guideline
	out := models.DosageRecommendation{
		SupplementID:     rec.ID,
		RecommendedRange: models.DosageRange{Unit: g.Unit},
		Timing:           timingFor(sel, g),
		WithFood:         withFoodFor(sel, g),
		DurationHint:     durationHint(rec, sel.DesiredEffect),
		Adjustments:      []models.Adjustment{},
	}

	blocked := blockingMatch(p, rec)

	if !g.Complete() {
		incomplete := &CatalogDataIncompleteError{SupplementID: rec.ID, Field: missingField(g)}
		out.Adjustments = append(out.Adjustments, adjustment(FactorCatalogIncomplete, 0, "adj.incomplete", incomplete.Field))
		if blocked != nil {
			out.Contraindicated = true
			out.Adjustments = append(out.Adjustments, adjustment(FactorContraindication, 0, "adj.contraindicated", string(blocked.Kind), blocked.Token))
		}
		return out, incomplete
	}

	min, max := *g.Min, *g.Max
	var lo, hi float64
	custom := false

	if sel.CustomDosage != nil {
		c := *sel.CustomDosage
		if c >= min*customLowerBound && c <= max*customUpperBound {
			lo, hi = c*(1-customBand), c*(1+customBand)
			custom = true
			out.Adjustments = append(out.Adjustments, adjustment(FactorCustomDosage, 1, "adj.custom.applied", formatNumber(c), g.Unit))
		} else {
			out.Adjustments = append(out.Adjustments, adjustment(FactorCustomDosage, 1, "adj.custom.rejected"))
		}
	}

	if !custom {
		factor := clamp(p.WeightKg/referenceWeightKg, minWeightFactor, maxWeightFactor)
		out.Adjustments = append(out.Adjustments, adjustment(FactorBodyWeight, factor, "adj.weight", strconv.FormatFloat(factor, 'f', 2, 64), formatNumber(p.WeightKg)))

		lo, hi = tierBand(min*factor, max*factor, min, max, sel.DesiredEffect)
		effect := string(sel.DesiredEffect)
		out.Adjustments = append(out.Adjustments, models.Adjustment{
			Factor:       FactorDesiredEffect,
			Multiplier:   1,
			Reason:       i18n.Tf("adj.tier", i18n.LangEnglish, i18n.T("effect."+effect, i18n.LangEnglish)),
			PolishReason: i18n.Tf("adj.tier", i18n.LangPolish, i18n.T("effect."+effect, i18n.LangPolish)),
		})
	}

	if blocked == nil && p.Pregnant {
		lo, hi = lo*pregnancyMultiplier, hi*pregnancyMultiplier
		out.Adjustments = append(out.Adjustments, adjustment(FactorPregnancy, pregnancyMultiplier, "adj.pregnancy"))
	}
	if blocked == nil && p.Breastfeeding {
		lo, hi = lo*breastfeedingMultiplier, hi*breastfeedingMultiplier
		out.Adjustments = append(out.Adjustments, adjustment(FactorBreastfeeding, breastfeedingMultiplier, "adj.breastfeeding"))
	}
	if blocked == nil && p.Age > geriatricAge && !g.NoGeriatricCaution {
		lo, hi = lo*geriatricMultiplier, hi*geriatricMultiplier
		out.Adjustments = append(out.Adjustments, adjustment(FactorAge, geriatricMultiplier, "adj.geriatric"))
	}

	if blocked != nil {
		out.Contraindicated = true
		lo, hi = 0, 0
		out.Adjustments = append(out.Adjustments, adjustment(FactorContraindication, 0, "adj.contraindicated", string(blocked.Kind), blocked.Token))
	}

	out.RecommendedRange.Min = roundDose(lo, g.Unit)
	out.RecommendedRange.Max = roundDose(hi, g.Unit)
	out.Confidence = confidenceFor(rec)
	return out, nil
}

// blockingMatch returns the first user-state fact that contraindicates rec.
func blockingMatch(p models.NormalizedProfile, rec models.CatalogRecord) *contraMatch {
	matches := userStateMatches(p, rec)
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}

// tierBand narrows the scaled range to the third selected by effect, keeping
// at least minBandFraction of the original range as width.
func tierBand(smin, smax, min, max float64, effect models.DesiredEffect) (float64, float64) {
	k := 0.0
	switch effect {
	case models.EffectTherapeutic:
		k = 1
	case models.EffectOptimal:
		k = 2
	}
	width := smax - smin
	lo := smin + k/3*width
	hi := smin + (k+1)/3*width

	minWidth := minBandFraction * (max - min)
	if minWidth == 0 {
		minWidth = minBandFraction * max
	}
	if hi-lo < minWidth {
		mid := (lo + hi) / 2
		lo, hi = mid-minWidth/2, mid+minWidth/2
		if lo < 0 {
			hi -= lo
			lo = 0
		}
	}
	return lo, hi
}

// confidenceFor is evidence weight times data completeness, never above 1.
func confidenceFor(rec models.CatalogRecord) float64 {
	if !rec.Guideline.Complete() {
		return 0
	}
	w, ok := evidenceWeights[rec.EvidenceLevel]
	if !ok {
		w = evidenceWeights[models.EvidenceInsufficient]
	}
	completeness := 0.6
	if len(rec.ClinicalApplications) > 0 {
		completeness = 1.0
	}
	return clamp(w*completeness, 0, 1)
}

// roundDose rounds to the unit's natural precision: whole numbers for mg and
// IU at 10 and above, one decimal otherwise.
func roundDose(v float64, unit string) float64 {
	u := strings.ToLower(strings.TrimSpace(unit))
	if (u == "mg" || u == "iu") && v >= 10 {
		return math.Round(v)
	}
	return math.Round(v*10) / 10
}

func timingFor(sel models.SupplementSelection, g models.DosageGuideline) []string {
	src := sel.TimingPreference
	if len(src) == 0 {
		src = g.Timing
	}
	return append([]string{}, src...)
}

func withFoodFor(sel models.SupplementSelection, g models.DosageGuideline) bool {
	if sel.WithFood != nil {
		return *sel.WithFood
	}
	return g.WithFood
}

func durationHint(rec models.CatalogRecord, effect models.DesiredEffect) string {
	for _, app := range rec.ClinicalApplications {
		if app.Duration != "" && app.EvidenceLevel != models.EvidenceInsufficient {
			return app.Duration
		}
	}
	return i18n.T("duration."+string(effect), i18n.LangEnglish)
}

func missingField(g models.DosageGuideline) string {
	switch {
	case g.Min == nil && g.Max == nil:
		return "min, max"
	case g.Min == nil:
		return "min"
	case g.Max == nil:
		return "max"
	default:
		return "range"
	}
}

func adjustment(factor string, multiplier float64, key string, args ...any) models.Adjustment {
	en, pl := i18n.Pair(key, args...)
	return models.Adjustment{Factor: factor, Multiplier: multiplier, Reason: en, PolishReason: pl}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
