// internal/engine/compose.go
package engine

import (
	"math"
	"strings"
	"time"

	"mcp-dosage-safety/internal/i18n"
	"mcp-dosage-safety/internal/models"
)

// Stamp identifies one calculation. It is supplied by the caller so that
// Compose stays a pure function of its inputs.
type Stamp struct {
	ID string
	At time.Time
}

// Compose assembles the immutable result and renders its bilingual text.
func Compose(p models.NormalizedProfile, recs []models.DosageRecommendation, alerts []models.SafetyAlert, risk models.RiskLevel, stamp Stamp) *models.CalculationResult {
	rendered := make([]models.SafetyAlert, len(alerts))
	for i, a := range alerts {
		rendered[i] = renderAlert(a)
	}

	result := &models.CalculationResult{
		CalculationID:         stamp.ID,
		UserProfile:           p,
		DosageRecommendations: append([]models.DosageRecommendation{}, recs...),
		SafetyAlerts:          rendered,
		OverallRisk:           risk,
		AggregateConfidence:   aggregateConfidence(recs),
		CalculationDate:       stamp.At,
	}
	result.Warnings, result.PolishWarnings = warnings(rendered, recs)
	result.Recommendations, result.PolishRecommendations = recommendations(risk)
	return result
}

func aggregateConfidence(recs []models.DosageRecommendation) float64 {
	if len(recs) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range recs {
		sum += r.Confidence
	}
	return math.Round(sum/float64(len(recs))*1e4) / 1e4
}

func renderAlert(a models.SafetyAlert) models.SafetyAlert {
	a.Involved = append([]string{}, a.Involved...)
	a.Description = render(a.Code, i18n.LangEnglish, a.Args)
	a.PolishDescription = render(a.Code, i18n.LangPolish, a.Args)
	a.Recommendation = recommendationText(a, a.Recommendation, i18n.LangEnglish)
	a.PolishRecommendation = recommendationText(a, a.PolishRecommendation, i18n.LangPolish)
	return a
}

// render fills a template. Arguments starting with "@" name a message key
// and are localized themselves.
func render(code string, lang i18n.Language, args []string) string {
	values := make([]any, len(args))
	for i, arg := range args {
		if strings.HasPrefix(arg, "@") {
			values[i] = i18n.T(arg[1:], lang)
			continue
		}
		values[i] = arg
	}
	return i18n.Tf(code, lang, values...)
}

func recommendationText(a models.SafetyAlert, provided string, lang i18n.Language) string {
	var parts []string
	if provided != "" {
		parts = append(parts, provided)
	} else {
		parts = append(parts, i18n.T(defaultRecommendation(a), lang))
	}

	if a.SourceType == models.SourcePairwiseInteraction {
		switch a.InteractionType {
		case models.InteractionCompetitive, models.InteractionSynergistic:
			parts = append(parts, i18n.T("rec.interaction."+string(a.InteractionType), lang))
		}
	}
	return strings.Join(parts, "; ")
}

func defaultRecommendation(a models.SafetyAlert) string {
	switch a.SourceType {
	case models.SourceContraindication:
		if strings.HasSuffix(a.Code, ".allergen") || strings.HasSuffix(a.Code, ".allergy") {
			return "rec.allergy"
		}
		return "rec.contraindication"
	case models.SourceSideEffectRisk:
		return "rec.side_effect"
	default:
		if a.InteractionType == models.InteractionBeneficial || a.Severity == models.SeverityBeneficial {
			return "rec.interaction.beneficial"
		}
		return "rec.interaction"
	}
}

func warnings(alerts []models.SafetyAlert, recs []models.DosageRecommendation) ([]string, []string) {
	critical, major, burden := 0, 0, 0
	for _, a := range alerts {
		w := a.Severity.Weight()
		switch {
		case w >= 4:
			critical++
		case w == 3:
			major++
		}
		if w >= 2 {
			burden++
		}
	}

	contraindicated, incomplete := 0, 0
	for _, r := range recs {
		if r.Contraindicated {
			contraindicated++
		}
		for _, adj := range r.Adjustments {
			if adj.Factor == FactorCatalogIncomplete {
				incomplete++
				break
			}
		}
	}

	en, pl := []string{}, []string{}
	add := func(key string, n int) {
		if n == 0 {
			return
		}
		e, p := i18n.Pair(key, n)
		en, pl = append(en, e), append(pl, p)
	}
	add("warn.critical", critical)
	add("warn.major", major)
	if burden >= cumulativeBurdenCount {
		add("warn.cumulative", burden)
	}
	add("warn.contraindicated", contraindicated)
	add("warn.incomplete", incomplete)
	return en, pl
}

func recommendations(risk models.RiskLevel) ([]string, []string) {
	keys := []string{"rec.general.consult", "rec.general.monitor", "rec.general.timing"}
	if risk.Rank() >= models.RiskHigh.Rank() {
		keys = append(keys, "rec.general.urgent")
	}
	en := make([]string, len(keys))
	pl := make([]string, len(keys))
	for i, k := range keys {
		en[i], pl[i] = i18n.Pair(k)
	}
	return en, pl
}
