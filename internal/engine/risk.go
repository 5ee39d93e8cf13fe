// internal/engine/risk.go
package engine

import (
	"sort"
	"strings"

	"mcp-dosage-safety/internal/models"
)

// cumulativeBurdenCount is how many alerts of moderate or higher weight
// escalate the overall risk by one level.
const cumulativeBurdenCount = 3

// Aggregate deduplicates and ranks alert candidates and derives the overall
// risk. A contraindicated recommendation forces critical.
func Aggregate(candidates []models.SafetyAlert, recs []models.DosageRecommendation) ([]models.SafetyAlert, models.RiskLevel) {
	alerts := dedupe(candidates)

	sort.SliceStable(alerts, func(i, j int) bool {
		wi, wj := alerts[i].Severity.Weight(), alerts[j].Severity.Weight()
		if wi != wj {
			return wi > wj
		}
		pi, pj := alerts[i].SourceType.Priority(), alerts[j].SourceType.Priority()
		if pi != pj {
			return pi > pj
		}
		return alertKey(alerts[i]) < alertKey(alerts[j])
	})

	return alerts, overallRisk(alerts, recs)
}

func overallRisk(alerts []models.SafetyAlert, recs []models.DosageRecommendation) models.RiskLevel {
	for _, r := range recs {
		if r.Contraindicated {
			return models.RiskCritical
		}
	}

	maxWeight, burden := 0, 0
	for _, a := range alerts {
		w := a.Severity.Weight()
		if w > maxWeight {
			maxWeight = w
		}
		if w >= 2 {
			burden++
		}
	}

	risk := models.RiskFromWeight(maxWeight)
	if burden >= cumulativeBurdenCount {
		risk = risk.Escalate()
	}
	return risk
}

// dedupe collapses alerts with the same source type and involved set, keeping
// the highest severity and the position of the first occurrence.
func dedupe(candidates []models.SafetyAlert) []models.SafetyAlert {
	index := make(map[string]int, len(candidates))
	out := make([]models.SafetyAlert, 0, len(candidates))
	for _, a := range candidates {
		key := alertKey(a)
		if i, ok := index[key]; ok {
			if a.Severity.Weight() > out[i].Severity.Weight() {
				out[i] = a
			}
			continue
		}
		index[key] = len(out)
		out = append(out, a)
	}
	return out
}

func alertKey(a models.SafetyAlert) string {
	involved := make([]string, len(a.Involved))
	for i, v := range a.Involved {
		involved[i] = strings.ToLower(strings.TrimSpace(v))
	}
	sort.Strings(involved)
	return string(a.SourceType) + "|" + strings.Join(involved, "\x1f")
}
