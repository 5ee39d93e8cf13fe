// internal/engine/match.go
package engine

import (
	"strings"

	"mcp-dosage-safety/internal/models"
)

type matchKind string

const (
	matchPregnancy     matchKind = "pregnancy"
	matchBreastfeeding matchKind = "breastfeeding"
	matchAge           matchKind = "age"
	matchCondition     matchKind = "condition"
	matchMedication    matchKind = "medication"
	matchAllergy       matchKind = "allergy"
	matchAllergen      matchKind = "allergen"
)

// Literal tokens the reproductive flags and geriatric age are matched as.
var (
	pregnancyTokens     = []string{"pregnancy", "ciąża"}
	breastfeedingTokens = []string{"breastfeeding", "lactation", "karmienie piersią"}
	elderlyTokens       = []string{"elderly", "osoby starsze"}
)

// contraMatch is one user-state fact that collides with a substance.
type contraMatch struct {
	Kind  matchKind
	Token string
	// Against is the catalog contraindication or substance name that matched.
	Against string
}

// tokensMatch is the case-insensitive substring test shared by the dosage
// calculator and the interaction scanner. Either side may contain the other.
func tokensMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func anyMatch(tokens []string, against string) bool {
	for _, t := range tokens {
		if tokensMatch(t, against) {
			return true
		}
	}
	return false
}

// userStateMatches lists every collision between the profile and rec, in a
// fixed order: reproductive flags, geriatric age, conditions, medications, allergies, then
// allergies against the substance identity. At most one match per (kind, token).
func userStateMatches(p models.NormalizedProfile, rec models.CatalogRecord) []contraMatch {
	contras := rec.Guideline.Contraindications
	var out []contraMatch

	if p.Pregnant {
		for _, c := range contras {
			if anyMatch(pregnancyTokens, c) {
				out = append(out, contraMatch{Kind: matchPregnancy, Token: "pregnancy", Against: c})
				break
			}
		}
	}
	if p.Breastfeeding {
		for _, c := range contras {
			if anyMatch(breastfeedingTokens, c) {
				out = append(out, contraMatch{Kind: matchBreastfeeding, Token: "breastfeeding", Against: c})
				break
			}
		}
	}
	if p.Age > geriatricAge {
		for _, c := range contras {
			if anyMatch(elderlyTokens, c) {
				out = append(out, contraMatch{Kind: matchAge, Token: "elderly", Against: c})
				break
			}
		}
	}

	groups := []struct {
		kind   matchKind
		tokens []string
	}{
		{matchCondition, p.HealthConditions},
		{matchMedication, p.CurrentMedications},
		{matchAllergy, p.Allergies},
	}
	for _, g := range groups {
		for _, token := range g.tokens {
			for _, c := range contras {
				if tokensMatch(token, c) {
					out = append(out, contraMatch{Kind: g.kind, Token: token, Against: c})
					break
				}
			}
		}
	}

	for _, allergy := range p.Allergies {
		for _, name := range rec.Identifiers() {
			if tokensMatch(allergy, name) {
				out = append(out, contraMatch{Kind: matchAllergen, Token: allergy, Against: name})
				break
			}
		}
	}
	return out
}
