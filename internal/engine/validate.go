// internal/engine/validate.go
package engine

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"mcp-dosage-safety/internal/models"
)

const (
	minSelections = 1
	maxSelections = 10
)

// ValidateRequest returns the first problem found in req, or nil.
func ValidateRequest(req models.CalculationRequest) error {
	if errs := ValidateRequestAll(req); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// ValidateRequestAll collects every validation problem in req.
func ValidateRequestAll(req models.CalculationRequest) []*ValidationError {
	var errs []*ValidationError
	if err := ValidateProfile(req.UserProfile); err != nil {
		errs = append(errs, err.(*ValidationError))
	}
	return append(errs, validateSelections(req.Supplements)...)
}

func validateSelections(selections []models.SupplementSelection) []*ValidationError {
	if len(selections) < minSelections || len(selections) > maxSelections {
		return []*ValidationError{invalid("supplements", "must contain %d to %d items, got %d", minSelections, maxSelections, len(selections))}
	}

	var errs []*ValidationError
	seen := make(map[string]int, len(selections))
	for i, sel := range selections {
		field := fmt.Sprintf("supplements[%d]", i)
		id := strings.TrimSpace(sel.SupplementID)
		if id == "" {
			errs = append(errs, invalid(field+".supplement_id", "is required"))
		} else if prev, dup := seen[id]; dup {
			errs = append(errs, invalid(field+".supplement_id", "duplicate of supplements[%d] (%s)", prev, id))
		} else {
			seen[id] = i
		}

		switch sel.DesiredEffect {
		case models.EffectPreventive, models.EffectTherapeutic, models.EffectOptimal:
		default:
			errs = append(errs, invalid(field+".desired_effect", "must be preventive, therapeutic or optimal, got %q", sel.DesiredEffect))
		}

		if sel.CustomDosage != nil {
			c := *sel.CustomDosage
			if math.IsNaN(c) || math.IsInf(c, 0) || c <= 0 {
				errs = append(errs, invalid(field+".custom_dosage", "must be a positive number"))
			}
		}

		timings := make(map[string]bool, len(sel.TimingPreference))
		for _, t := range sel.TimingPreference {
			if !slices.Contains(models.Timings, t) {
				errs = append(errs, invalid(field+".timing_preference", "unknown timing %q", t))
				continue
			}
			if timings[t] {
				errs = append(errs, invalid(field+".timing_preference", "duplicate timing %q", t))
			}
			timings[t] = true
		}
	}
	return errs
}
