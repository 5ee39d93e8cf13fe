// internal/engine/profile.go
package engine

import (
	"math"
	"sort"
	"strings"

	"mcp-dosage-safety/internal/models"
)

const (
	minAge, maxAge       = 18, 120
	minWeight, maxWeight = 30.0, 300.0
	minHeight, maxHeight = 100.0, 250.0
)

// activityMultipliers maps activity level to its TDEE multiplier. Also the
// source of truth for valid activity levels.
var activityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary:  1.2,
	models.ActivityLight:      1.375,
	models.ActivityModerate:   1.55,
	models.ActivityActive:     1.725,
	models.ActivityVeryActive: 1.9,
}

// ValidateProfile checks every field range and the pregnancy and gender rules.
func ValidateProfile(p models.UserProfile) error {
	if p.Age < minAge || p.Age > maxAge {
		return invalid("user_profile.age", "must be between %d and %d, got %d", minAge, maxAge, p.Age)
	}
	switch p.Gender {
	case models.GenderMale, models.GenderFemale, models.GenderOther:
	default:
		return invalid("user_profile.gender", "must be male, female or other, got %q", p.Gender)
	}
	if math.IsNaN(p.WeightKg) || p.WeightKg < minWeight || p.WeightKg > maxWeight {
		return invalid("user_profile.weight_kg", "must be between %.0f and %.0f, got %v", minWeight, maxWeight, p.WeightKg)
	}
	if math.IsNaN(p.HeightCm) || p.HeightCm < minHeight || p.HeightCm > maxHeight {
		return invalid("user_profile.height_cm", "must be between %.0f and %.0f, got %v", minHeight, maxHeight, p.HeightCm)
	}
	if _, ok := activityMultipliers[p.ActivityLevel]; !ok {
		return invalid("user_profile.activity_level", "unknown activity level %q", p.ActivityLevel)
	}
	if p.Pregnant && p.Gender != models.GenderFemale {
		return invalid("user_profile.pregnant", "pregnant requires gender female")
	}
	if p.Breastfeeding && p.Gender != models.GenderFemale {
		return invalid("user_profile.breastfeeding", "breastfeeding requires gender female")
	}
	return nil
}

// NormalizeProfile validates p and derives BMI, BMR and TDEE. Pure.
func NormalizeProfile(p models.UserProfile) (models.NormalizedProfile, error) {
	if err := ValidateProfile(p); err != nil {
		return models.NormalizedProfile{}, err
	}

	p.HealthConditions = normalizeSet(p.HealthConditions)
	p.CurrentMedications = normalizeSet(p.CurrentMedications)
	p.Allergies = normalizeSet(p.Allergies)

	heightM := p.HeightCm / 100
	bmi := p.WeightKg / (heightM * heightM)

	base := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	var bmr float64
	switch p.Gender {
	case models.GenderMale:
		bmr = base + 5
	case models.GenderFemale:
		bmr = base - 161
	default:
		bmr = ((base + 5) + (base - 161)) / 2
	}

	return models.NormalizedProfile{
		UserProfile: p,
		BMI:         round2(bmi),
		BMR:         round2(bmr),
		TDEE:        round2(bmr * activityMultipliers[p.ActivityLevel]),
		BMICategory: bmiCategory(bmi),
	}, nil
}

func bmiCategory(bmi float64) models.BMICategory {
	switch {
	case bmi < 18.5:
		return models.BMIUnderweight
	case bmi < 25:
		return models.BMINormal
	case bmi < 30:
		return models.BMIOverweight
	default:
		return models.BMIObese
	}
}

// normalizeSet trims, drops empties and case-insensitive duplicates, and sorts
// so that set-valued fields have one canonical order.
func normalizeSet(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
