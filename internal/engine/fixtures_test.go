package engine

import (
	"mcp-dosage-safety/internal/models"
)

func f64(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

func adultMale() models.UserProfile {
	return models.UserProfile{
		Age:           30,
		Gender:        models.GenderMale,
		WeightKg:      70,
		HeightCm:      178,
		ActivityLevel: models.ActivityModerate,
	}
}

func adultFemale() models.UserProfile {
	return models.UserProfile{
		Age:           30,
		Gender:        models.GenderFemale,
		WeightKg:      70,
		HeightCm:      165,
		ActivityLevel: models.ActivityModerate,
	}
}

func normalized(p models.UserProfile) models.NormalizedProfile {
	np, err := NormalizeProfile(p)
	if err != nil {
		panic(err)
	}
	return np
}

func vitaminD3() models.CatalogRecord {
	return models.CatalogRecord{
		ID:            "vitamin-d3",
		Name:          "Vitamin D3",
		PolishName:    "Witamina D3",
		CommonNames:   []string{"cholecalciferol"},
		EvidenceLevel: models.EvidenceStrong,
		Guideline: models.DosageGuideline{
			Min:               f64(1000),
			Max:               f64(4000),
			Unit:              "IU",
			Timing:            []string{"morning"},
			WithFood:          true,
			Contraindications: []string{"hypercalcemia", "sarcoidosis"},
		},
		ClinicalApplications: []models.ClinicalApplication{
			{Condition: "Vitamin D deficiency", EffectivenessRating: 9, EvidenceLevel: models.EvidenceStrong, Duration: "8-12 weeks"},
		},
	}
}

func vitaminK2() models.CatalogRecord {
	return models.CatalogRecord{
		ID:            "vitamin-k2",
		Name:          "Vitamin K2",
		EvidenceLevel: models.EvidenceModerate,
		Guideline: models.DosageGuideline{
			Min:  f64(90),
			Max:  f64(200),
			Unit: "mcg",
			Interactions: []models.InteractionRecord{
				{Counterpart: "warfarin", Type: models.InteractionAntagonistic, Severity: models.SeverityMajor, Mechanism: "Vitamin K counteracts warfarin"},
			},
		},
		ClinicalApplications: []models.ClinicalApplication{
			{Condition: "Bone health", EffectivenessRating: 6, EvidenceLevel: models.EvidenceModerate},
		},
	}
}

func calcium() models.CatalogRecord {
	return models.CatalogRecord{
		ID:            "calcium",
		Name:          "Calcium",
		EvidenceLevel: models.EvidenceStrong,
		Guideline: models.DosageGuideline{
			Min:  f64(500),
			Max:  f64(1200),
			Unit: "mg",
			Interactions: []models.InteractionRecord{
				{Counterpart: "iron", Type: models.InteractionCompetitive, Severity: models.SeverityModerate, Mechanism: "Calcium inhibits non-heme iron absorption"},
			},
		},
	}
}

func iron() models.CatalogRecord {
	return models.CatalogRecord{
		ID:            "iron",
		Name:          "Iron",
		EvidenceLevel: models.EvidenceStrong,
		Guideline: models.DosageGuideline{
			Min:  f64(18),
			Max:  f64(45),
			Unit: "mg",
		},
	}
}

func ashwagandha() models.CatalogRecord {
	return models.CatalogRecord{
		ID:            "ashwagandha",
		Name:          "Ashwagandha",
		EvidenceLevel: models.EvidenceModerate,
		Guideline: models.DosageGuideline{
			Min:               f64(300),
			Max:               f64(600),
			Unit:              "mg",
			Contraindications: []string{"pregnancy", "hyperthyroidism"},
		},
		SideEffects: []models.SideEffect{
			{Effect: "Liver injury", Frequency: "rare", Severity: "severe"},
		},
	}
}

func withContraindication(rec models.CatalogRecord, c string) models.CatalogRecord {
	rec.Guideline.Contraindications = append(append([]string(nil), rec.Guideline.Contraindications...), c)
	return rec
}

func selection(id string, effect models.DesiredEffect) models.SupplementSelection {
	return models.SupplementSelection{SupplementID: id, DesiredEffect: effect}
}
