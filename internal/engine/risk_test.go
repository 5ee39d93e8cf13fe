package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-dosage-safety/internal/models"
)

func alert(source models.SourceType, sev models.Severity, involved ...string) models.SafetyAlert {
	return models.SafetyAlert{SourceType: source, Severity: sev, Involved: involved}
}

func TestAggregate_OverallRisk(t *testing.T) {
	tests := []struct {
		name   string
		alerts []models.SafetyAlert
		recs   []models.DosageRecommendation
		want   models.RiskLevel
	}{
		{"no alerts", nil, nil, models.RiskLow},
		{"beneficial only", []models.SafetyAlert{alert(models.SourcePairwiseInteraction, models.SeverityBeneficial, "a", "b")}, nil, models.RiskLow},
		{"minor only", []models.SafetyAlert{alert(models.SourceSideEffectRisk, models.SeverityMinor, "a", "x")}, nil, models.RiskLow},
		{"single moderate", []models.SafetyAlert{alert(models.SourcePairwiseInteraction, models.SeverityModerate, "a", "b")}, nil, models.RiskModerate},
		{"single major", []models.SafetyAlert{alert(models.SourcePairwiseInteraction, models.SeverityMajor, "a", "b")}, nil, models.RiskHigh},
		{
			"three moderates escalate",
			[]models.SafetyAlert{
				alert(models.SourcePairwiseInteraction, models.SeverityModerate, "a", "b"),
				alert(models.SourcePairwiseInteraction, models.SeverityModerate, "a", "c"),
				alert(models.SourcePairwiseInteraction, models.SeverityModerate, "b", "c"),
			},
			nil,
			models.RiskHigh,
		},
		{
			"escalation caps at critical",
			[]models.SafetyAlert{
				alert(models.SourceContraindication, models.SeverityCritical, "a", "x"),
				alert(models.SourcePairwiseInteraction, models.SeverityMajor, "a", "c"),
				alert(models.SourcePairwiseInteraction, models.SeverityModerate, "b", "c"),
			},
			nil,
			models.RiskCritical,
		},
		{
			"contraindicated recommendation forces critical",
			nil,
			[]models.DosageRecommendation{{SupplementID: "a", Contraindicated: true}},
			models.RiskCritical,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, risk := Aggregate(tt.alerts, tt.recs)
			assert.Equal(t, tt.want, risk)
		})
	}
}

func TestAggregate_Dedupe(t *testing.T) {
	alerts, risk := Aggregate([]models.SafetyAlert{
		alert(models.SourcePairwiseInteraction, models.SeverityModerate, "a", "b"),
		alert(models.SourcePairwiseInteraction, models.SeverityMajor, "B", "a"),
		alert(models.SourceContraindication, models.SeverityContraindicated, "a", "b"),
	}, nil)

	require.Len(t, alerts, 2)
	assert.Equal(t, models.SourceContraindication, alerts[0].SourceType)
	assert.Equal(t, models.SeverityMajor, alerts[1].Severity)
	assert.Equal(t, models.RiskCritical, risk)
}

func TestAggregate_Ordering(t *testing.T) {
	alerts, _ := Aggregate([]models.SafetyAlert{
		alert(models.SourceSideEffectRisk, models.SeverityMinor, "a", "nausea"),
		alert(models.SourcePairwiseInteraction, models.SeverityMinor, "b", "c"),
		alert(models.SourcePairwiseInteraction, models.SeverityMinor, "a", "c"),
		alert(models.SourceContraindication, models.SeverityContraindicated, "a", "pregnancy"),
		alert(models.SourcePairwiseInteraction, models.SeverityMajor, "c", "d"),
	}, nil)

	got := make([]string, len(alerts))
	for i, a := range alerts {
		got[i] = string(a.SourceType) + ":" + a.Involved[0] + "-" + a.Involved[1]
	}
	assert.Equal(t, []string{
		"contraindication:a-pregnancy",
		"pairwise_interaction:c-d",
		"pairwise_interaction:a-c",
		"pairwise_interaction:b-c",
		"side_effect_risk:a-nausea",
	}, got)
}

func TestAggregate_Idempotent(t *testing.T) {
	input := []models.SafetyAlert{
		alert(models.SourcePairwiseInteraction, models.SeverityMinor, "b", "c"),
		alert(models.SourceContraindication, models.SeverityContraindicated, "a", "x"),
		alert(models.SourcePairwiseInteraction, models.SeverityModerate, "c", "b"),
	}
	once, risk1 := Aggregate(input, nil)
	twice, risk2 := Aggregate(once, nil)
	assert.Equal(t, once, twice)
	assert.Equal(t, risk1, risk2)
}
