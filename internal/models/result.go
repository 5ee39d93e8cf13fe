// internal/models/result.go
package models

import "time"

type SourceType string

const (
	SourcePairwiseInteraction SourceType = "pairwise_interaction"
	SourceContraindication    SourceType = "contraindication"
	SourceSideEffectRisk      SourceType = "side_effect_risk"
)

// Priority orders source types for display: contraindications first.
func (s SourceType) Priority() int {
	switch s {
	case SourceContraindication:
		return 3
	case SourcePairwiseInteraction:
		return 2
	case SourceSideEffectRisk:
		return 1
	default:
		return 0
	}
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var riskByWeight = []RiskLevel{RiskLow, RiskLow, RiskModerate, RiskHigh, RiskCritical}

// RiskFromWeight maps a severity weight onto a risk level, clamping out-of-range input.
func RiskFromWeight(w int) RiskLevel {
	if w < 0 {
		w = 0
	}
	if w >= len(riskByWeight) {
		w = len(riskByWeight) - 1
	}
	return riskByWeight[w]
}

// Rank returns the position of the level on the low..critical scale.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskModerate:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return 0
	}
}

// Escalate moves the level up by one step, capped at critical.
func (r RiskLevel) Escalate() RiskLevel {
	switch r {
	case RiskLow:
		return RiskModerate
	case RiskModerate:
		return RiskHigh
	default:
		return RiskCritical
	}
}

type DosageRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Unit string  `json:"unit"`
}

type Adjustment struct {
	Factor       string  `json:"factor"`
	Multiplier   float64 `json:"multiplier"`
	Reason       string  `json:"reason"`
	PolishReason string  `json:"polish_reason"`
}

type DosageRecommendation struct {
	SupplementID     string       `json:"supplement_id"`
	RecommendedRange DosageRange  `json:"recommended_range"`
	Confidence       float64      `json:"confidence"`
	Timing           []string     `json:"timing"`
	WithFood         bool         `json:"with_food"`
	DurationHint     string       `json:"duration_hint"`
	Contraindicated  bool         `json:"contraindicated"`
	Adjustments      []Adjustment `json:"adjustments"`
}

type SafetyAlert struct {
	Severity             Severity        `json:"severity"`
	SourceType           SourceType      `json:"source_type"`
	Involved             []string        `json:"involved"`
	InteractionType      InteractionType `json:"interaction_type,omitempty"`
	Mechanism            string          `json:"mechanism,omitempty"`
	Description          string          `json:"description"`
	PolishDescription    string          `json:"polish_description"`
	Recommendation       string          `json:"recommendation"`
	PolishRecommendation string          `json:"polish_recommendation"`

	// Code and Args select and fill the message templates; Composer renders them.
	Code string   `json:"code"`
	Args []string `json:"-"`
}

// CalculationResult is built once per request and never mutated afterwards.
type CalculationResult struct {
	CalculationID         string                 `json:"calculation_id"`
	UserProfile           NormalizedProfile      `json:"user_profile_echo"`
	DosageRecommendations []DosageRecommendation `json:"dosage_recommendations"`
	SafetyAlerts          []SafetyAlert          `json:"safety_alerts"`
	OverallRisk           RiskLevel              `json:"overall_risk"`
	AggregateConfidence   float64                `json:"aggregate_confidence"`
	CalculationDate       time.Time              `json:"calculation_date"`
	Warnings              []string               `json:"warnings"`
	PolishWarnings        []string               `json:"polish_warnings"`
	Recommendations       []string               `json:"recommendations"`
	PolishRecommendations []string               `json:"polish_recommendations"`
}

// SafetyProfile is the single-supplement view returned by safety lookups.
type SafetyProfile struct {
	SupplementID  string        `json:"supplement_id"`
	IsSafe        bool          `json:"is_safe"`
	RiskLevel     RiskLevel     `json:"risk_level"`
	Alerts        []SafetyAlert `json:"alerts"`
	Summary       string        `json:"summary"`
	PolishSummary string        `json:"polish_summary"`
}
