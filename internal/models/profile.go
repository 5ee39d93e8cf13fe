// internal/models/profile.go
package models

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

type DesiredEffect string

const (
	EffectPreventive  DesiredEffect = "preventive"
	EffectTherapeutic DesiredEffect = "therapeutic"
	EffectOptimal     DesiredEffect = "optimal"
)

type BMICategory string

const (
	BMIUnderweight BMICategory = "underweight"
	BMINormal      BMICategory = "normal"
	BMIOverweight  BMICategory = "overweight"
	BMIObese       BMICategory = "obese"
)

// Valid intake timings for a selection.
var Timings = []string{"morning", "afternoon", "evening", "night"}

type UserProfile struct {
	Age                int           `json:"age"`
	Gender             Gender        `json:"gender"`
	WeightKg           float64       `json:"weight_kg"`
	HeightCm           float64       `json:"height_cm"`
	ActivityLevel      ActivityLevel `json:"activity_level"`
	HealthConditions   []string      `json:"health_conditions"`
	CurrentMedications []string      `json:"current_medications"`
	Allergies          []string      `json:"allergies"`
	Pregnant           bool          `json:"pregnant"`
	Breastfeeding      bool          `json:"breastfeeding"`
}

type SupplementSelection struct {
	SupplementID     string        `json:"supplement_id"`
	DesiredEffect    DesiredEffect `json:"desired_effect"`
	CustomDosage     *float64      `json:"custom_dosage,omitempty"`
	TimingPreference []string      `json:"timing_preference,omitempty"`
	WithFood         *bool         `json:"with_food,omitempty"`
}

type CalculationRequest struct {
	UserProfile UserProfile           `json:"user_profile"`
	Supplements []SupplementSelection `json:"supplements"`
}

// NormalizedProfile is a validated profile plus derived physiological metrics.
type NormalizedProfile struct {
	UserProfile
	BMI         float64     `json:"bmi"`
	BMR         float64     `json:"bmr"`
	TDEE        float64     `json:"tdee"`
	BMICategory BMICategory `json:"bmi_category"`
}
