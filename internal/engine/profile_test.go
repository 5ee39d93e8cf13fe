package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-dosage-safety/internal/models"
)

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(p *models.UserProfile)
		wantField string
	}{
		{"valid", func(p *models.UserProfile) {}, ""},
		{"minimum age", func(p *models.UserProfile) { p.Age = 18 }, ""},
		{"maximum age", func(p *models.UserProfile) { p.Age = 120 }, ""},
		{"too young", func(p *models.UserProfile) { p.Age = 17 }, "user_profile.age"},
		{"too old", func(p *models.UserProfile) { p.Age = 121 }, "user_profile.age"},
		{"unknown gender", func(p *models.UserProfile) { p.Gender = "robot" }, "user_profile.gender"},
		{"too light", func(p *models.UserProfile) { p.WeightKg = 29.9 }, "user_profile.weight_kg"},
		{"too heavy", func(p *models.UserProfile) { p.WeightKg = 300.1 }, "user_profile.weight_kg"},
		{"weight NaN", func(p *models.UserProfile) { p.WeightKg = math.NaN() }, "user_profile.weight_kg"},
		{"too short", func(p *models.UserProfile) { p.HeightCm = 99 }, "user_profile.height_cm"},
		{"too tall", func(p *models.UserProfile) { p.HeightCm = 251 }, "user_profile.height_cm"},
		{"unknown activity", func(p *models.UserProfile) { p.ActivityLevel = "couch" }, "user_profile.activity_level"},
		{"pregnant male", func(p *models.UserProfile) { p.Pregnant = true }, "user_profile.pregnant"},
		{"breastfeeding male", func(p *models.UserProfile) { p.Breastfeeding = true }, "user_profile.breastfeeding"},
		{"pregnant other", func(p *models.UserProfile) { p.Gender = models.GenderOther; p.Pregnant = true }, "user_profile.pregnant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := adultMale()
			tt.mutate(&p)
			err := ValidateProfile(p)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestNormalizeProfile_Metrics(t *testing.T) {
	tests := []struct {
		name     string
		gender   models.Gender
		activity models.ActivityLevel
		wantBMR  float64
		wantTDEE float64
	}{
		{"male moderate", models.GenderMale, models.ActivityModerate, 1780, 2759},
		{"female sedentary", models.GenderFemale, models.ActivitySedentary, 1614, 1936.8},
		{"other very active", models.GenderOther, models.ActivityVeryActive, 1697, 3224.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			np, err := NormalizeProfile(models.UserProfile{
				Age:           30,
				Gender:        tt.gender,
				WeightKg:      80,
				HeightCm:      180,
				ActivityLevel: tt.activity,
			})
			require.NoError(t, err)
			assert.Equal(t, 24.69, np.BMI)
			assert.Equal(t, models.BMINormal, np.BMICategory)
			assert.InDelta(t, tt.wantBMR, np.BMR, 1e-9)
			assert.InDelta(t, tt.wantTDEE, np.TDEE, 1e-9)
		})
	}
}

func TestNormalizeProfile_Sets(t *testing.T) {
	p := adultMale()
	p.CurrentMedications = []string{" Warfarin", "warfarin", "", "aspirin"}
	p.HealthConditions = nil

	np, err := NormalizeProfile(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"aspirin", "Warfarin"}, np.CurrentMedications)
	assert.NotNil(t, np.HealthConditions)
	assert.Empty(t, np.HealthConditions)
}

func TestNormalizeProfile_InvalidProfile(t *testing.T) {
	p := adultMale()
	p.Age = 10
	_, err := NormalizeProfile(p)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "user_profile.age", verr.Field)
}

func TestBMICategory(t *testing.T) {
	tests := []struct {
		bmi  float64
		want models.BMICategory
	}{
		{17.9, models.BMIUnderweight},
		{18.5, models.BMINormal},
		{24.99, models.BMINormal},
		{25, models.BMIOverweight},
		{29.9, models.BMIOverweight},
		{30, models.BMIObese},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bmiCategory(tt.bmi), "bmi %v", tt.bmi)
	}
}

func TestValidateRequestAll(t *testing.T) {
	neg := -5.0
	req := models.CalculationRequest{
		UserProfile: adultMale(),
		Supplements: []models.SupplementSelection{
			{SupplementID: "vitamin-d3", DesiredEffect: models.EffectPreventive},
			{SupplementID: " vitamin-d3 ", DesiredEffect: "max"},
			{SupplementID: "", DesiredEffect: models.EffectOptimal, CustomDosage: &neg},
			{SupplementID: "zinc", DesiredEffect: models.EffectOptimal, TimingPreference: []string{"morning", "noon", "morning"}},
		},
	}

	errs := ValidateRequestAll(req)
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	assert.Equal(t, []string{
		"supplements[1].supplement_id",
		"supplements[1].desired_effect",
		"supplements[2].supplement_id",
		"supplements[2].custom_dosage",
		"supplements[3].timing_preference",
		"supplements[3].timing_preference",
	}, fields)

	err := ValidateRequest(req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "supplements[1].supplement_id", verr.Field)
}

func TestValidateRequest_SelectionCount(t *testing.T) {
	req := models.CalculationRequest{UserProfile: adultMale()}
	err := ValidateRequest(req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "supplements", verr.Field)

	for i := 0; i < 11; i++ {
		req.Supplements = append(req.Supplements, selection(string(rune('a'+i)), models.EffectPreventive))
	}
	require.ErrorAs(t, ValidateRequest(req), &verr)
	assert.Equal(t, "supplements", verr.Field)

	req.Supplements = req.Supplements[:10]
	assert.NoError(t, ValidateRequest(req))
}
