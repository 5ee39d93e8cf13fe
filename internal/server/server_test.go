package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-dosage-safety/internal/catalog"
	"mcp-dosage-safety/internal/engine"
	"mcp-dosage-safety/internal/events"
	"mcp-dosage-safety/internal/models"
	"mcp-dosage-safety/internal/storage"
)

type recordingPublisher struct {
	mu        sync.Mutex
	published []*models.CalculationResult
}

func (p *recordingPublisher) Publish(_ context.Context, result *models.CalculationResult) error {
	if !events.ShouldPublish(result) {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, result)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type testEnv struct {
	handler   http.Handler
	publisher *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	raws, err := catalog.LoadYAML("../../data/supplements.yaml")
	require.NoError(t, err)
	records, err := catalog.NormalizeAll(raws)
	require.NoError(t, err)
	memory := catalog.NewMemory(records)

	history, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { history.Close() })

	pub := &recordingPublisher{}
	s, err := NewDosageServer(Config{BatchConcurrency: 3, Version: "test"}, Deps{
		Engine:    engine.New(memory),
		Catalog:   memory,
		History:   history,
		Publisher: pub,
	})
	require.NoError(t, err)
	return &testEnv{handler: s.Handler(), publisher: pub}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// callTool posts a tools/call request and decodes the text payload into out.
func (e *testEnv) callTool(t *testing.T, name string, args map[string]any, out any) *httptest.ResponseRecorder {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/mcp", map[string]any{"name": name, "arguments": args})
	if rec.Code != http.StatusOK || out == nil {
		return rec
	}
	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), out))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func profile() map[string]any {
	return map[string]any{
		"age":            34,
		"gender":         "female",
		"weight_kg":      62,
		"height_cm":      168,
		"activity_level": "moderate",
	}
}

func request(p map[string]any, supplements ...map[string]any) map[string]any {
	return map[string]any{"user_profile": p, "supplements": supplements}
}

func pick(id, effect string) map[string]any {
	return map[string]any{"supplement_id": id, "desired_effect": effect}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "test", body["version"])
}

func TestREST_CreateAndGetCalculation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/calculations", request(profile(), pick("magnesium", "preventive")))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.CalculationResult](t, rec)
	require.NotEmpty(t, created.CalculationID)
	assert.Equal(t, models.RiskLow, created.OverallRisk)
	require.Len(t, created.DosageRecommendations, 1)
	assert.Equal(t, "mg", created.DosageRecommendations[0].RecommendedRange.Unit)
	assert.Equal(t, models.BMINormal, created.UserProfile.BMICategory)

	rec = env.do(t, http.MethodGet, "/v1/calculations/"+created.CalculationID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decode[models.CalculationResult](t, rec)
	assert.Equal(t, created.CalculationID, stored.CalculationID)
	assert.Equal(t, created.DosageRecommendations, stored.DosageRecommendations)

	rec = env.do(t, http.MethodGet, "/v1/calculations/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[errorResponse](t, rec).Error.Type)

	assert.Empty(t, env.publisher.published)
}

func TestREST_ListCalculations(t *testing.T) {
	env := newTestEnv(t)
	for _, id := range []string{"magnesium", "zinc", "iron"} {
		rec := env.do(t, http.MethodPost, "/v1/calculations", request(profile(), pick(id, "preventive")))
		require.Equal(t, http.StatusCreated, rec.Code)
		time.Sleep(time.Millisecond)
	}

	rec := env.do(t, http.MethodGet, "/v1/calculations?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct {
		Items []models.CalculationResult `json:"items"`
	}](t, rec)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "iron", page.Items[0].DosageRecommendations[0].SupplementID)

	rec = env.do(t, http.MethodGet, "/v1/calculations?offset=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodGet, "/v1/calculations?limit=ten", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestREST_Errors(t *testing.T) {
	young := profile()
	young["age"] = 12

	tests := []struct {
		name      string
		body      any
		status    int
		errorType string
		field     string
		ids       []string
	}{
		{"invalid age", request(young, pick("magnesium", "preventive")), http.StatusBadRequest, "validation_error", "user_profile.age", nil},
		{"bad effect", request(profile(), pick("magnesium", "maximal")), http.StatusBadRequest, "validation_error", "supplements[0].desired_effect", nil},
		{"unknown supplement", request(profile(), pick("magnesium", "preventive"), pick("unobtainium", "preventive")), http.StatusNotFound, "supplement_not_found", "", []string{"unobtainium"}},
		{"unknown field", `{"user_profile":{"age":30},"supplements":[],"dose":5}`, http.StatusBadRequest, "invalid_request", "", nil},
		{"malformed json", `{"user_profile":`, http.StatusBadRequest, "invalid_request", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(t, http.MethodPost, "/v1/calculations", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decode[errorResponse](t, rec).Error
			assert.Equal(t, tt.errorType, body.Type)
			assert.Equal(t, tt.field, body.Field)
			assert.Equal(t, tt.ids, body.IDs)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestREST_HighRiskIsPublished(t *testing.T) {
	env := newTestEnv(t)
	p := profile()
	p["current_medications"] = []string{"Warfarin"}

	rec := env.do(t, http.MethodPost, "/v1/calculations", request(p, pick("vitamin-k2", "preventive")))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	result := decode[models.CalculationResult](t, rec)
	assert.Equal(t, models.RiskHigh, result.OverallRisk)
	require.NotEmpty(t, result.SafetyAlerts)
	assert.Equal(t, "Do not use with warfarin without INR monitoring", result.SafetyAlerts[0].Recommendation)

	require.Len(t, env.publisher.published, 1)
	assert.Equal(t, result.CalculationID, env.publisher.published[0].CalculationID)
}

func TestREST_Validate(t *testing.T) {
	env := newTestEnv(t)
	bad := profile()
	bad["weight_kg"] = 10

	rec := env.do(t, http.MethodPost, "/v1/calculations/validate", request(bad, pick("", "preventive")))
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[ValidationReport](t, rec)
	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 2)
	assert.Equal(t, "user_profile.weight_kg", report.Errors[0].Field)
	assert.Equal(t, "supplements[0].supplement_id", report.Errors[1].Field)

	rec = env.do(t, http.MethodPost, "/v1/calculations/validate", request(profile(), pick("zinc", "optimal")))
	report = decode[ValidationReport](t, rec)
	assert.True(t, report.Valid)
	assert.NotNil(t, report.Errors)
}

func TestREST_Supplements(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/supplements", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[SupplementList](t, rec)
	assert.Len(t, list.IDs, 11)
	assert.Contains(t, list.IDs, "st-johns-wort")

	rec = env.do(t, http.MethodGet, "/v1/supplements?ids=zinc,copper,zinc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = decode[SupplementList](t, rec)
	require.Len(t, list.Supplements, 2)
	assert.Equal(t, "zinc", list.Supplements[0].ID)
	assert.Equal(t, "copper", list.Supplements[1].ID)

	rec = env.do(t, http.MethodGet, "/v1/supplements/iron", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	iron := decode[models.CatalogRecord](t, rec)
	assert.Equal(t, "Żelazo", iron.PolishName)

	rec = env.do(t, http.MethodGet, "/v1/supplements/boron", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, []string{"boron"}, decode[errorResponse](t, rec).Error.IDs)
}

func TestREST_SupplementSafety(t *testing.T) {
	env := newTestEnv(t)
	p := profile()
	p["pregnant"] = true

	rec := env.do(t, http.MethodPost, "/v1/supplements/ashwagandha/safety", p)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	safety := decode[models.SafetyProfile](t, rec)
	assert.False(t, safety.IsSafe)
	assert.Equal(t, models.RiskCritical, safety.RiskLevel)
	assert.Equal(t, models.SourceContraindication, safety.Alerts[0].SourceType)
	assert.NotEmpty(t, safety.PolishSummary)

	rec = env.do(t, http.MethodPost, "/v1/supplements/copper/safety", profile())
	safety = decode[models.SafetyProfile](t, rec)
	assert.True(t, safety.IsSafe)
	assert.Empty(t, safety.Alerts)
}

func TestREST_Batch(t *testing.T) {
	env := newTestEnv(t)
	young := profile()
	young["age"] = 10

	rec := env.do(t, http.MethodPost, "/v1/calculations/batch", map[string]any{"requests": []any{
		request(profile(), pick("magnesium", "preventive")),
		request(young, pick("magnesium", "preventive")),
		request(profile(), pick("unobtainium", "therapeutic")),
		request(profile(), pick("zinc", "preventive"), pick("copper", "preventive")),
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	batch := decode[struct {
		Results []BatchEntry `json:"results"`
	}](t, rec)
	require.Len(t, batch.Results, 4)

	for i, entry := range batch.Results {
		assert.Equal(t, i, entry.Index)
	}
	require.NotNil(t, batch.Results[0].Result)
	assert.Nil(t, batch.Results[0].Error)
	require.NotNil(t, batch.Results[1].Error)
	assert.Equal(t, "validation_error", batch.Results[1].Error.Type)
	require.NotNil(t, batch.Results[2].Error)
	assert.Equal(t, "supplement_not_found", batch.Results[2].Error.Type)
	require.NotNil(t, batch.Results[3].Result)
	assert.Equal(t, models.RiskModerate, batch.Results[3].Result.OverallRisk)

	rec = env.do(t, http.MethodPost, "/v1/calculations/batch", map[string]any{"requests": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decode[errorResponse](t, rec).Error.Type)
}

func TestMCP_CalculateDosage(t *testing.T) {
	env := newTestEnv(t)

	var result models.CalculationResult
	rec := env.callTool(t, "calculate_dosage", request(profile(), pick("iron", "therapeutic")), &result)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, result.CalculationID)
	require.Len(t, result.DosageRecommendations, 1)
	assert.Equal(t, "iron", result.DosageRecommendations[0].SupplementID)
	assert.Len(t, result.Recommendations, len(result.PolishRecommendations))

	young := profile()
	young["age"] = 15
	rec = env.callTool(t, "calculate_dosage", request(young, pick("iron", "therapeutic")), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "user_profile.age", decode[errorResponse](t, rec).Error.Field)
}

func TestMCP_UnknownTool(t *testing.T) {
	env := newTestEnv(t)
	rec := env.callTool(t, "delete_everything", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown_tool", decode[errorResponse](t, rec).Error.Type)
}

func TestMCP_Tools(t *testing.T) {
	env := newTestEnv(t)

	var batch struct {
		Results []BatchEntry `json:"results"`
	}
	env.callTool(t, "calculate_batch", map[string]any{"requests": []any{
		request(profile(), pick("zinc", "preventive")),
		request(profile(), pick("boron", "preventive")),
	}}, &batch)
	require.Len(t, batch.Results, 2)
	assert.NotNil(t, batch.Results[0].Result)
	assert.Equal(t, []string{"boron"}, batch.Results[1].Error.IDs)

	var report ValidationReport
	env.callTool(t, "validate_input", request(profile()), &report)
	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "supplements", report.Errors[0].Field)

	var list SupplementList
	env.callTool(t, "get_supplements", map[string]any{}, &list)
	assert.Len(t, list.IDs, 11)

	p := profile()
	p["health_conditions"] = []string{"Bipolar Disorder"}
	var safety models.SafetyProfile
	env.callTool(t, "get_supplement_safety", map[string]any{"supplement_id": "st-johns-wort", "user_profile": p}, &safety)
	assert.False(t, safety.IsSafe)
	assert.Equal(t, models.RiskCritical, safety.RiskLevel)

	var history []models.CalculationResult
	env.callTool(t, "get_calculations", map[string]any{"limit": 5}, &history)
	require.Len(t, history, 1)
	assert.Equal(t, "zinc", history[0].DosageRecommendations[0].SupplementID)

	var one models.CalculationResult
	env.callTool(t, "get_calculations", map[string]any{"id": history[0].CalculationID}, &one)
	assert.Equal(t, history[0].CalculationID, one.CalculationID)
}

func TestNewDosageServer_RequiresDeps(t *testing.T) {
	_, err := NewDosageServer(Config{}, Deps{})
	assert.Error(t, err)
}

func TestNewDosageServer_Defaults(t *testing.T) {
	raws, err := catalog.LoadYAML("../../data/supplements.yaml")
	require.NoError(t, err)
	records, err := catalog.NormalizeAll(raws)
	require.NoError(t, err)
	history, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { history.Close() })

	s, err := NewDosageServer(Config{}, Deps{Engine: engine.New(catalog.NewMemory(records)), History: history})
	require.NoError(t, err)
	env := &testEnv{handler: s.Handler()}

	assert.Equal(t, "1.0.0", decode[map[string]any](t, env.do(t, http.MethodGet, "/healthz", nil))["version"])

	var result models.CalculationResult
	rec := env.callTool(t, "calculate_dosage", request(profile(), pick("magnesium", "preventive")), &result)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, result.CalculationID)
}
