// internal/engine/engine.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mcp-dosage-safety/internal/catalog"
	"mcp-dosage-safety/internal/i18n"
	"mcp-dosage-safety/internal/models"
)

// Lookup resolves supplement ids to catalog records. Implementations return a
// *catalog.NotFoundError when any id is unknown.
type Lookup interface {
	GetRecords(ctx context.Context, ids []string) (map[string]models.CatalogRecord, error)
}

// Engine runs the full calculation pipeline against a catalog. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	catalog Lookup
	clock   func() time.Time
	newID   func() string
	logger  *zap.Logger
}

type Option func(*Engine)

func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func New(lookup Lookup, opts ...Option) *Engine {
	e := &Engine{
		catalog: lookup,
		clock:   func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Calculate validates req, resolves its supplements and returns the composed
// result. Validation and lookup failures abort; incomplete catalog data does not.
func (e *Engine) Calculate(ctx context.Context, req models.CalculationRequest) (*models.CalculationResult, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	records, err := e.resolve(ctx, selectionIDs(req.Supplements))
	if err != nil {
		return nil, err
	}

	stamp := Stamp{ID: e.newID(), At: e.clock()}
	result, incomplete, err := compute(req, records, stamp)
	if err != nil {
		return nil, err
	}
	for _, inc := range incomplete {
		e.logger.Warn("catalog data incomplete",
			zap.String("calculation_id", stamp.ID),
			zap.String("supplement_id", inc.SupplementID),
			zap.String("field", inc.Field))
	}
	e.logger.Debug("calculation complete",
		zap.String("calculation_id", result.CalculationID),
		zap.String("overall_risk", string(result.OverallRisk)),
		zap.Int("alerts", len(result.SafetyAlerts)),
		zap.Float64("aggregate_confidence", result.AggregateConfidence))
	return result, nil
}

// Compute is the pure pipeline: identical inputs give an identical result.
// records must contain every selected id.
func Compute(req models.CalculationRequest, records map[string]models.CatalogRecord, stamp Stamp) (*models.CalculationResult, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	result, _, err := compute(req, records, stamp)
	return result, err
}

func compute(req models.CalculationRequest, records map[string]models.CatalogRecord, stamp Stamp) (*models.CalculationResult, []*CatalogDataIncompleteError, error) {
	profile, err := NormalizeProfile(req.UserProfile)
	if err != nil {
		return nil, nil, err
	}

	var (
		missing    []string
		selected   = make([]models.CatalogRecord, 0, len(req.Supplements))
		recs       = make([]models.DosageRecommendation, 0, len(req.Supplements))
		incomplete []*CatalogDataIncompleteError
	)
	for _, sel := range req.Supplements {
		sel.SupplementID = strings.TrimSpace(sel.SupplementID)
		rec, ok := records[sel.SupplementID]
		if !ok {
			missing = append(missing, sel.SupplementID)
			continue
		}
		dose, inc := CalculateDosage(sel, rec, profile)
		if inc != nil {
			incomplete = append(incomplete, inc)
		}
		selected = append(selected, rec)
		recs = append(recs, dose)
	}
	if len(missing) > 0 {
		return nil, nil, &SupplementNotFoundError{IDs: missing}
	}

	alerts, risk := Aggregate(ScanInteractions(selected, profile), recs)
	return Compose(profile, recs, alerts, risk, stamp), incomplete, nil
}

// SupplementSafety assesses one supplement on its own against profile.
func (e *Engine) SupplementSafety(ctx context.Context, id string, profile models.UserProfile) (*models.SafetyProfile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalid("supplement_id", "must not be empty")
	}
	p, err := NormalizeProfile(profile)
	if err != nil {
		return nil, err
	}
	records, err := e.resolve(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	rec, ok := records[id]
	if !ok {
		return nil, &SupplementNotFoundError{IDs: []string{id}}
	}
	sp := AssessSupplement(rec, p)
	return &sp, nil
}

// AssessSupplement reports the alerts a single supplement raises for p.
func AssessSupplement(rec models.CatalogRecord, p models.NormalizedProfile) models.SafetyProfile {
	candidates := ScanInteractions([]models.CatalogRecord{rec}, p)
	var recs []models.DosageRecommendation
	if blockingMatch(p, rec) != nil {
		recs = append(recs, models.DosageRecommendation{SupplementID: rec.ID, Contraindicated: true})
	}
	alerts, risk := Aggregate(candidates, recs)

	rendered := make([]models.SafetyAlert, len(alerts))
	for i, a := range alerts {
		rendered[i] = renderAlert(a)
	}

	sp := models.SafetyProfile{
		SupplementID: rec.ID,
		IsSafe:       risk == models.RiskLow,
		RiskLevel:    risk,
		Alerts:       rendered,
	}
	concerns := 0
	for _, a := range rendered {
		if a.Severity.Weight() >= 2 {
			concerns++
		}
	}
	switch {
	case !sp.IsSafe:
		sp.Summary, sp.PolishSummary = i18n.Pair("safety.unsafe", concerns)
	case len(rendered) > 0:
		sp.Summary, sp.PolishSummary = i18n.Pair("safety.notes", len(rendered))
	default:
		sp.Summary, sp.PolishSummary = i18n.Pair("safety.safe")
	}
	return sp
}

// Records resolves ids through the catalog, reporting unknown ids as a
// *SupplementNotFoundError.
func (e *Engine) Records(ctx context.Context, ids []string) (map[string]models.CatalogRecord, error) {
	return e.resolve(ctx, ids)
}

func (e *Engine) resolve(ctx context.Context, ids []string) (map[string]models.CatalogRecord, error) {
	records, err := e.catalog.GetRecords(ctx, ids)
	if err != nil {
		var nf *catalog.NotFoundError
		if errors.As(err, &nf) {
			return nil, &SupplementNotFoundError{IDs: nf.IDs}
		}
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}
	return records, nil
}

func selectionIDs(selections []models.SupplementSelection) []string {
	ids := make([]string, len(selections))
	for i, sel := range selections {
		ids[i] = strings.TrimSpace(sel.SupplementID)
	}
	return ids
}
