// internal/server/service.go
package server

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mcp-dosage-safety/internal/engine"
	"mcp-dosage-safety/internal/models"
)

const (
	maxBatchRequests    = 20
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// BatchEntry holds the outcome of one request in a batch: a result or an error.
type BatchEntry struct {
	Index  int                       `json:"index"`
	Result *models.CalculationResult `json:"result,omitempty"`
	Error  *ErrorBody                `json:"error,omitempty"`
}

type ValidationReport struct {
	Valid  bool                      `json:"valid"`
	Errors []*engine.ValidationError `json:"errors"`
}

type SupplementList struct {
	IDs         []string               `json:"ids,omitempty"`
	Supplements []models.CatalogRecord `json:"supplements,omitempty"`
}

// calculate runs one calculation, records it and announces high risk results.
// Recording and publishing failures are logged, never returned.
func (s *DosageServer) calculate(ctx context.Context, req models.CalculationRequest) (*models.CalculationResult, error) {
	result, err := s.engine.Calculate(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.history.SaveCalculation(ctx, result); err != nil {
		s.logger.Error("failed to store calculation", zap.String("calculation_id", result.CalculationID), zap.Error(err))
	}
	if err := s.publisher.Publish(ctx, result); err != nil {
		s.logger.Warn("failed to publish calculation", zap.String("calculation_id", result.CalculationID), zap.Error(err))
	}
	return result, nil
}

// calculateBatch computes independent requests in parallel. Entries keep the
// order of reqs.
func (s *DosageServer) calculateBatch(ctx context.Context, reqs []models.CalculationRequest) ([]BatchEntry, error) {
	if len(reqs) == 0 || len(reqs) > maxBatchRequests {
		return nil, badRequest("requests must contain 1 to %d items, got %d", maxBatchRequests, len(reqs))
	}

	entries := make([]BatchEntry, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchConcurrency)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			entries[i].Index = i
			result, err := s.calculate(gctx, req)
			if err != nil {
				_, body := s.errorBody(err)
				entries[i].Error = &body
				return nil
			}
			entries[i].Result = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *DosageServer) validateInput(req models.CalculationRequest) ValidationReport {
	errs := engine.ValidateRequestAll(req)
	if errs == nil {
		errs = []*engine.ValidationError{}
	}
	return ValidationReport{Valid: len(errs) == 0, Errors: errs}
}

func (s *DosageServer) supplementSafety(ctx context.Context, id string, profile models.UserProfile) (*models.SafetyProfile, error) {
	return s.engine.SupplementSafety(ctx, id, profile)
}

// supplements returns the records for ids, or every known id when ids is empty.
func (s *DosageServer) supplements(ctx context.Context, ids []string) (*SupplementList, error) {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			cleaned = append(cleaned, id)
		}
	}

	if len(cleaned) == 0 {
		lister, ok := s.catalog.(idLister)
		if !ok {
			return nil, badRequest("ids are required for this catalog")
		}
		all, err := lister.ListSupplementIDs(ctx)
		if err != nil {
			return nil, err
		}
		return &SupplementList{IDs: all}, nil
	}

	records, err := s.engine.Records(ctx, cleaned)
	if err != nil {
		return nil, err
	}
	list := &SupplementList{Supplements: make([]models.CatalogRecord, 0, len(cleaned))}
	seen := make(map[string]bool, len(cleaned))
	for _, id := range cleaned {
		if seen[id] {
			continue
		}
		seen[id] = true
		list.Supplements = append(list.Supplements, records[id])
	}
	return list, nil
}

func (s *DosageServer) calculations(ctx context.Context, limit, offset int) ([]*models.CalculationResult, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		return nil, badRequest("offset must not be negative")
	}
	return s.history.ListCalculations(ctx, limit, offset)
}

func (s *DosageServer) calculation(ctx context.Context, id string) (*models.CalculationResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, badRequest("calculation id is required")
	}
	return s.history.GetCalculation(ctx, id)
}

// errorBody classifies err and logs it when it is not the caller's fault.
func (s *DosageServer) errorBody(err error) (int, ErrorBody) {
	status, body := classify(err)
	if status >= 500 {
		s.logger.Error("request failed", zap.Error(err))
	}
	return status, body
}
