// internal/server/tools.go
package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"go.uber.org/zap"

	"mcp-dosage-safety/internal/models"
)

type toolHandler func(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error)

type CalculateBatchParams struct {
	Requests []models.CalculationRequest `json:"requests" description:"Independent calculation requests (1-20)"`
}

type SupplementSafetyParams struct {
	SupplementID string             `json:"supplement_id" description:"Catalog id of the supplement"`
	UserProfile  models.UserProfile `json:"user_profile" description:"Profile to assess the supplement against"`
}

type GetSupplementsParams struct {
	IDs []string `json:"ids,omitempty" description:"Supplement ids; all ids are listed when empty"`
}

type GetCalculationsParams struct {
	ID     string `json:"id,omitempty" description:"Return a single stored calculation"`
	Limit  int    `json:"limit,omitempty" description:"Maximum number of calculations to return"`
	Offset int    `json:"offset,omitempty" description:"Number of calculations to skip"`
}

// extractParams converts the loosely typed tool arguments into target.
func extractParams(req *protocol.CallToolRequest, target any) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return badRequest("failed to marshal arguments: %v", err)
	}
	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return badRequest("invalid parameters: %v", err)
	}
	return nil
}

func (s *DosageServer) handleCalculateDosage(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params models.CalculationRequest
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	result, err := s.calculate(ctx, params)
	if err != nil {
		return nil, err
	}
	return createJSONResponse(result)
}

func (s *DosageServer) handleCalculateBatch(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params CalculateBatchParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	entries, err := s.calculateBatch(ctx, params.Requests)
	if err != nil {
		return nil, err
	}
	return createJSONResponse(map[string]any{"results": entries})
}

func (s *DosageServer) handleValidateInput(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params models.CalculationRequest
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	return createJSONResponse(s.validateInput(params))
}

func (s *DosageServer) handleSupplementSafetyTool(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params SupplementSafetyParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	profile, err := s.supplementSafety(ctx, params.SupplementID, params.UserProfile)
	if err != nil {
		return nil, err
	}
	return createJSONResponse(profile)
}

func (s *DosageServer) handleGetSupplements(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetSupplementsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	list, err := s.supplements(ctx, params.IDs)
	if err != nil {
		return nil, err
	}
	return createJSONResponse(list)
}

func (s *DosageServer) handleGetCalculations(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetCalculationsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.ID != "" {
		result, err := s.calculation(ctx, params.ID)
		if err != nil {
			return nil, err
		}
		return createJSONResponse(result)
	}
	results, err := s.calculations(ctx, params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	return createJSONResponse(results)
}

func (s *DosageServer) registerTools() {
	s.tools = map[string]toolHandler{
		"calculate_dosage":      s.handleCalculateDosage,
		"calculate_batch":       s.handleCalculateBatch,
		"validate_input":        s.handleValidateInput,
		"get_supplement_safety": s.handleSupplementSafetyTool,
		"get_supplements":       s.handleGetSupplements,
		"get_calculations":      s.handleGetCalculations,
	}
	for name := range s.tools {
		s.logger.Debug("registered tool", zap.String("tool", name))
	}
}

func createJSONResponse(data any) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
