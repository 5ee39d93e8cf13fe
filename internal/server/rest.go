// internal/server/rest.go
package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"mcp-dosage-safety/internal/models"
)

func (s *DosageServer) handleCreateCalculation(w http.ResponseWriter, r *http.Request) {
	var req models.CalculationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.calculate(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *DosageServer) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	var params CalculateBatchParams
	if err := decodeJSON(r, &params); err != nil {
		s.writeError(w, err)
		return
	}
	entries, err := s.calculateBatch(r.Context(), params.Requests)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": entries})
}

func (s *DosageServer) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req models.CalculationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.validateInput(req))
}

func (s *DosageServer) handleListCalculations(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntParam(r, "limit", defaultHistoryLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	offset, err := parseIntParam(r, "offset", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	results, err := s.calculations(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": results})
}

func (s *DosageServer) handleGetCalculation(w http.ResponseWriter, r *http.Request) {
	result, err := s.calculation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *DosageServer) handleListSupplements(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if raw := r.URL.Query().Get("ids"); raw != "" {
		ids = strings.Split(raw, ",")
	}
	list, err := s.supplements(r.Context(), ids)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *DosageServer) handleGetSupplement(w http.ResponseWriter, r *http.Request) {
	list, err := s.supplements(r.Context(), []string{chi.URLParam(r, "id")})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(list.Supplements) == 0 {
		s.writeError(w, badRequest("supplement id is required"))
		return
	}
	writeJSON(w, http.StatusOK, list.Supplements[0])
}

func (s *DosageServer) handleSupplementSafety(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := decodeJSON(r, &profile); err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.supplementSafety(r.Context(), chi.URLParam(r, "id"), profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func parseIntParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("%s must be an integer", name)
	}
	return n, nil
}
