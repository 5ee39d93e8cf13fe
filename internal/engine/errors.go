// internal/engine/errors.go
package engine

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed profile or selection. Fatal.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// SupplementNotFoundError reports ids the caller asked for that the catalog
// does not know. Fatal.
type SupplementNotFoundError struct {
	IDs []string `json:"ids"`
}

func (e *SupplementNotFoundError) Error() string {
	return fmt.Sprintf("supplement not found: %s", strings.Join(e.IDs, ", "))
}

// CatalogDataIncompleteError describes a catalog record the engine could not
// fully use. It never aborts a calculation; it only surfaces as an adjustment
// note with zero confidence on the affected recommendation.
type CatalogDataIncompleteError struct {
	SupplementID string
	Field        string
}

func (e *CatalogDataIncompleteError) Error() string {
	return fmt.Sprintf("catalog record %s incomplete: %s", e.SupplementID, e.Field)
}
