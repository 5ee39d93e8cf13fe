// internal/catalog/catalog.go
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"mcp-dosage-safety/internal/models"
)

// NotFoundError lists requested ids the catalog has no record for.
type NotFoundError struct {
	IDs []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("catalog records not found: %s", strings.Join(e.IDs, ", "))
}

// Memory is an immutable, map-backed catalog. Safe for concurrent use.
type Memory struct {
	records map[string]models.CatalogRecord
}

func NewMemory(records []models.CatalogRecord) *Memory {
	m := &Memory{records: make(map[string]models.CatalogRecord, len(records))}
	for _, r := range records {
		m.records[r.ID] = r
	}
	return m
}

// GetRecords returns a record for every id or a *NotFoundError naming the missing ones.
func (m *Memory) GetRecords(_ context.Context, ids []string) (map[string]models.CatalogRecord, error) {
	out := make(map[string]models.CatalogRecord, len(ids))
	var missing []string
	for _, id := range ids {
		r, ok := m.records[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out[id] = r
	}
	if len(missing) > 0 {
		return nil, &NotFoundError{IDs: missing}
	}
	return out, nil
}

// ListSupplementIDs returns every known id in sorted order.
func (m *Memory) ListSupplementIDs(context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
