// internal/storage/sqlite.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"mcp-dosage-safety/internal/catalog"
	"mcp-dosage-safety/internal/models"
)

var ErrNotFound = errors.New("not found")

// Fixed-width UTC timestamps sort correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStorage keeps the supplement catalog and the calculation history.
// Catalog rows hold the raw content record; normalization happens on read.
type SQLiteStorage struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	storage := &SQLiteStorage{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS supplements (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        record_json TEXT NOT NULL,
        updated_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS calculations (
        id TEXT PRIMARY KEY,
        created_at TEXT NOT NULL,
        overall_risk TEXT NOT NULL,
        aggregate_confidence REAL NOT NULL,
        result_json TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_calculations_created_at ON calculations(created_at);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// UpsertSupplements validates and stores raw records in one transaction.
func (s *SQLiteStorage) UpsertSupplements(ctx context.Context, raws []catalog.RawRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
        INSERT INTO supplements (id, name, record_json, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            record_json = excluded.record_json,
            updated_at = excluded.updated_at
    `
	updatedAt := s.now().Format(time.RFC3339)
	for _, raw := range raws {
		rec, err := catalog.Normalize(raw)
		if err != nil {
			return fmt.Errorf("invalid supplement %q: %w", raw.Name, err)
		}
		raw.ID = rec.ID
		data, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("failed to encode supplement %s: %w", rec.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query, rec.ID, rec.Name, string(data), updatedAt); err != nil {
			return fmt.Errorf("failed to upsert supplement %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// SeedFromYAML loads a seed file into the catalog table.
func (s *SQLiteStorage) SeedFromYAML(ctx context.Context, path string, logger *zap.Logger) error {
	raws, err := catalog.LoadYAML(path)
	if err != nil {
		return err
	}
	if err := s.UpsertSupplements(ctx, raws); err != nil {
		return err
	}
	logger.Info("catalog seeded", zap.String("path", path), zap.Int("supplements", len(raws)))
	return nil
}

// GetRecords implements the engine catalog lookup.
func (s *SQLiteStorage) GetRecords(ctx context.Context, ids []string) (map[string]models.CatalogRecord, error) {
	out := make(map[string]models.CatalogRecord, len(ids))
	var missing []string
	for _, id := range ids {
		if _, seen := out[id]; seen {
			continue
		}
		rec, err := s.GetSupplement(ctx, id)
		if errors.Is(err, ErrNotFound) {
			missing = append(missing, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out[id] = rec
	}
	if len(missing) > 0 {
		return nil, &catalog.NotFoundError{IDs: missing}
	}
	return out, nil
}

func (s *SQLiteStorage) GetSupplement(ctx context.Context, id string) (models.CatalogRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT record_json FROM supplements WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CatalogRecord{}, fmt.Errorf("supplement %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.CatalogRecord{}, fmt.Errorf("failed to query supplement: %w", err)
	}

	var raw catalog.RawRecord
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return models.CatalogRecord{}, fmt.Errorf("failed to decode supplement %s: %w", id, err)
	}
	return catalog.Normalize(raw)
}

func (s *SQLiteStorage) ListSupplementIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM supplements ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query supplements: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan supplement id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStorage) SaveCalculation(ctx context.Context, result *models.CalculationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode calculation: %w", err)
	}

	query := `
        INSERT INTO calculations (id, created_at, overall_risk, aggregate_confidence, result_json)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err = s.db.ExecContext(ctx, query,
		result.CalculationID, result.CalculationDate.UTC().Format(timeLayout),
		string(result.OverallRisk), result.AggregateConfidence, string(data))
	if err != nil {
		return fmt.Errorf("failed to insert calculation: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) GetCalculation(ctx context.Context, id string) (*models.CalculationResult, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT result_json FROM calculations WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("calculation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query calculation: %w", err)
	}
	return decodeCalculation(data)
}

// ListCalculations returns stored results, newest first.
func (s *SQLiteStorage) ListCalculations(ctx context.Context, limit, offset int) ([]*models.CalculationResult, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT result_json
        FROM calculations
        ORDER BY created_at DESC, id
        LIMIT ? OFFSET ?
    `
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query calculations: %w", err)
	}
	defer rows.Close()

	results := []*models.CalculationResult{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		result, err := decodeCalculation(data)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func decodeCalculation(data string) (*models.CalculationResult, error) {
	var result models.CalculationResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("failed to decode calculation: %w", err)
	}
	return &result, nil
}
