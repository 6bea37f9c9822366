package sqlite

import (
	"fmt"

	"sortserver/internal/models"
)

// ClassificationRepository implements repository.ClassificationRepository
// for SQLite.
type ClassificationRepository struct {
	db *DB
}

// NewClassificationRepository creates a new SQLite classification repository.
func NewClassificationRepository(db *DB) *ClassificationRepository {
	return &ClassificationRepository{db: db}
}

// Insert adds a new classification record to the database.
func (r *ClassificationRepository) Insert(rec *models.ClassificationRecord) error {
	r.db.Lock()
	defer r.db.Unlock()

	_, err := r.db.Conn().Exec(`
		INSERT INTO classifications (id, material_type, confidence, action, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.MaterialType, rec.Confidence, rec.Action, rec.Source, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert classification: %w", err)
	}

	return nil
}

// GetRecent retrieves the newest classification records, newest first.
func (r *ClassificationRepository) GetRecent(limit int) ([]models.ClassificationRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Conn().Query(`
		SELECT id, material_type, confidence, action, source, created_at
		FROM classifications ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query classifications: %w", err)
	}
	defer rows.Close()

	var records []models.ClassificationRecord
	for rows.Next() {
		var rec models.ClassificationRecord
		if err := rows.Scan(&rec.ID, &rec.MaterialType, &rec.Confidence, &rec.Action, &rec.Source, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan classification: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetTotalCount returns the number of stored classification records.
func (r *ClassificationRepository) GetTotalCount() (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var count int
	err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM classifications`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count classifications: %w", err)
	}
	return count, nil
}

// CountByMaterial returns per-material record counts.
func (r *ClassificationRepository) CountByMaterial() (map[string]int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT material_type, COUNT(*) FROM classifications GROUP BY material_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query material counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var material string
		var count int
		if err := rows.Scan(&material, &count); err != nil {
			return nil, fmt.Errorf("failed to scan material count: %w", err)
		}
		counts[material] = count
	}

	return counts, rows.Err()
}

// DeleteAll removes every classification record.
func (r *ClassificationRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM classifications`); err != nil {
		return fmt.Errorf("failed to delete classifications: %w", err)
	}
	return nil
}
