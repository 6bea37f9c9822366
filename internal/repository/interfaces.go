package repository

import "sortserver/internal/models"

// ClassificationRepository defines the interface for classification history
// operations.
type ClassificationRepository interface {
	// Create operations
	Insert(rec *models.ClassificationRecord) error

	// Read operations
	GetRecent(limit int) ([]models.ClassificationRecord, error)
	GetTotalCount() (int, error)
	CountByMaterial() (map[string]int, error)

	// Delete operations
	DeleteAll() error
}
