package audit

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/crmforge/orderbench/internal/database"
	"github.com/crmforge/orderbench/internal/models"
	"github.com/crmforge/orderbench/internal/workbench"
)

// Recorder writes the local generation audit trail
type Recorder struct {
	db *database.DB
}

// NewRecorder creates a recorder backed by the local database
func NewRecorder(db *database.DB) *Recorder {
	return &Recorder{db: db}
}

// RecordGeneration implements workbench.Recorder
func (r *Recorder) RecordGeneration(ctx context.Context, rec workbench.GenerationRecord) error {
	opts, err := json.Marshal(rec.Options)
	if err != nil {
		return err
	}
	record := models.BarcodeRecord{
		RowID:   rec.RowID,
		OrderID: rec.OrderID,
		Tier:    string(rec.Tier),
		Content: rec.Content,
		Image:   rec.Image,
		Options: datatypes.JSON(opts),
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

// Recent returns the latest generation records, newest first
func (r *Recorder) Recent(ctx context.Context, limit int) ([]models.BarcodeRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []models.BarcodeRecord
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}
