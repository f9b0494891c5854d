package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BarcodeRecord is one confirmed generation in the local audit trail.
// The canonical copy of the image lives on the platform; this row lets
// operators answer "who generated what, when, with which settings"
// without a round trip.
type BarcodeRecord struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	RowID   string `gorm:"index;not null" json:"rowId"`
	OrderID string `gorm:"index" json:"orderId"`
	Tier    string `gorm:"default:'line-item'" json:"tier"`

	// Content is the exact string encoded into the image
	Content string `gorm:"not null" json:"content"`

	// Image is the persisted data-URL payload
	Image string `gorm:"type:text" json:"image"`

	// Options captures the render settings (symbology, dimensions)
	Options datatypes.JSON `json:"options"`

	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for BarcodeRecord model
func (BarcodeRecord) TableName() string {
	return "barcode_records"
}

// BeforeCreate assigns the record id
func (r *BarcodeRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
