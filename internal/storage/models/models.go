// Package models declares the persistence schema for parse results.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// ParseRecord persists one parse submission and its structured result.
// Record and Comparison hold the JSON-serialized engine output, so the
// schema never needs migrating when extraction fields evolve.
type ParseRecord struct {
	ID             uint           `gorm:"primaryKey" json:"-"`
	SubmissionUUID string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"submission_uuid"`
	FileName       string         `gorm:"type:varchar(255)" json:"file_name"`
	SourceFormat   string         `gorm:"type:varchar(16)" json:"source_format"`
	Method         string         `gorm:"type:varchar(32)" json:"method"`
	ParsingMethod  string         `gorm:"type:varchar(32)" json:"parsing_method"`
	TextLength     int            `json:"text_length"`
	ArchiveObject  string         `gorm:"type:varchar(512)" json:"archive_object,omitempty"`
	Record         datatypes.JSON `gorm:"type:json" json:"record"`
	Comparison     datatypes.JSON `gorm:"type:json" json:"comparison,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TableName fixes the table name independent of gorm's pluralization.
func (ParseRecord) TableName() string {
	return "parse_records"
}
