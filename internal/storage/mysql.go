package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"resume-parser-go/internal/storage/models"
)

// ErrNotFound reports that no persisted record matches the query.
var ErrNotFound = errors.New("record not found")

// MySQL persists parse records through gorm.
type MySQL struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewMySQL opens the database and migrates the schema.
func NewMySQL(dsn string, logger zerolog.Logger) (*MySQL, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening mysql: %w", err)
	}
	if err := db.AutoMigrate(&models.ParseRecord{}); err != nil {
		return nil, fmt.Errorf("migrating parse_records: %w", err)
	}
	return &MySQL{db: db, logger: logger}, nil
}

// SaveParseRecord inserts a parse record.
func (m *MySQL) SaveParseRecord(ctx context.Context, rec *models.ParseRecord) error {
	if err := m.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("saving parse record %s: %w", rec.SubmissionUUID, err)
	}
	m.logger.Debug().Str("submission_uuid", rec.SubmissionUUID).Msg("saved parse record")
	return nil
}

// GetParseRecord fetches a parse record by submission UUID.
func (m *MySQL) GetParseRecord(ctx context.Context, submissionUUID string) (*models.ParseRecord, error) {
	var rec models.ParseRecord
	err := m.db.WithContext(ctx).
		Where("submission_uuid = ?", submissionUUID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading parse record %s: %w", submissionUUID, err)
	}
	return &rec, nil
}

// Close releases the underlying connection pool.
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
