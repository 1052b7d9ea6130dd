// Package storage bundles the optional persistence components: a redis
// parse cache, a mysql record store, and a minio archive for original
// files. Every component is optional; a nil component means the concern is
// disabled and callers skip it.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"resume-parser-go/internal/config"
)

// Storage aggregates the enabled persistence components.
type Storage struct {
	Cache   *ParseCache
	DB      *MySQL
	Archive *Archive
}

// New builds the components the configuration enables. A disabled
// component stays nil; a component that is enabled but unreachable fails
// construction, since running with silently missing persistence is worse
// than failing fast.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Storage, error) {
	s := &Storage{}

	if cfg.Redis.Enabled {
		cache, err := NewParseCache(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CacheTTL, logger)
		if err != nil {
			return nil, fmt.Errorf("initializing parse cache: %w", err)
		}
		s.Cache = cache
	}

	if cfg.MySQL.Enabled {
		db, err := NewMySQL(cfg.MySQL.DSN, logger)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("initializing mysql store: %w", err)
		}
		s.DB = db
	}

	if cfg.MinIO.Enabled {
		archive, err := NewArchive(ctx, cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL, logger)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("initializing archive: %w", err)
		}
		s.Archive = archive
	}

	return s, nil
}

// Close releases every open component.
func (s *Storage) Close() {
	if s.Cache != nil {
		_ = s.Cache.Close()
	}
	if s.DB != nil {
		_ = s.DB.Close()
	}
}
