package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/taskconnect/marketplace-api/internal/api/handler"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
	"github.com/taskconnect/marketplace-api/internal/infrastructure/config"
	"github.com/taskconnect/marketplace-api/internal/infrastructure/db/gormstore"
	"github.com/taskconnect/marketplace-api/internal/infrastructure/db/mongo"
)

// Storage is the repository set selected by STORAGE_DRIVER.
type Storage struct {
	Identities ports.IdentityRepository
	Approvals  ports.ApprovalRepository
	Bookings   ports.BookingRepository
	Reports    ports.ReportRepository

	// Ping backs the readiness probe.
	Ping  handler.PingFunc
	Name  string
	close func(ctx context.Context) error
}

// Close releases the underlying connection pool.
func (s *Storage) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStorage connects to the configured store and prepares its schema.
func OpenStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMongo:
		return openMongo(ctx, cfg, log)
	case config.StoragePostgres, config.StorageSQLite:
		return openSQL(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Storage, error) {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	return &Storage{
		Identities: mongo.NewIdentityRepository(db),
		Approvals:  mongo.NewApprovalRepository(db),
		Bookings:   mongo.NewBookingRepository(db),
		Reports:    mongo.NewReportRepository(db),
		Name:       "mongodb",
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		close: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	}, nil
}

func openSQL(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Storage, error) {
	db, err := gormstore.Open(ctx, gormstore.Config{
		Driver:       cfg.Storage.Driver,
		DSN:          cfg.SQL.DSN,
		MaxOpenConns: 25,
		MaxIdleConns: 5,
	})
	if err != nil {
		return nil, err
	}
	if err := gormstore.Migrate(db); err != nil {
		return nil, errors.Join(fmt.Errorf("migrate: %w", err), closeSQL(db))
	}
	log.Info().Str("driver", cfg.Storage.Driver).Msg("sql database connected")

	return &Storage{
		Identities: gormstore.NewIdentityRepository(db),
		Approvals:  gormstore.NewApprovalRepository(db),
		Bookings:   gormstore.NewBookingRepository(db),
		Reports:    gormstore.NewReportRepository(db),
		Name:       cfg.Storage.Driver,
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		close: func(context.Context) error {
			return closeSQL(db)
		},
	}, nil
}

func closeSQL(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
