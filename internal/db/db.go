package db

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront/internal/config"
	"storefront/internal/models"
	console "storefront/internal/utils/logger"
)

var (
	DB         *gorm.DB
	once       sync.Once
	connectErr error
	log        = console.New("DB")
)

// Connect opens the process-wide connection the first time it is called and returns the
// same handle (or the same error) on every later call.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	once.Do(func() {
		DB, connectErr = connect(cfg)
	})
	return DB, connectErr
}

func connect(cfg *config.Config) (*gorm.DB, error) {
	log.Info("Connecting to database %s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	const maxRetries = 5
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		gdb, err := Open(postgres.Open(cfg.Database.DSN()), cfg.Database.LogQueries)
		if err == nil {
			log.Success("Connected to database")

			sqlDB, err := gdb.DB()
			if err != nil {
				return nil, log.Error("Failed to get underlying *sql.DB instance", err)
			}
			sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
			sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
			sqlDB.SetConnMaxLifetime(time.Hour)
			sqlDB.SetConnMaxIdleTime(30 * time.Minute)

			if err := Migrate(gdb); err != nil {
				return nil, log.Error("Failed to run migrations", err)
			}
			log.Success("Migrations completed")
			return gdb, nil
		}
		lastErr = err
		log.Warn("Failed to connect to database (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(5 * time.Second)
	}
	return nil, log.Error("failed to connect to database after %d attempts", lastErr, maxRetries)
}

// Open builds a gorm handle over any dialector with the project's settings.
func Open(dialector gorm.Dialector, logQueries bool) (*gorm.DB, error) {
	level := logger.Warn
	if logQueries {
		level = logger.Info
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger:                                   logger.Default.LogMode(level),
		DisableForeignKeyConstraintWhenMigrating: true,
		AllowGlobalUpdate:                        false,
		TranslateError:                           true,
	})
}

// Migrate creates or updates every table inside one transaction.
func Migrate(gdb *gorm.DB) error {
	log.Info("Running migrations...")
	return gdb.Transaction(func(tx *gorm.DB) error {
		return tx.AutoMigrate(models.All()...)
	})
}

// RunInTx runs fn in a transaction: commit on nil, rollback on error or panic.
// fn must use tx for every statement that belongs to the unit of work.
func RunInTx(ctx context.Context, gdb *gorm.DB, fn func(tx *gorm.DB) error) error {
	err := gdb.WithContext(ctx).Transaction(fn)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("Transaction rolled back: %v", err)
	}
	return err
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
