package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/propintel/internal/domain/geocode"
	"github.com/FACorreiaa/propintel/internal/domain/ingest"
	propertyrepo "github.com/FACorreiaa/propintel/internal/domain/property/repository"
	propertyservice "github.com/FACorreiaa/propintel/internal/domain/property/service"
	"github.com/FACorreiaa/propintel/internal/domain/records"
	"github.com/FACorreiaa/propintel/pkg/config"
	"github.com/FACorreiaa/propintel/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	Geocoder        geocode.Client
	PropertyRepo    propertyrepo.PropertyRepository
	PropertyService *propertyservice.Service
	RecordStore     *records.PostgresRecordStore
	Processor       *ingest.Processor
	Importer        *ingest.Importer
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := deps.initServices(ctx); err != nil {
		deps.DB.Close()
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if d.Config.Database.AutoMigrate {
		if err := d.DB.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	d.Logger.Info("database connected")
	return nil
}

// initServices wires the geocoder, property resolution and record pipeline
func (d *Dependencies) initServices(ctx context.Context) error {
	d.Geocoder = geocode.NewNominatimClient(
		d.Config.Geocoder.BaseURL,
		d.Config.Geocoder.UserAgent,
		d.Config.Geocoder.Timeout,
	)

	d.PropertyRepo = propertyrepo.NewPostgresPropertyRepository(d.DB.Pool)
	d.PropertyService = propertyservice.NewService(d.PropertyRepo, d.Geocoder, propertyservice.Config{
		DefaultCountry: d.Config.Import.DefaultCountry,
		MaxAttempts:    d.Config.Geocoder.MaxAttempts,
		RetryDelay:     d.Config.Geocoder.RetryDelay,
	}, d.Logger)

	// Schema capabilities are probed once; every record write for the run
	// reuses the result.
	caps, err := records.DetectCapabilities(ctx, d.DB.Pool)
	if err != nil {
		return fmt.Errorf("failed to detect schema capabilities: %w", err)
	}
	d.RecordStore = records.NewPostgresRecordStore(d.DB.Pool, caps, d.Logger)

	d.Processor = ingest.NewProcessor(d.PropertyService, d.RecordStore, ingest.Config{
		WorkColumnMax: d.Config.Import.WorkColumnMax,
	}, d.Logger)
	d.Importer = ingest.NewImporter(d.Processor, d.Logger).WithLocker(d.DB)

	d.Logger.Info("services initialized")
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
