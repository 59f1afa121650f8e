package container

import (
	"context"
	"fmt"

	"gotitanic/adapters/memory"
	"gotitanic/adapters/postgres"
	"gotitanic/app"
	"gotitanic/internal"
	"gotitanic/internal/analysis"
	"gotitanic/internal/config"
	"gotitanic/internal/errors"
	"gotitanic/internal/metrics"
	"gotitanic/internal/migration"
	"gotitanic/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure; DB is nil in in-memory mode
	DB      *sqlx.DB
	Metrics *metrics.Metrics

	// Repositories (data access layer)
	PassengerRepo ports.PassengerRepository
	SnapshotRepo  ports.SnapshotRepository

	// Analysis components
	Builder         *analysis.Builder
	AnalysisService *app.AnalysisService

	logger *internal.Logger
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return &Container{
		Config:  cfg,
		Metrics: metrics.New(),
		logger:  internal.DefaultLogger.WithComponent("container"),
	}, nil
}

// Init connects storage and wires the analysis service. Without a database
// URL the repositories live in memory and are lost on exit.
func (c *Container) Init(ctx context.Context) error {
	if c.Config.Database.InMemory() {
		c.logger.Warn("DATABASE_URL not set, using in-memory storage")
		c.PassengerRepo = memory.NewPassengerRepository()
		c.SnapshotRepo = memory.NewSnapshotRepository()
	} else {
		db, err := OpenDatabase(ctx, c.Config.Database.URL)
		if err != nil {
			return err
		}
		if err := c.InitWithDatabase(ctx, db); err != nil {
			_ = db.Close()
			return err
		}
	}

	return c.initAnalysis()
}

// InitWithDatabase runs migrations and binds the PostgreSQL repositories
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		return errors.Wrap(err, "database migration failed")
	}
	c.logger.Info("migrations applied (schema %s)", migrator.Version())

	c.DB = db
	c.PassengerRepo = postgres.NewPassengerRepository(db)
	c.SnapshotRepo = postgres.NewSnapshotRepository(db)
	return nil
}

func (c *Container) initAnalysis() error {
	builder, err := analysis.NewBuilder(analysis.TabulatorConfig{
		AgeBinning:  c.Config.Analysis.AgeBinning(),
		MinKnownAge: c.Config.Analysis.MinKnownAge,
		Workers:     c.Config.Analysis.Workers,
	})
	if err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}

	c.Builder = builder
	c.AnalysisService = app.NewAnalysisService(c.PassengerRepo, c.SnapshotRepo, builder, c.Metrics)
	return nil
}

// OpenDatabase connects to PostgreSQL and verifies the connection
func OpenDatabase(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.DatabaseError("failed to ping database", err)
	}
	return db, nil
}

// Ready reports whether the service can answer queries: the database is
// reachable and a snapshot is published
func (c *Container) Ready(ctx context.Context) error {
	if c.DB != nil {
		if err := c.DB.PingContext(ctx); err != nil {
			return errors.DatabaseError("database unreachable", err)
		}
	}
	if c.AnalysisService == nil {
		return fmt.Errorf("container not initialized")
	}
	_, err := c.AnalysisService.Snapshot(ctx)
	return err
}

// Shutdown releases resources held by the container
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
