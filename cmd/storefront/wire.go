package main

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Skotchmaster/souq/internal/events"
	"github.com/Skotchmaster/souq/internal/repo"
	"github.com/Skotchmaster/souq/internal/search"
	"github.com/Skotchmaster/souq/internal/service"
	"github.com/Skotchmaster/souq/pkg/config"
	pkgdb "github.com/Skotchmaster/souq/pkg/db"
)

type components struct {
	Store  repo.Store
	Events events.Publisher
	Index  service.ProductIndex
	db     *gorm.DB
	search *search.Client
}

func (c *components) Ready(ctx context.Context) error {
	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if c.search != nil {
		if err := c.search.Ping(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *components) Close() {
	if c.Events != nil {
		if err := c.Events.Close(); err != nil {
			slog.Warn("close_publisher_failed", "error", err)
		}
	}
	if c.db != nil {
		if err := pkgdb.Close(c.db); err != nil {
			slog.Warn("close_db_failed", "error", err)
		}
	}
}

func openStore(ctx context.Context, cfg config.Config) (repo.Store, *gorm.DB, error) {
	var driver, dsn string
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return repo.NewMemRepo(), nil, nil
	case config.BackendPostgres:
		driver, dsn = cfg.DBDriver, cfg.DatabaseURL
	case config.BackendSQLite:
		driver, dsn = pkgdb.DriverSQLite, cfg.SQLitePath
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	db, err := pkgdb.Open(ctx, driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db open: %w", err)
	}
	if err := repo.Migrate(db); err != nil {
		_ = pkgdb.Close(db)
		return nil, nil, fmt.Errorf("db migrate: %w", err)
	}
	return &repo.GormRepo{DB: db}, db, nil
}

func wire(ctx context.Context, cfg config.Config, logger *slog.Logger) (*components, error) {
	store, db, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c := &components{Store: store, Events: events.NopPublisher{}, db: db}

	if len(cfg.KafkaBrokers) > 0 {
		pub, err := events.NewKafkaPublisher(cfg.KafkaBrokers)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Events = pub
		logger.Info("kafka publisher enabled", "brokers", cfg.KafkaBrokers)
	}

	if cfg.ESURL != "" {
		sc, err := search.NewClient(search.Options{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			c.Close()
			return nil, err
		}
		c.search = sc
		c.Index = sc
		logger.Info("elasticsearch search enabled", "index", cfg.ESIndex)
	}

	if cfg.SeedSample {
		n, err := repo.Seed(ctx, store)
		if err != nil {
			c.Close()
			return nil, err
		}
		if n > 0 {
			logger.Info("seeded sample products", "count", n)
			if c.search != nil {
				seedIndex(ctx, store, c.search, logger)
			}
		}
	}
	return c, nil
}

func seedIndex(ctx context.Context, store repo.Store, sc *search.Client, logger *slog.Logger) {
	products, err := store.ListProducts(ctx)
	if err != nil {
		logger.Warn("seed_index_failed", "error", err)
		return
	}
	for _, p := range products {
		if err := sc.IndexProduct(ctx, p); err != nil {
			logger.Warn("seed_index_failed", "product_id", p.ID, "error", err)
			return
		}
	}
}
