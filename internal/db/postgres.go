package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jayjaytrn/storefront/config"
	_ "github.com/jayjaytrn/storefront/internal/db/migrations"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type Manager struct {
	Db *sql.DB
	// EventsTopic is written into every outbox row.
	EventsTopic string
}

func NewManager(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*Manager, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = migrate(ctx, db, logger); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{
		Db:          db,
		EventsTopic: cfg.OrderEventsTopic,
	}, nil
}

func migrate(ctx context.Context, db *sql.DB, logger *zap.SugaredLogger) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, nil)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, r := range results {
		logger.Infow("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

func (m *Manager) Ping(ctx context.Context) error {
	return m.Db.PingContext(ctx)
}

func (m *Manager) Close() error {
	return m.Db.Close()
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
