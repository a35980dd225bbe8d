package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"eventieBot/internal/config"
	"eventieBot/internal/store"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Repository persists the event-store snapshot in Postgres. The whole
// snapshot lives in a single row and every save replaces it wholesale,
// same contract as the file backend.
type Repository struct {
	logger *slog.Logger
	DB     *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS event_snapshots (
	id         INT PRIMARY KEY,
	payload    BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

func NewRepository(logger *slog.Logger, cfg *config.Config) (*Repository, error) {
	op := "repositories.NewRepository()"
	log := logger.With(slog.String("op", op))

	dbCfg := cfg.StoreConfig.DB
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbCfg.Host, dbCfg.Port, dbCfg.User, dbCfg.Password, dbCfg.Name)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("connected to postgres snapshot backend",
		slog.String("host", dbCfg.Host),
		slog.String("dbname", dbCfg.Name),
	)

	return &Repository{
		logger: logger,
		DB:     db,
	}, nil
}

// Load returns the stored snapshot bytes.
func (r *Repository) Load(ctx context.Context) ([]byte, error) {
	op := "repositories.Load()"

	var payload []byte
	query := `SELECT payload FROM event_snapshots WHERE id = 1 LIMIT 1`

	err := r.DB.GetContext(ctx, &payload, query)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrNoSnapshot
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return payload, nil
}

// Save replaces the snapshot row atomically.
func (r *Repository) Save(ctx context.Context, data []byte) error {
	op := "repositories.Save()"

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO event_snapshots (id, payload, updated_at)
	          VALUES (1, $1, CURRENT_TIMESTAMP)
	          ON CONFLICT (id) DO UPDATE SET payload = $1, updated_at = CURRENT_TIMESTAMP`

	if _, err := tx.ExecContext(ctx, query, data); err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Shutdown closes the database connection.
func (r *Repository) Shutdown(ctx context.Context) error {
	op := "repositories.Shutdown()"

	if err := r.DB.Close(); err != nil {
		return fmt.Errorf("%s: force exit: %w", op, err)
	}
	return nil
}
