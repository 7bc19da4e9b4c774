package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/veloroad/ridediag/internal/diag"
	"github.com/veloroad/ridediag/internal/errors"
	"github.com/veloroad/ridediag/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewRepository(cfg Config) (Repository, error) {
	if cfg.DBPath == "" {
		return nil, errors.New().New(ErrInvalidDBPath)
	}

	logger.Debug().Msgf("Initializing findings journal at: %s", cfg.DBPath)

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errors.New().Wrap(ErrStorageInit, err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, errors.New().Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, errors.New().Wrap(ErrStorageInit, err)
	}

	return &sqliteRepository{
		db: db,
	}, nil
}

func (r *sqliteRepository) Store(ctx context.Context, sessionID string, event diag.DiagnosticEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	metrics, err := json.Marshal(event.Metrics)
	if err != nil {
		return errors.New().Wrap(ErrStorageAccess, err)
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO findings (
            session_id, recorded_at, kind, sensor, severity, title,
            start_sec, end_sec, duration_sec, metrics
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		sessionID,
		time.Now().Unix(),
		string(event.Kind),
		string(event.Sensor),
		string(event.Severity),
		event.Title,
		event.StartSec,
		event.EndSec,
		event.DurationSec,
		string(metrics),
	)
	if err != nil {
		return errors.New().Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}
