package journal

import (
	"context"

	"github.com/veloroad/ridediag/internal/diag"
)

// Recorder persists closed diagnostic events for later review.
type Recorder interface {
	Record(ctx context.Context, sessionID string, event diag.DiagnosticEvent) error
	Close() error
}

// Repository defines the storage backend for the journal.
type Repository interface {
	Store(ctx context.Context, sessionID string, event diag.DiagnosticEvent) error
	Close() error
}
