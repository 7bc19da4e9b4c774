package journal

import (
	"context"

	"github.com/veloroad/ridediag/internal/diag"
	"github.com/veloroad/ridediag/internal/errors"
	"github.com/veloroad/ridediag/internal/logger"
)

type service struct {
	repo Repository
	cfg  Config
}

// No-op implementation used when the journal is disabled
type noopRecorder struct{}

func NewService(cfg Config) (Recorder, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		logger.Debug().Msg("Findings journal disabled, using no-op recorder")
		return &noopRecorder{}, nil
	}

	repo, err := NewRepository(cfg)
	if err != nil {
		logger.Debug().Err(err).Msg("Failed to create journal repository")
		return nil, err
	}

	logger.Debug().
		Str("db_path", cfg.DBPath).
		Msg("Findings journal initialized")

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) Record(ctx context.Context, sessionID string, event diag.DiagnosticEvent) error {
	errFactory := errors.New()

	if !event.Closed {
		return errFactory.New(ErrInvalidEvent)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Store(ctx, sessionID, event); err != nil {
			return errFactory.Wrap(ErrRecordFailed, err)
		}
	}

	return nil
}

func (s *service) Close() error {
	errFactory := errors.New()

	if err := s.repo.Close(); err != nil {
		return errFactory.Wrap(ErrServiceShutdown, err)
	}
	return nil
}

func (*noopRecorder) Record(_ context.Context, _ string, _ diag.DiagnosticEvent) error {
	return nil
}

func (*noopRecorder) Close() error {
	return nil
}
