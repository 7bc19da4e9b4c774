package diag

import "github.com/veloroad/ridediag/internal/errors"

const (
	ErrInvalidThreshold = errors.ErrorCode("diag_invalid_threshold")
	ErrInvalidHold      = errors.ErrorCode("diag_invalid_hold")
)
