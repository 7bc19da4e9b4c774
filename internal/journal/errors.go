package journal

import "github.com/veloroad/ridediag/internal/errors"

const (
	// Configuration errors
	ErrInvalidConfig = errors.ErrorCode("journal_invalid_config")
	ErrInvalidDBPath = errors.ErrorCode("journal_invalid_db_path")

	// Recording errors
	ErrInvalidEvent = errors.ErrorCode("journal_invalid_event")
	ErrRecordFailed = errors.ErrorCode("journal_record_failed")

	// Storage errors
	ErrStorageInit   = errors.ErrorCode("journal_storage_init_failed")
	ErrStorageAccess = errors.ErrorCode("journal_storage_access_failed")
	ErrStorageClose  = errors.ErrorCode("journal_storage_close_failed")

	// Operation errors
	ErrOperationTimeout = errors.ErrorCode("journal_operation_timeout")
	ErrServiceShutdown  = errors.ErrorCode("journal_service_shutdown_failed")
)
