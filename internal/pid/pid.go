package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/veloroad/ridediag/internal/errors"
)

const pidFile = "ridediagd.pid"

// Write writes the current process ID to a PID file, refusing to start
// when another live instance already holds it.
func Write() error {
	errFactory := errors.New()
	path := filepath.Join(os.TempDir(), pidFile)

	if raw, err := os.ReadFile(path); err == nil {
		// PID file exists, check if the process is still running
		old, err := strconv.Atoi(strings.TrimSpace(string(raw)))
		if err == nil {
			if process, err := os.FindProcess(old); err == nil {
				if process.Signal(syscall.Signal(0)) == nil {
					return errFactory.WithData(errors.ErrAlreadyRunning, old)
				}
			}
		}
		// Stale file from a dead process, overwrite it.
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the PID file.
func Remove() error {
	errFactory := errors.New()
	path := filepath.Join(os.TempDir(), pidFile)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(path); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}
