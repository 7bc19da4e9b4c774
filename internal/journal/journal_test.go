package journal_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloroad/ridediag/internal/diag"
	"github.com/veloroad/ridediag/internal/journal"
	"github.com/veloroad/ridediag/internal/logger"
)

func init() {
	logger.Init(false, false, true)
}

func closedEvent() diag.DiagnosticEvent {
	return diag.DiagnosticEvent{
		Kind:        diag.KindGPSLowRate,
		Sensor:      diag.SensorGPS,
		Severity:    diag.SeverityWarn,
		Title:       "GPS update rate low",
		StartSec:    1.25,
		EndSec:      6.75,
		DurationSec: 5.5,
		Closed:      true,
		Metrics:     map[string]float64{"minHz": 0.5},
	}
}

func TestServiceDisabledIsNoop(t *testing.T) {
	rec, err := journal.NewService(journal.Config{Enabled: false})
	require.NoError(t, err)

	require.NoError(t, rec.Record(context.Background(), "s1", closedEvent()))
	require.NoError(t, rec.Close())
}

func TestServiceRejectsOpenEvent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "findings.db")
	rec, err := journal.NewService(journal.Config{Enabled: true, DBPath: dbPath})
	require.NoError(t, err)
	defer rec.Close()

	ev := closedEvent()
	ev.Closed = false
	err = rec.Record(context.Background(), "s1", ev)
	require.Error(t, err)
}

func TestRecordPersistsFinding(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "findings.db")
	rec, err := journal.NewService(journal.Config{Enabled: true, DBPath: dbPath})
	require.NoError(t, err)

	require.NoError(t, rec.Record(context.Background(), "20250601T090000Z", closedEvent()))
	require.NoError(t, rec.Close())

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var (
		kind, sensor, severity, metrics string
		startSec, endSec, durationSec   float64
	)
	row := db.QueryRow(`
        SELECT kind, sensor, severity, start_sec, end_sec, duration_sec, metrics
        FROM findings WHERE session_id = ?`, "20250601T090000Z")
	require.NoError(t, row.Scan(&kind, &sensor, &severity, &startSec, &endSec, &durationSec, &metrics))

	assert.Equal(t, "gps_low_rate", kind)
	assert.Equal(t, "gps", sensor)
	assert.Equal(t, "warn", severity)
	assert.Equal(t, 1.25, startSec)
	assert.Equal(t, 6.75, endSec)
	assert.Equal(t, 5.5, durationSec)
	assert.JSONEq(t, `{"minHz":0.5}`, metrics)
}

func TestInvalidConfig(t *testing.T) {
	_, err := journal.NewService(journal.Config{Enabled: true, DBPath: ""})
	require.Error(t, err)
}
