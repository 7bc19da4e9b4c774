package diag

import "time"

// Diagnostics defines the operations the host application drives. All
// timestamps must be fed in non-decreasing order.
type Diagnostics interface {
	UpdatePermissions(perms Permissions)
	UpdateCapabilities(caps Capabilities)
	RecordSample(sensor SensorKind, at time.Time)
	UpdateHealth(report HealthReport, now time.Time) Snapshot
	Tick(now time.Time) Snapshot
	StartSession(now time.Time) Snapshot
	StopSession(now time.Time) Snapshot
	ResetAll(now time.Time) Snapshot
	Snapshot() Snapshot
}

var _ Diagnostics = (*Manager)(nil)
