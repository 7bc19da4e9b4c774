package diag

import (
	"sync"
	"time"
)

// Manager owns all diagnostics state for one data-collection session:
// cached collaborator inputs, the per-kind debounce states, the open
// event set and the session findings log. Callers must feed updates in
// non-decreasing timestamp order; the mutex only makes concurrent
// snapshot reads safe, it does not reorder writers.
type Manager struct {
	mu  sync.Mutex
	cfg Config

	perms      Permissions
	caps       *Capabilities
	health     *HealthReport
	lastSample map[SensorKind]time.Time

	sessionStart time.Time
	states       map[DiagnosticKind]*issueState
	open         map[DiagnosticKind]*DiagnosticEvent
	findings     []DiagnosticEvent
	status       map[SensorKind]SensorStatus
}

func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:        cfg,
		lastSample: make(map[SensorKind]time.Time, 2),
		states:     make(map[DiagnosticKind]*issueState, len(allKinds)),
		open:       make(map[DiagnosticKind]*DiagnosticEvent),
		status: map[SensorKind]SensorStatus{
			SensorGPS:    StatusOK,
			SensorMotion: StatusOK,
		},
	}
	for _, kind := range allKinds {
		m.states[kind] = &issueState{}
	}

	return m, nil
}

// UpdatePermissions caches the latest permission state. The next
// evaluation picks it up.
func (m *Manager) UpdatePermissions(perms Permissions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.perms = perms
}

// UpdateCapabilities caches the latest device capability report.
func (m *Manager) UpdateCapabilities(caps Capabilities) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := caps
	m.caps = &c
}

// RecordSample notes that a raw sample arrived for a sensor. It only
// refreshes the last-seen timestamp used as a liveness fallback before
// the first aggregated health report.
func (m *Manager) RecordSample(sensor SensorKind, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if at.After(m.lastSample[sensor]) {
		m.lastSample[sensor] = at
	}
}

// UpdateHealth feeds a new collection-health report and re-evaluates.
func (m *Manager) UpdateHealth(report HealthReport, now time.Time) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := report
	m.health = &r
	m.evaluateLocked(now)
	return m.snapshotLocked()
}

// Tick re-evaluates against the cached inputs. Drives the hysteresis
// timers between health reports.
func (m *Manager) Tick(now time.Time) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evaluateLocked(now)
	return m.snapshotLocked()
}

// StartSession clears all issue and event state, anchors the session
// clock at now and begins accumulating findings.
func (m *Manager) StartSession(now time.Time) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearIssueStateLocked()
	m.sessionStart = now
	m.evaluateLocked(now)
	return m.snapshotLocked()
}

// StopSession force-closes every still-open event at now and stops the
// session clock. Issue states and findings survive so a post-ride
// summary can still be read; sensor status keeps updating on ticks.
func (m *Manager) StopSession(now time.Time) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, kind := range allKinds {
		ev, open := m.open[kind]
		if !open {
			continue
		}
		delete(m.open, kind)
		m.closeEvent(ev, now)
		m.findings = append(m.findings, *ev)
	}
	m.sessionStart = time.Time{}

	return m.snapshotLocked()
}

// ResetAll tears everything down to a fresh baseline: no session, no
// issue or event state, empty findings. Cached collaborator inputs are
// kept as last set and a fresh evaluation runs immediately.
func (m *Manager) ResetAll(now time.Time) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionStart = time.Time{}
	m.clearIssueStateLocked()
	m.evaluateLocked(now)
	return m.snapshotLocked()
}

// Snapshot returns the current read model without re-evaluating.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) clearIssueStateLocked() {
	for _, kind := range allKinds {
		*m.states[kind] = issueState{}
	}
	m.open = make(map[DiagnosticKind]*DiagnosticEvent)
	m.findings = nil
}

func (m *Manager) evaluateLocked(now time.Time) {
	res := evaluate(m.cfg, evalInput{
		now:          now,
		sessionStart: m.sessionStart,
		health:       m.health,
		perms:        m.perms,
		caps:         m.caps,
		lastSample:   m.lastSample,
	})
	m.advance(res, now)
	m.status = res.status
}
