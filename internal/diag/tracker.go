package diag

import (
	"math"
	"time"
)

type issuePhase int

const (
	phaseInactive issuePhase = iota
	phasePending
	phaseActive
)

// issueState is the per-kind debounce state. pendingSince is meaningful
// only in phasePending; openedAt and metrics only in phaseActive;
// recoverSince only in phaseActive while the recovery timer runs.
type issueState struct {
	phase        issuePhase
	pendingSince time.Time
	recoverSince time.Time
	openedAt     time.Time
	metrics      map[string]float64
}

// advance moves every kind's state machine one tick forward against the
// fresh candidate set, opening and closing events as transitions commit.
func (m *Manager) advance(res evalResult, now time.Time) {
	for _, kind := range allKinds {
		st := m.states[kind]
		cand, present := res.candidates[kind]

		switch st.phase {
		case phaseInactive:
			if !present {
				continue
			}
			st.pendingSince = now
			st.phase = phasePending
			fallthrough

		case phasePending:
			if !present {
				st.phase = phaseInactive
				st.pendingSince = time.Time{}
				continue
			}
			if cand.immediate || now.Sub(st.pendingSince) >= m.cfg.ProblemHold {
				m.activate(kind, st, cand, now)
			}

		case phaseActive:
			if present {
				st.recoverSince = time.Time{}
				st.metrics = mergeMetrics(st.metrics, cand.metrics)
				if ev, open := m.open[kind]; open {
					ev.Metrics = mergeMetrics(ev.Metrics, cand.metrics)
				}
				continue
			}
			if st.recoverSince.IsZero() {
				st.recoverSince = now
			}
			if now.Sub(st.recoverSince) >= m.cfg.RecoveryHold {
				m.deactivate(kind, st, now)
			}
		}
	}
}

// activate commits a pending (or immediate) candidate to Active. The
// window opens at the original pending time so the recorded start
// reflects the true onset, not the confirmation instant.
func (m *Manager) activate(kind DiagnosticKind, st *issueState, cand candidate, now time.Time) {
	openedAt := st.pendingSince
	if openedAt.IsZero() {
		openedAt = now
	}

	st.phase = phaseActive
	st.pendingSince = time.Time{}
	st.recoverSince = time.Time{}
	st.openedAt = openedAt
	st.metrics = mergeMetrics(nil, cand.metrics)

	if m.sessionStart.IsZero() {
		return
	}

	entry := Describe(kind)
	start := roundSec(openedAt.Sub(m.sessionStart))
	if start < 0 {
		start = 0
	}
	m.open[kind] = &DiagnosticEvent{
		Kind:     kind,
		Sensor:   entry.Sensor,
		Severity: entry.Severity,
		Title:    entry.Title,
		StartSec: start,
		Metrics:  copyMetrics(st.metrics),
	}
}

// deactivate commits a confirmed recovery back to Inactive and closes
// the open event, if any, appending it to the session findings.
func (m *Manager) deactivate(kind DiagnosticKind, st *issueState, now time.Time) {
	st.phase = phaseInactive
	st.pendingSince = time.Time{}
	st.recoverSince = time.Time{}
	st.openedAt = time.Time{}
	st.metrics = nil

	ev, open := m.open[kind]
	if !open {
		return
	}
	delete(m.open, kind)
	m.closeEvent(ev, now)
	m.findings = append(m.findings, *ev)
}

// closeEvent stamps the end and duration on an open event. End and
// duration are rounded to hundredths independently so that
// duration == end - start holds exactly at two decimals.
func (m *Manager) closeEvent(ev *DiagnosticEvent, now time.Time) {
	end := roundSec(now.Sub(m.sessionStart))
	if end < ev.StartSec {
		end = ev.StartSec
	}
	ev.EndSec = end
	ev.DurationSec = math.Round((end-ev.StartSec)*100) / 100
	ev.Closed = true
}

func roundSec(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
