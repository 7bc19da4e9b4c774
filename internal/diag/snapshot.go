package diag

import "sort"

// snapshotLocked projects the internal state into the read model. All
// slices and maps are fresh copies.
func (m *Manager) snapshotLocked() Snapshot {
	var active []ActiveIssue
	for _, kind := range allKinds {
		st := m.states[kind]
		if st.phase != phaseActive {
			continue
		}
		entry := Describe(kind)
		active = append(active, ActiveIssue{
			Kind:     kind,
			Sensor:   entry.Sensor,
			Severity: entry.Severity,
			Title:    entry.Title,
			Metrics:  copyMetrics(st.metrics),
		})
	}

	findings := make([]DiagnosticEvent, 0, len(m.findings)+len(m.open))
	for _, ev := range m.findings {
		ev.Metrics = copyMetrics(ev.Metrics)
		findings = append(findings, ev)
	}
	for _, kind := range allKinds {
		if ev, open := m.open[kind]; open {
			cp := *ev
			cp.Metrics = copyMetrics(ev.Metrics)
			findings = append(findings, cp)
		}
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].StartSec < findings[j].StartSec
	})

	status := make(map[SensorKind]SensorStatus, len(m.status))
	for sensor, s := range m.status {
		status[sensor] = s
	}

	summary := Summary{Status: SummaryOK}
	if len(active) > 0 {
		summary = Summary{Status: SummaryIssues, IssueCount: len(active)}
	}

	return Snapshot{
		ActiveIssues:  active,
		Findings:      findings,
		SensorStatus:  status,
		Summary:       summary,
		SessionActive: !m.sessionStart.IsZero(),
	}
}
