package diag

import "time"

// Permission is the host-reported authorization state for a sensor.
type Permission string

const (
	PermissionGranted     Permission = "granted"
	PermissionDenied      Permission = "denied"
	PermissionPrompt      Permission = "prompt"
	PermissionUnsupported Permission = "unsupported"
)

// Permissions carries the per-sensor permission states. The zero value
// of each field is treated as PermissionPrompt. Orientation is reported
// by some hosts but unused by the evaluation.
type Permissions struct {
	Location    Permission `json:"location"`
	Motion      Permission `json:"motion"`
	Orientation Permission `json:"orientation,omitempty"`
}

// Capability describes whether a sensor exists and actually works.
type Capability struct {
	APISupported bool `json:"apiSupported"`
	Usable       bool `json:"usable"`
}

// Capabilities is the device capability report from the host probe.
type Capabilities struct {
	GPS    Capability `json:"gps"`
	Motion Capability `json:"motion"`
}

// SensorHealth is the pre-aggregated per-sensor slice of a health
// report. Accuracy95M is only meaningful for GPS. A SampleCount of
// zero means the collector has seen nothing yet and LastSampleAge is
// not meaningful.
type SensorHealth struct {
	ObservedHz    float64       `json:"observedHz"`
	LastSampleAge time.Duration `json:"lastSampleAgeMs"`
	Accuracy95M   float64       `json:"accuracy95m,omitempty"`
	SampleCount   int           `json:"sampleCount"`
}

// HealthReport is one tick of collection-health statistics from the
// acquisition pipeline. At is the instant the report was produced;
// ages are re-projected forward from it at evaluation time.
type HealthReport struct {
	GPS    SensorHealth `json:"gps"`
	Motion SensorHealth `json:"motion"`
	At     time.Time    `json:"at"`
}

// DiagnosticEvent is one session-scoped occurrence of an issue. Times
// are seconds relative to session start, rounded to hundredths. EndSec
// and DurationSec are meaningful only once Closed is true; a closed
// event is never mutated again.
type DiagnosticEvent struct {
	Kind        DiagnosticKind     `json:"kind"`
	Sensor      SensorKind         `json:"sensor"`
	Severity    Severity           `json:"severity"`
	Title       string             `json:"title"`
	StartSec    float64            `json:"tStartSec"`
	EndSec      float64            `json:"tEndSec,omitempty"`
	DurationSec float64            `json:"durationSec,omitempty"`
	Closed      bool               `json:"closed"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

// ActiveIssue is the catalog-enriched view of one currently active
// issue state.
type ActiveIssue struct {
	Kind     DiagnosticKind     `json:"kind"`
	Sensor   SensorKind         `json:"sensor"`
	Severity Severity           `json:"severity"`
	Title    string             `json:"title"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
}

// Summary is the one-line rollup for the snapshot.
type Summary struct {
	Status     string `json:"status"`
	IssueCount int    `json:"issueCount"`
}

const (
	SummaryOK     = "OK"
	SummaryIssues = "Issues"
)

// Snapshot is the externally visible read model. It is a defensive
// copy: callers may hold it indefinitely without observing later
// mutation.
type Snapshot struct {
	ActiveIssues  []ActiveIssue               `json:"activeIssues"`
	Findings      []DiagnosticEvent           `json:"findings"`
	SensorStatus  map[SensorKind]SensorStatus `json:"sensorStatus"`
	Summary       Summary                     `json:"summary"`
	SessionActive bool                        `json:"sessionActive"`
}
