package diag

import "fmt"

// SensorKind identifies one of the two physical data sources.
type SensorKind string

const (
	SensorGPS    SensorKind = "gps"
	SensorMotion SensorKind = "motion"
)

// SensorStatus is the coarse per-sensor verdict, recomputed every evaluation.
type SensorStatus string

const (
	StatusOK          SensorStatus = "ok"
	StatusDegraded    SensorStatus = "degraded"
	StatusLost        SensorStatus = "lost"
	StatusDenied      SensorStatus = "denied"
	StatusUnsupported SensorStatus = "unsupported"
)

// Severity classifies how bad a diagnostic finding is.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// DiagnosticKind identifies one condition from the closed catalog.
type DiagnosticKind string

const (
	KindGPSSignalLost     DiagnosticKind = "gps_signal_lost"
	KindGPSLowRate        DiagnosticKind = "gps_low_rate"
	KindGPSPoorAccuracy   DiagnosticKind = "gps_poor_accuracy"
	KindGPSDenied         DiagnosticKind = "gps_permission_denied"
	KindGPSUnsupported    DiagnosticKind = "gps_unsupported"
	KindMotionStalled     DiagnosticKind = "imu_stalled"
	KindMotionLowRate     DiagnosticKind = "imu_low_rate"
	KindMotionDenied      DiagnosticKind = "imu_permission_denied"
	KindMotionUnsupported DiagnosticKind = "imu_unsupported"
)

// CatalogEntry binds a kind to its display title, severity and owning sensor.
type CatalogEntry struct {
	Title    string
	Severity Severity
	Sensor   SensorKind
}

var catalog = map[DiagnosticKind]CatalogEntry{
	KindGPSSignalLost:     {Title: "GPS signal lost", Severity: SeverityError, Sensor: SensorGPS},
	KindGPSLowRate:        {Title: "GPS update rate low", Severity: SeverityWarn, Sensor: SensorGPS},
	KindGPSPoorAccuracy:   {Title: "GPS accuracy degraded", Severity: SeverityWarn, Sensor: SensorGPS},
	KindGPSDenied:         {Title: "Location permission denied", Severity: SeverityError, Sensor: SensorGPS},
	KindGPSUnsupported:    {Title: "Location unsupported on this device", Severity: SeverityError, Sensor: SensorGPS},
	KindMotionStalled:     {Title: "Motion sensor stalled", Severity: SeverityError, Sensor: SensorMotion},
	KindMotionLowRate:     {Title: "Motion sample rate low", Severity: SeverityWarn, Sensor: SensorMotion},
	KindMotionDenied:      {Title: "Motion permission denied", Severity: SeverityError, Sensor: SensorMotion},
	KindMotionUnsupported: {Title: "Motion sensors unsupported on this device", Severity: SeverityError, Sensor: SensorMotion},
}

// allKinds fixes the iteration order for the per-tick state advance.
var allKinds = []DiagnosticKind{
	KindGPSSignalLost,
	KindGPSLowRate,
	KindGPSPoorAccuracy,
	KindGPSDenied,
	KindGPSUnsupported,
	KindMotionStalled,
	KindMotionLowRate,
	KindMotionDenied,
	KindMotionUnsupported,
}

// AllKinds returns every recognized diagnostic kind in stable order.
func AllKinds() []DiagnosticKind {
	kinds := make([]DiagnosticKind, len(allKinds))
	copy(kinds, allKinds)
	return kinds
}

// Describe looks up the catalog entry for a kind. An unknown kind is a
// coding defect in the evaluator, not a runtime condition.
func Describe(kind DiagnosticKind) CatalogEntry {
	entry, ok := catalog[kind]
	if !ok {
		panic(fmt.Sprintf("diag: unknown diagnostic kind %q", kind))
	}
	return entry
}
