package diag

import "time"

// candidate is one per-tick "this condition is true right now" verdict.
// Immediate candidates bypass the confirmation hold.
type candidate struct {
	immediate bool
	metrics   map[string]float64
}

type evalInput struct {
	now          time.Time
	sessionStart time.Time // zero when no session is active
	health       *HealthReport
	perms        Permissions
	caps         *Capabilities
	lastSample   map[SensorKind]time.Time
}

type evalResult struct {
	candidates map[DiagnosticKind]candidate
	status     map[SensorKind]SensorStatus
}

// evaluate computes the full candidate set and per-sensor status for
// one tick. It is pure with respect to its input.
func evaluate(cfg Config, in evalInput) evalResult {
	res := evalResult{
		candidates: make(map[DiagnosticKind]candidate),
		status:     make(map[SensorKind]SensorStatus, 2),
	}

	evalSensor(cfg, SensorGPS, in, &res)
	evalSensor(cfg, SensorMotion, in, &res)

	return res
}

// evalSensor walks the precedence ladder for one sensor: permission,
// capability, liveness, then rate/accuracy. The first failing rung
// fixes the status; only the DEGRADED rung can emit more than one
// candidate (GPS low rate and poor accuracy together).
func evalSensor(cfg Config, sensor SensorKind, in evalInput, res *evalResult) {
	if permissionFor(in.perms, sensor) == PermissionDenied {
		res.status[sensor] = StatusDenied
		res.candidates[deniedKind(sensor)] = candidate{immediate: true}
		return
	}

	if unsupported(in, sensor) {
		res.status[sensor] = StatusUnsupported
		res.candidates[unsupportedKind(sensor)] = candidate{immediate: true}
		return
	}

	staleAfter, grace := cfg.GPSStaleAfter, cfg.GPSFirstFixGrace
	if sensor == SensorMotion {
		staleAfter, grace = cfg.MotionStaleAfter, cfg.MotionFirstSampleGrace
	}

	age, ageKnown := sampleAge(in, sensor)
	if ageKnown && age > staleAfter {
		res.status[sensor] = StatusLost
		res.candidates[lostKind(sensor)] = candidate{
			metrics: map[string]float64{"maxAgeMs": float64(age.Milliseconds())},
		}
		return
	}
	if !ageKnown && !in.sessionStart.IsZero() && in.now.Sub(in.sessionStart) > grace {
		// No sample at all past the first-fix grace: the baseline case
		// activates without debounce.
		res.status[sensor] = StatusLost
		res.candidates[lostKind(sensor)] = candidate{
			immediate: true,
			metrics:   map[string]float64{"maxAgeMs": float64(in.now.Sub(in.sessionStart).Milliseconds())},
		}
		return
	}

	if in.health != nil {
		if evalRates(cfg, sensor, in.health, res) {
			res.status[sensor] = StatusDegraded
			return
		}
	}

	res.status[sensor] = StatusOK
}

// evalRates applies the rate (and for GPS, accuracy) thresholds and
// reports whether the sensor is degraded.
func evalRates(cfg Config, sensor SensorKind, report *HealthReport, res *evalResult) bool {
	degraded := false

	switch sensor {
	case SensorGPS:
		h := report.GPS
		if h.ObservedHz > 0 && h.ObservedHz < cfg.MinGPSHz {
			res.candidates[KindGPSLowRate] = candidate{
				metrics: map[string]float64{
					"minHz":       h.ObservedHz,
					"sampleCount": float64(h.SampleCount),
				},
			}
			degraded = true
		}
		if cfg.MaxGPSAccuracyM > 0 && h.Accuracy95M > cfg.MaxGPSAccuracyM {
			res.candidates[KindGPSPoorAccuracy] = candidate{
				metrics: map[string]float64{"maxAccuracyM": h.Accuracy95M},
			}
			degraded = true
		}
	case SensorMotion:
		h := report.Motion
		if h.ObservedHz > 0 && h.ObservedHz < cfg.MinMotionHz() {
			res.candidates[KindMotionLowRate] = candidate{
				metrics: map[string]float64{
					"minHz":       h.ObservedHz,
					"sampleCount": float64(h.SampleCount),
				},
			}
			degraded = true
		}
	}

	return degraded
}

func permissionFor(perms Permissions, sensor SensorKind) Permission {
	p := perms.Location
	if sensor == SensorMotion {
		p = perms.Motion
	}
	if p == "" {
		return PermissionPrompt
	}
	return p
}

func unsupported(in evalInput, sensor SensorKind) bool {
	if permissionFor(in.perms, sensor) == PermissionUnsupported {
		return true
	}
	if in.caps == nil {
		// No capability report yet: assume supported.
		return false
	}
	c := in.caps.GPS
	if sensor == SensorMotion {
		c = in.caps.Motion
	}
	return !c.APISupported || !c.Usable
}

// sampleAge derives the freshest known last-sample age from the health
// report and the raw per-sample timestamps. Report ages are projected
// forward from the report instant so a stalling sensor keeps aging
// between reports.
func sampleAge(in evalInput, sensor SensorKind) (time.Duration, bool) {
	var lastSeen time.Time

	if in.health != nil {
		h := in.health.GPS
		if sensor == SensorMotion {
			h = in.health.Motion
		}
		if h.SampleCount > 0 {
			lastSeen = in.health.At.Add(-h.LastSampleAge)
		}
	}

	if raw, ok := in.lastSample[sensor]; ok && raw.After(lastSeen) {
		lastSeen = raw
	}

	if lastSeen.IsZero() {
		return 0, false
	}
	age := in.now.Sub(lastSeen)
	if age < 0 {
		age = 0
	}
	return age, true
}

func lostKind(sensor SensorKind) DiagnosticKind {
	if sensor == SensorMotion {
		return KindMotionStalled
	}
	return KindGPSSignalLost
}

func deniedKind(sensor SensorKind) DiagnosticKind {
	if sensor == SensorMotion {
		return KindMotionDenied
	}
	return KindGPSDenied
}

func unsupportedKind(sensor SensorKind) DiagnosticKind {
	if sensor == SensorMotion {
		return KindMotionUnsupported
	}
	return KindGPSUnsupported
}
