package diag

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeMetricsPolicies(t *testing.T) {
	prev := map[string]float64{
		"minHz":        1.5,
		"maxAgeMs":     800,
		"sampleCount":  40,
		"maxAccuracyM": 12,
		"lastHz":       1.5,
	}
	next := map[string]float64{
		"minHz":        0.5,
		"maxAgeMs":     400,
		"sampleCount":  120,
		"maxAccuracyM": 30,
		"lastHz":       2.0,
	}

	merged := mergeMetrics(prev, next)

	assert.Equal(t, 0.5, merged["minHz"], "min keys keep the minimum")
	assert.Equal(t, 800.0, merged["maxAgeMs"], "max keys keep the maximum")
	assert.Equal(t, 120.0, merged["sampleCount"], "count keys keep the maximum")
	assert.Equal(t, 30.0, merged["maxAccuracyM"], "max keys keep the maximum")
	assert.Equal(t, 2.0, merged["lastHz"], "other keys take the latest value")
}

func TestMergeMetricsAbsentSides(t *testing.T) {
	prev := map[string]float64{"minHz": 0.7}

	assert.Equal(t, prev, mergeMetrics(prev, nil), "absent new keeps previous")

	next := map[string]float64{"minHz": 0.7}
	merged := mergeMetrics(nil, next)
	assert.Equal(t, next, merged)

	// Fresh copy, not an alias.
	merged["minHz"] = 0.1
	assert.Equal(t, 0.7, next["minHz"])
}

func TestMergeMetricsIgnoresNonFinite(t *testing.T) {
	prev := map[string]float64{"minHz": 0.7, "maxAgeMs": 500}
	next := map[string]float64{
		"minHz":    math.NaN(),
		"maxAgeMs": math.Inf(1),
		"extra":    math.Inf(-1),
	}

	merged := mergeMetrics(prev, next)

	assert.Equal(t, 0.7, merged["minHz"])
	assert.Equal(t, 500.0, merged["maxAgeMs"])
	assert.NotContains(t, merged, "extra")
}

func TestMergeMetricsIdempotent(t *testing.T) {
	obs := map[string]float64{"minHz": 0.5, "sampleCount": 10}

	once := mergeMetrics(nil, obs)
	twice := mergeMetrics(once, obs)

	assert.Equal(t, once, twice)
}

func TestMergeMetricsMonotonic(t *testing.T) {
	var acc map[string]float64
	for _, hz := range []float64{1.2, 0.4, 0.9, 0.6} {
		acc = mergeMetrics(acc, map[string]float64{"minHz": hz})
	}
	assert.Equal(t, 0.4, acc["minHz"])

	acc = nil
	for _, age := range []float64{200, 900, 300, 700} {
		acc = mergeMetrics(acc, map[string]float64{"maxAgeMs": age})
	}
	assert.Equal(t, 900.0, acc["maxAgeMs"])
}
