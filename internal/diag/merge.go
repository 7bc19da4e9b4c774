package diag

import (
	"math"
	"strings"
)

type mergePolicy int

const (
	policyLast mergePolicy = iota
	policyMin
	policyMax
)

// keyPolicy derives the aggregation policy from the metric name: "min"
// keys keep the minimum, "max" and count keys keep the maximum,
// everything else takes the latest value.
func keyPolicy(key string) mergePolicy {
	lower := strings.ToLower(key)
	switch {
	case strings.HasPrefix(lower, "min"):
		return policyMin
	case strings.HasPrefix(lower, "max"), strings.Contains(lower, "count"):
		return policyMax
	default:
		return policyLast
	}
}

// mergeMetrics folds a new observation into the accumulated metrics of
// an ongoing issue. Non-finite incoming values are dropped so one bad
// sample cannot poison the accumulated worst case.
func mergeMetrics(prev, next map[string]float64) map[string]float64 {
	if next == nil {
		return prev
	}

	merged := make(map[string]float64, len(prev)+len(next))
	for k, v := range prev {
		merged[k] = v
	}

	for k, v := range next {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		old, ok := merged[k]
		if !ok {
			merged[k] = v
			continue
		}
		switch keyPolicy(k) {
		case policyMin:
			if v < old {
				merged[k] = v
			}
		case policyMax:
			if v > old {
				merged[k] = v
			}
		default:
			merged[k] = v
		}
	}

	return merged
}

func copyMetrics(metrics map[string]float64) map[string]float64 {
	if metrics == nil {
		return nil
	}
	out := make(map[string]float64, len(metrics))
	for k, v := range metrics {
		out[k] = v
	}
	return out
}
