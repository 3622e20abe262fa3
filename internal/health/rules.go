package health

import "ttlmap/internal/metrics"

// RuleResult represents the outcome of a single rule.
type RuleResult struct {
	Triggered      bool
	Signal         string
	Recommendation string
	Severity       Status
}

// Rule evaluates a metrics snapshot.
type Rule func(snapshot map[string]int64) RuleResult

const (
	// minimum gets before the miss ratio is meaningful
	missRatioMinGets = 20
	// keys held without a single sweep before lazy expiry is suspect
	unsweptKeysThreshold = 10000
)

// ---------- RULES ----------

// Most reads missing means entries expire before they are used.
func MissRatioRule(snapshot map[string]int64) RuleResult {
	gets := snapshot[string(metrics.MapGetsTotal)]
	misses := snapshot[string(metrics.MapMissesTotal)]

	if gets >= missRatioMinGets && misses*2 > gets {
		return RuleResult{
			Triggered:      true,
			Signal:         "More than half of reads miss",
			Recommendation: "Check that the default TTL is not shorter than the read pattern needs",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}

// Expiry is lazy, so a large map that is never swept may hold dead entries.
func UnsweptKeysRule(snapshot map[string]int64) RuleResult {
	keys := snapshot[string(metrics.MapKeys)]
	sweeps := snapshot[string(metrics.MapSweepsTotal)]

	if keys >= unsweptKeysThreshold && sweeps == 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         "Many keys stored and the map was never swept",
			Recommendation: "Call Len or iterate periodically so expired entries are reclaimed",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}

// Loader failures mean callers see backend errors instead of values.
func LoaderErrorRule(snapshot map[string]int64) RuleResult {
	failures := snapshot[string(metrics.LoaderErrorsTotal)]

	if failures > 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         "Loader errors detected",
			Recommendation: "Check availability of the backing source",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}

// Recovered panics in handlers indicate a bug.
func HTTPPanicRule(snapshot map[string]int64) RuleResult {
	panics := snapshot[string(metrics.HTTPPanicsTotal)]

	if panics > 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         "Handler panics recovered",
			Recommendation: "Inspect logs for stack traces",
			Severity:       StatusCritical,
		}
	}
	return RuleResult{}
}
