package health

import (
	"strings"

	"ttlmap/internal/logs"
	"ttlmap/internal/metrics"
)

// Analyzer converts metrics + logs into a health report.
type Analyzer struct {
	metrics *metrics.Registry
	logger  *logs.Logger
	rules   []Rule
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(
	reg *metrics.Registry,
	logger *logs.Logger,
) *Analyzer {
	return &Analyzer{
		metrics: reg,
		logger:  logger,
		rules: []Rule{
			MissRatioRule,
			UnsweptKeysRule,
			LoaderErrorRule,
			HTTPPanicRule,
		},
	}
}

// Analyze evaluates metrics and logs and returns a health report.
func (a *Analyzer) Analyze() Report {
	snapshot := a.metrics.Snapshot()

	var (
		signals         = []string{}
		recommendations = []string{}
		status          = StatusOK
	)

	/* ---------- METRICS-BASED RULES ---------- */

	for _, rule := range a.rules {
		result := rule(snapshot)
		if !result.Triggered {
			continue
		}

		signals = append(signals, result.Signal)
		recommendations = append(recommendations, result.Recommendation)
		status = escalate(status, result.Severity)
	}

	/* ---------- LOG-BASED SIGNALS ---------- */

	errorCount := 0
	panicCount := 0

	for _, entry := range a.logger.GetLast(100) {
		if entry.Level != logs.ERROR {
			continue
		}
		errorCount++
		if strings.Contains(entry.Message, "panic") {
			panicCount++
		}
	}

	if errorCount-panicCount >= 3 {
		signals = append(signals,
			"Repeated errors detected in logs",
		)
		recommendations = append(recommendations,
			"Inspect recent error logs",
		)
		status = escalate(status, StatusDegraded)
	}

	if panicCount > 0 {
		signals = append(signals,
			"Application panics detected in logs",
		)
		recommendations = append(recommendations,
			"Inspect stack traces and stabilize error handling",
		)
		status = StatusCritical
	}

	/* ---------- SUMMARY ---------- */

	summary := "System is healthy"
	if status != StatusOK {
		summary = "System health issues detected"
	}

	return Report{
		OverallStatus:   status,
		Summary:         summary,
		Signals:         signals,
		Recommendations: recommendations,
	}
}

func escalate(current, severity Status) Status {
	switch {
	case severity == StatusCritical:
		return StatusCritical
	case severity == StatusDegraded && current == StatusOK:
		return StatusDegraded
	default:
		return current
	}
}
