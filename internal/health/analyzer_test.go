package health

import (
	"testing"

	"ttlmap/internal/logs"
	"ttlmap/internal/metrics"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzer_OK(t *testing.T) {
	reg := metrics.NewRegistry()
	logger := logs.NewLogger(10, logs.DEBUG)

	report := NewAnalyzer(reg, logger).Analyze()

	assert.Equal(t, StatusOK, report.OverallStatus)
	assert.Equal(t, "System is healthy", report.Summary)
	assert.Empty(t, report.Signals)
}

func TestAnalyzer_DegradedMissRatio(t *testing.T) {
	reg := metrics.NewRegistry()
	logger := logs.NewLogger(10, logs.DEBUG)

	reg.Add(metrics.MapGetsTotal, 40)
	reg.Add(metrics.MapMissesTotal, 30)

	report := NewAnalyzer(reg, logger).Analyze()

	assert.Equal(t, StatusDegraded, report.OverallStatus)
	assert.Contains(t, report.Signals, "More than half of reads miss")
}

func TestAnalyzer_MissRatioNeedsEnoughReads(t *testing.T) {
	reg := metrics.NewRegistry()
	logger := logs.NewLogger(10, logs.DEBUG)

	reg.Add(metrics.MapGetsTotal, 4)
	reg.Add(metrics.MapMissesTotal, 4)

	report := NewAnalyzer(reg, logger).Analyze()

	assert.Equal(t, StatusOK, report.OverallStatus)
}

func TestAnalyzer_UnsweptKeys(t *testing.T) {
	reg := metrics.NewRegistry()
	logger := logs.NewLogger(10, logs.DEBUG)

	reg.Add(metrics.MapKeys, unsweptKeysThreshold)

	report := NewAnalyzer(reg, logger).Analyze()
	assert.Equal(t, StatusDegraded, report.OverallStatus)

	reg.Inc(metrics.MapSweepsTotal)

	report = NewAnalyzer(reg, logger).Analyze()
	assert.Equal(t, StatusOK, report.OverallStatus)
}

func TestAnalyzer_CriticalPanicMetric(t *testing.T) {
	reg := metrics.NewRegistry()
	logger := logs.NewLogger(10, logs.DEBUG)

	reg.Inc(metrics.LoaderErrorsTotal)
	reg.Inc(metrics.HTTPPanicsTotal)

	report := NewAnalyzer(reg, logger).Analyze()

	assert.Equal(t, StatusCritical, report.OverallStatus)
	assert.Len(t, report.Signals, 2)
	assert.Len(t, report.Recommendations, 2)
}

func TestAnalyzer_LogSignals(t *testing.T) {
	t.Run("RepeatedErrors", func(t *testing.T) {
		reg := metrics.NewRegistry()
		logger := logs.NewLogger(10, logs.DEBUG)

		logger.Error("loader failed")
		logger.Error("loader failed")
		logger.Error("loader failed")

		report := NewAnalyzer(reg, logger).Analyze()

		assert.Equal(t, StatusDegraded, report.OverallStatus)
		assert.Contains(t, report.Signals, "Repeated errors detected in logs")
	})

	t.Run("Panic", func(t *testing.T) {
		reg := metrics.NewRegistry()
		logger := logs.NewLogger(10, logs.DEBUG)

		logger.Error("panic recovered")

		report := NewAnalyzer(reg, logger).Analyze()

		assert.Equal(t, StatusCritical, report.OverallStatus)
		assert.Contains(t, report.Signals, "Application panics detected in logs")
	})
}
