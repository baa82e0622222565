package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getCounterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.(prometheus.Metric).Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func getCounterVecValue(cv *prometheus.CounterVec, labels ...string) float64 {
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestMetrics_SubtitleSearchesTotal(t *testing.T) {
	before := getCounterVecValue(SubtitleSearchesTotal, "success")
	SubtitleSearchesTotal.WithLabelValues("success").Inc()
	after := getCounterVecValue(SubtitleSearchesTotal, "success")

	if after != before+1 {
		t.Errorf("Expected success counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestMetrics_MappingFallbacksTotal(t *testing.T) {
	before := getCounterValue(MappingFallbacksTotal)
	MappingFallbacksTotal.Inc()
	after := getCounterValue(MappingFallbacksTotal)

	if after != before+1 {
		t.Errorf("Expected fallback counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestRecordProviderRequest(t *testing.T) {
	successBefore := getCounterVecValue(ProviderRequestsTotal, "jikan", "success")
	errorBefore := getCounterVecValue(ProviderRequestsTotal, "jikan", "error")

	RecordProviderRequest("jikan", nil)
	RecordProviderRequest("jikan", errors.New("boom"))

	if got := getCounterVecValue(ProviderRequestsTotal, "jikan", "success"); got != successBefore+1 {
		t.Errorf("success outcome diff = %.0f, want 1", got-successBefore)
	}
	if got := getCounterVecValue(ProviderRequestsTotal, "jikan", "error"); got != errorBefore+1 {
		t.Errorf("error outcome diff = %.0f, want 1", got-errorBefore)
	}
}
