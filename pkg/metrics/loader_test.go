package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestLoaderMetricsExportsCountersAndHistograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewLoaderMetrics(reg)
	metrics.ObserveResource("strict", "faqs", 120*time.Millisecond)
	metrics.IncFailure("strict", "faqs")
	metrics.IncDefaulted("faqs")
	metrics.IncDefaulted("faqs")
	metrics.ObserveLoad("strict", time.Second, errors.New("boom"))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "asset_resource_failures_total", "resource", "faqs"); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failures=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "asset_resource_defaulted_total", "resource", "faqs"); err != nil {
		t.Fatalf("fetch defaulted: %v", err)
	} else if got != 2 {
		t.Fatalf("expected defaulted=2, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "asset_resource_duration_seconds", "resource", "faqs"); err != nil {
		t.Fatalf("fetch resource duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "asset_load_duration_seconds", "outcome", "failure"); err != nil {
		t.Fatalf("fetch load duration: %v", err)
	} else if got != 1 {
		t.Fatalf("expected load duration sum 1, got %f", got)
	}
}

func TestLoaderMetricsNilSafe(t *testing.T) {
	var metrics *LoaderMetrics
	metrics.ObserveResource("strict", "faqs", time.Millisecond)
	metrics.IncFailure("strict", "faqs")
	metrics.IncDefaulted("faqs")
	metrics.ObserveLoad("strict", time.Millisecond, nil)

	unregistered := NewLoaderMetrics(nil)
	unregistered.IncDefaulted("faqs")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
