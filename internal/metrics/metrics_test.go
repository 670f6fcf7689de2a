package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsExportCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveHTTP("GET", "/api/v1/public/products", 200, 30*time.Millisecond)
	m.ObserveJob("order:timeout_cancel", time.Second, errors.New("boom"))
	m.ObserveUpstream("cdek", "tarifflist", nil)
	m.IncOrdersCreated()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := counterValue(mfs, "ramus_http_requests_total", "status", "200"); err != nil || got != 1 {
		t.Fatalf("http counter want 1 got %v err=%v", got, err)
	}
	if got, err := counterValue(mfs, "ramus_job_results_total", "result", "failure"); err != nil || got != 1 {
		t.Fatalf("job failure want 1 got %v err=%v", got, err)
	}
	if got, err := counterValue(mfs, "ramus_upstream_calls_total", "provider", "cdek"); err != nil || got != 1 {
		t.Fatalf("upstream counter want 1 got %v err=%v", got, err)
	}
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	m.ObserveJob("x", time.Millisecond, nil)
	m.IncOrdersCreated()
	New(nil).ObserveUpstream("yookassa", "create", nil)
}

func counterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetName() == label && pair.GetValue() == value {
					return metric.GetCounter().GetValue(), nil
				}
			}
		}
		return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
	}
	return 0, fmt.Errorf("metric %q not found", name)
}
