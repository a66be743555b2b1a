// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestNoopMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()

	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	Counter("noop_count").Add(1)
	CounterVec("noop_count_vec", []string{"method"}).AddWithLabel(1, map[string]string{"nonsense": "ok"})
	Gauge("noop_gauge").Set(3)
	Histogram("noop_hist", nil).Observe(1)
	HistogramVec("noop_hist_vec", []string{"method"}, nil).ObserveWithLabels(1, nil)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPromMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()
	InitializePrometheusMetrics()

	count := Counter("calls")
	countVec := CounterVec("calls_by_outcome", []string{"outcome"})
	gauge := Gauge("head")
	hist := Histogram("duration", BucketCalls)
	histVec := HistogramVec("duration_by_method", []string{"method"}, BucketCalls)

	count.Add(1)
	Counter("calls").Add(2)
	countVec.AddWithLabel(1, map[string]string{"outcome": "ok"})
	countVec.AddWithLabel(4, map[string]string{"outcome": "reverted"})
	gauge.Set(10)
	gauge.Add(-3)
	for i := range 5 {
		hist.Observe(int64(i))
		histVec.ObserveWithLabels(int64(i), map[string]string{"method": "deposit"})
	}

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	found := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		found[mf.GetName()] = mf
	}

	require.Equal(t, float64(3), found["gravis_metrics_calls"].Metric[0].GetCounter().GetValue())
	sum := found["gravis_metrics_calls_by_outcome"].Metric[0].GetCounter().GetValue() +
		found["gravis_metrics_calls_by_outcome"].Metric[1].GetCounter().GetValue()
	require.Equal(t, float64(5), sum)
	require.Equal(t, float64(7), found["gravis_metrics_head"].Metric[0].GetGauge().GetValue())
	require.Equal(t, float64(10), found["gravis_metrics_duration"].Metric[0].GetHistogram().GetSampleSum())
	require.Equal(t, uint64(5), found["gravis_metrics_duration_by_method"].Metric[0].GetHistogram().GetSampleCount())
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics()

	for _, a := range []any{
		Gauge("noopGauge"),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, &noopMeters{}, a)
	}

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)
	lazyHistogramVec := LazyLoadHistogramVec("lazyHistogramVec", nil, nil)

	// after initialization, newly created metrics become of the prometheus type
	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramMeter{}, lazyHistogram())
	require.IsType(t, &promHistogramVecMeter{}, lazyHistogramVec())
}
