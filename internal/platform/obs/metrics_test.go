package obs

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()
	m.ObserveTrip(1, 12)
	m.ObserveTrip(1, 4)
	m.ObserveDelivery(true)
	m.ObserveDelivery(false)
	m.ObserveMiles(2, 10.5)
	m.ObserveDay(80.2, 1)

	require.Equal(t, 2.0, testutil.ToFloat64(m.trips.WithLabelValues("1")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("late")))
	require.Equal(t, 10.5, testutil.ToFloat64(m.miles.WithLabelValues("2")))
	require.Equal(t, 80.2, testutil.ToFloat64(m.dayMiles))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveTrip(1, 1)
		m.ObserveDelivery(true)
		m.ObserveMiles(1, 1)
		m.ObserveDay(1, 0)
		m.ObserveHTTP("GET", "/health", 200, 0.01)
	})
}
