package obs

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the simulator's collectors on a dedicated registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	trips        *prometheus.CounterVec
	tripPackages prometheus.Histogram
	deliveries   *prometheus.CounterVec
	miles        *prometheus.CounterVec
	dayMiles     prometheus.Gauge
	dayMissed    prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		trips: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "sim_trips_total", Help: "Trips departed by vehicle."},
			[]string{"vehicle"},
		),
		tripPackages: prometheus.NewHistogram(
			prometheus.HistogramOpts{Name: "sim_trip_packages", Help: "Packages carried per trip.", Buckets: []float64{1, 2, 4, 8, 12, 16, 24}},
		),
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "sim_deliveries_total", Help: "Deliveries by outcome."},
			[]string{"outcome"},
		),
		miles: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "sim_miles_driven_total", Help: "Miles driven by vehicle."},
			[]string{"vehicle"},
		),
		dayMiles: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "sim_last_day_miles", Help: "Total miles of the last simulated day."},
		),
		dayMissed: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "sim_last_day_missed_deadlines", Help: "Missed deadlines of the last simulated day."},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
			[]string{"method", "path"},
		),
	}

	m.Registry.MustRegister(
		m.trips, m.tripPackages, m.deliveries, m.miles, m.dayMiles, m.dayMissed,
		m.httpRequests, m.httpDuration,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) ObserveTrip(vehicleID int, packages int) {
	if m == nil {
		return
	}
	m.trips.WithLabelValues(strconv.Itoa(vehicleID)).Inc()
	m.tripPackages.Observe(float64(packages))
}

func (m *Metrics) ObserveDelivery(onTime bool) {
	if m == nil {
		return
	}
	outcome := "late"
	if onTime {
		outcome = "on_time"
	}
	m.deliveries.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveMiles(vehicleID int, miles float64) {
	if m == nil {
		return
	}
	m.miles.WithLabelValues(strconv.Itoa(vehicleID)).Add(miles)
}

func (m *Metrics) ObserveDay(totalMiles float64, missed int) {
	if m == nil {
		return
	}
	m.dayMiles.Set(totalMiles)
	m.dayMissed.Set(float64(missed))
}

func (m *Metrics) ObserveHTTP(method, path string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(seconds)
}
