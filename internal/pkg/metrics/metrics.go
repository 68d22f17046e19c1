// Package metrics - метрики Prometheus сервиса
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stationtime_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stationtime_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	tapsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stationtime_taps_total",
		Help: "Badge taps handled by the work-time engine, by outcome",
	}, []string{"status"})

	tapDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stationtime_tap_duration_seconds",
		Help:    "Duration of tap handling including transaction retries",
		Buckets: prometheus.DefBuckets,
	})

	tapRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stationtime_tap_tx_retries_total",
		Help: "Tap transactions retried after a concurrency conflict",
	})

	cardChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stationtime_card_checks_total",
		Help: "Card checks, by outcome",
	}, []string{"status"})

	openWorkTimes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stationtime_open_work_times",
		Help: "Number of open work-time sessions",
	})

	weatherReadingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stationtime_weather_readings_total",
		Help: "Weather readings received, by result",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveTap records the outcome and duration of a tap
func ObserveTap(status string, duration time.Duration) {
	tapsTotal.WithLabelValues(status).Inc()
	tapDuration.Observe(duration.Seconds())
}

// IncTapRetry counts a retried tap transaction
func IncTapRetry() {
	tapRetries.Inc()
}

// ObserveCardCheck records the outcome of a card check
func ObserveCardCheck(status string) {
	cardChecksTotal.WithLabelValues(status).Inc()
}

// IncOpenWorkTimes increments the open sessions gauge
func IncOpenWorkTimes() {
	openWorkTimes.Inc()
}

// DecOpenWorkTimes decrements the open sessions gauge
func DecOpenWorkTimes() {
	openWorkTimes.Dec()
}

// SetOpenWorkTimes sets the open sessions gauge, e.g. at startup
func SetOpenWorkTimes(count int) {
	if count < 0 {
		count = 0
	}
	openWorkTimes.Set(float64(count))
}

// ObserveWeatherReading records a weather reading attempt
func ObserveWeatherReading(result string) {
	weatherReadingsTotal.WithLabelValues(result).Inc()
}
