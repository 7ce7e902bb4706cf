package api

import (
	"delivery-day-simulator/internal/api/handlers"
	"delivery-day-simulator/internal/platform/obs"
	"delivery-day-simulator/internal/ports"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Deps are the collaborators the HTTP layer needs. Cache and Metrics may
// be nil.
type Deps struct {
	Day       *handlers.DayState
	Cache     ports.ReportCache
	Metrics   *obs.Metrics
	RateLimit rate.Limit
	Burst     int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	pkgHandler := &handlers.PackageHandler{Day: deps.Day, Cache: deps.Cache}
	reportHandler := &handlers.ReportHandler{Day: deps.Day}
	runHandler := &handlers.RunHandler{Day: deps.Day}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/packages", pkgHandler.List)
	mux.HandleFunc("/summary", reportHandler.Summary)
	mux.HandleFunc("/trips", reportHandler.Trips)
	mux.HandleFunc("/runs", runHandler.Run)
	if deps.Metrics != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{}))
	}

	var h http.Handler = mux
	if deps.RateLimit > 0 {
		burst := deps.Burst
		if burst < 1 {
			burst = 1
		}
		h = rateLimitMiddleware(newIPRateLimiter(deps.RateLimit, burst), h)
	}
	return loggingMiddleware(deps.Metrics, h)
}
