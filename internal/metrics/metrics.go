package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts handled requests by method and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stircraft_http_requests_total",
		Help: "Total HTTP requests by method and status code",
	}, []string{"method", "code"})

	// HTTPDuration tracks request latency.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stircraft_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"method"})

	// CocktailWrites counts cocktail mutations by operation and result.
	CocktailWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stircraft_cocktail_writes_total",
		Help: "Cocktail create, update and delete attempts by result",
	}, []string{"operation", "result"})

	// FavoriteToggles counts favorite toggles by resulting state.
	FavoriteToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stircraft_favorite_toggles_total",
		Help: "Favorite toggles by resulting state",
	}, []string{"state"})

	// ImportRecords counts import pipeline records by outcome.
	ImportRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stircraft_import_records_total",
		Help: "Imported recipe records by outcome",
	}, []string{"outcome"})
)

// Result labels.
const (
	ResultOK       = "ok"
	ResultInvalid  = "invalid"
	ResultDenied   = "denied"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
